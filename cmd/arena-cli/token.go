package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/janhq/arena-server/pkg/arenaclient"
)

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".arena", "token")
	}
	return filepath.Join(home, ".arena", "token")
}

func saveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

// loadToken returns an empty token when none was saved yet.
func loadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// newClient builds a client from the persistent flags and the saved token.
func newClient(cmd *cobra.Command) (*arenaclient.Client, error) {
	server, _ := cmd.Flags().GetString("server")
	tokenFile, _ := cmd.Flags().GetString("token-file")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	token, err := loadToken(tokenFile)
	if err != nil {
		return nil, err
	}
	opts := []arenaclient.Option{arenaclient.WithToken(token)}
	if timeout > 0 {
		opts = append(opts, arenaclient.WithTimeout(timeout))
	}
	return arenaclient.New(server, opts...), nil
}

func shortTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("15:04:05")
}
