package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arena-cli",
	Short: "Arena CLI - manage agents, roles and rooms of an arena server",
	Long: `arena-cli talks to an arena server over its REST API and room websockets.

Examples:
  # Account
  arena-cli register alice --password secret
  arena-cli login alice --password secret

  # Cast
  arena-cli agents create --name gpt --provider openai --model gpt-4o-mini
  arena-cli roles create --agent <agent-id> --name Socrates --profession philosopher

  # Rooms
  arena-cli rooms create --name "Ethics" --topic "Is lying ever right?" --role <role-id> --role <role-id>
  arena-cli rooms start <room-id>
  arena-cli rooms watch <room-id>`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(roomsCmd)

	rootCmd.PersistentFlags().String("server", envOr("ARENA_SERVER", "http://localhost:8190"), "Arena server base URL")
	rootCmd.PersistentFlags().String("token-file", defaultTokenPath(), "File holding the bearer token")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Request timeout (0 keeps the client default)")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
