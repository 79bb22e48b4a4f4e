package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janhq/arena-server/pkg/arenaclient"
)

var registerCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in and save the bearer token",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who the saved token belongs to",
	RunE:  runStatus,
}

func init() {
	registerCmd.Flags().StringP("password", "p", "", "Password")
	registerCmd.Flags().String("email", "", "Email address")
	registerCmd.Flags().String("invitation-code", "", "Invitation code, when the server requires one")
	_ = registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringP("password", "p", "", "Password")
	_ = loginCmd.MarkFlagRequired("password")
}

func runRegister(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	password, _ := cmd.Flags().GetString("password")
	email, _ := cmd.Flags().GetString("email")
	code, _ := cmd.Flags().GetString("invitation-code")

	u, err := client.Register(cmd.Context(), arenaclient.RegisterParams{
		Username:       args[0],
		Password:       password,
		Email:          email,
		InvitationCode: code,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Registered %s (%s)\n", u.Username, u.ID)
	return login(cmd, client, args[0], password)
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	password, _ := cmd.Flags().GetString("password")
	return login(cmd, client, args[0], password)
}

func login(cmd *cobra.Command, client *arenaclient.Client, username, password string) error {
	tok, err := client.Login(cmd.Context(), username, password)
	if err != nil {
		return err
	}
	tokenFile, _ := cmd.Flags().GetString("token-file")
	if err := saveToken(tokenFile, tok.AccessToken); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s, token saved to %s (expires in %ds)\n", tok.Username, tokenFile, tok.ExpiresIn)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	st, err := client.AuthStatus(cmd.Context())
	if err != nil {
		return err
	}
	if !st.Authenticated {
		fmt.Printf("Not authenticated (acting as %s)\n", st.UserID)
		return nil
	}
	fmt.Printf("Authenticated as %s (%s)\n", st.Username, st.UserID)
	if st.ExpiresAt != nil {
		fmt.Printf("Token expires at %s\n", st.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
