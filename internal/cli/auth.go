package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/snakegame/snake-api/internal/client"
)

func passwordFlag(cmd *cobra.Command, password *string) {
	cmd.Flags().StringVarP(password, "password", "p", os.Getenv("SNAKE_PASSWORD"), "password (env: SNAKE_PASSWORD)")
}

func newSignupCmd(e *env) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := e.api.Signup(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}
			if err := e.saveSession(user); err != nil {
				return err
			}
			e.log.Info("signed up", "username", user.Username)
			return e.printer(cmd).User(user)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username, 3 to 20 characters")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	passwordFlag(cmd, &password)
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd(e *env) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := e.api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := e.saveSession(user); err != nil {
				return err
			}
			return e.printer(cmd).User(user)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	passwordFlag(cmd, &password)
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := e.api.Logout(cmd.Context())
			if err != nil && !client.IsUnauthorized(err) {
				return err
			}
			e.cfg.ClearSession()
			if err := e.cfg.Save(e.configPath); err != nil {
				return err
			}
			e.printer(cmd).Line("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if e.cfg.Session == "" {
				return errors.New("not logged in, run `snake login` first")
			}
			user, err := e.api.Me(cmd.Context())
			if err != nil {
				return err
			}
			return e.printer(cmd).User(user)
		},
	}
}
