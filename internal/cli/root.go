// Package cli implements the snake command: the terminal game plus account,
// score and leaderboard commands against the Snake Game API.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/snakegame/snake-api/internal/client"
)

// env is shared by every subcommand; PersistentPreRunE fills it in.
type env struct {
	configPath string
	server     string
	output     string
	verbose    bool

	cfg *client.Config
	api *client.Client
	log *log.Logger
}

func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "snake",
		Short: "Play Snake in the terminal and compete on the global leaderboard",
		Long: `snake runs the classic Snake game in your terminal.

Sign up or log in to save scores to the Snake Game API and see where you rank.
Without a session the game still works and keeps your best score locally.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.configPath, "config", client.DefaultConfigPath(), "config file")
	flags.StringVar(&e.server, "server", "", "API base URL (env: SNAKE_SERVER, default from config)")
	flags.StringVarP(&e.output, "output", "o", "text", "output format: text, json")
	flags.BoolVarP(&e.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newSignupCmd(e),
		newLoginCmd(e),
		newLogoutCmd(e),
		newWhoamiCmd(e),
		newPlayCmd(e),
		newScoresCmd(e),
		newLeaderboardCmd(e),
		newHealthCmd(e),
		newRenderCmd(e),
	)
	return root
}

func (e *env) setup(cmd *cobra.Command) error {
	e.log = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "snake", Level: log.WarnLevel})
	if e.verbose {
		e.log.SetLevel(log.DebugLevel)
	}

	if e.output != "text" && e.output != "json" {
		return fmt.Errorf("unknown output format %q", e.output)
	}

	cfg, err := client.LoadConfig(e.configPath)
	if err != nil {
		return err
	}
	e.cfg = cfg

	server := cfg.Server
	if v := os.Getenv("SNAKE_SERVER"); v != "" {
		server = v
	}
	if e.server != "" {
		server = e.server
	}
	if server != cfg.Server {
		// A session belongs to one server.
		cfg.Server = server
		cfg.ClearSession()
	}

	e.api, err = client.New(server)
	if err != nil {
		return err
	}
	e.api.SetSessionToken(cfg.Session)
	e.log.Debug("configured", "server", server, "config", e.configPath, "session", cfg.Session != "")
	return nil
}

// saveSession stores the current login so later runs reuse it.
func (e *env) saveSession(user *client.User) error {
	e.cfg.Session = e.api.SessionToken()
	if user != nil {
		e.cfg.Username = user.Username
		e.cfg.BestScore = max(e.cfg.BestScore, user.BestScore)
	}
	if err := e.cfg.Save(e.configPath); err != nil {
		return err
	}
	e.log.Debug("session saved", "path", e.configPath)
	return nil
}

func (e *env) printer(cmd *cobra.Command) *printer {
	return &printer{w: cmd.OutOrStdout(), json: e.output == "json"}
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
