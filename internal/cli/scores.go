package cli

import (
	"github.com/spf13/cobra"
)

func newScoresCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "List your ten best games",
		RunE: func(cmd *cobra.Command, _ []string) error {
			scores, err := e.api.Scores(cmd.Context())
			if err != nil {
				return err
			}
			return e.printer(cmd).Scores(scores)
		},
	}
}

func newLeaderboardCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "leaderboard",
		Aliases: []string{"top"},
		Short:   "Show the global top ten",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lb, err := e.api.Leaderboard(cmd.Context())
			if err != nil {
				return err
			}
			return e.printer(cmd).Leaderboard(lb, e.cfg.Username)
		},
	}
}

func newHealthCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := e.api.Health(cmd.Context())
			if err != nil {
				return err
			}
			p := e.printer(cmd)
			if p.json {
				return p.JSON(h)
			}
			p.Line("%s (%s, %s)", h.Message, h.Environment, h.Timestamp.Format(dateLayout))
			return nil
		},
	}
}
