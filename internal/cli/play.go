package cli

import (
	"github.com/spf13/cobra"

	"github.com/snakegame/snake-api/internal/client"
	"github.com/snakegame/snake-api/internal/game"
	"github.com/snakegame/snake-api/internal/tui"
)

type playOptions struct {
	offline     bool
	seed        uint64
	width       int
	height      int
	screenshots string
}

func newPlayCmd(e *env) *cobra.Command {
	opts := playOptions{}
	def := game.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play Snake; scores are saved when logged in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reporter, player := e.scoreReporter(cmd, opts.offline)

			cfg := game.DefaultConfig()
			cfg.Width, cfg.Height = opts.width, opts.height
			var rng game.Random
			if cmd.Flags().Changed("seed") {
				rng = game.NewRandom(opts.seed)
			}

			m := tui.New(tui.Options{
				Engine:        game.New(cfg, rng),
				Reporter:      reporter,
				Player:        player,
				ScreenshotDir: opts.screenshots,
			})
			if err := tui.Run(cmd.Context(), m); err != nil {
				return err
			}

			e.cfg.BestScore = max(e.cfg.BestScore, m.Best())
			return e.cfg.Save(e.configPath)
		},
	}

	cmd.Flags().BoolVar(&opts.offline, "offline", false, "do not contact the server")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed food placement for a repeatable game")
	cmd.Flags().IntVar(&opts.width, "width", def.Width, "grid width in cells")
	cmd.Flags().IntVar(&opts.height, "height", def.Height, "grid height in cells")
	cmd.Flags().StringVar(&opts.screenshots, "screenshots", ".", "directory for ctrl+s captures")
	return cmd
}

// scoreReporter picks an online reporter when the saved session still
// works and falls back to a local one otherwise.
func (e *env) scoreReporter(cmd *cobra.Command, offline bool) (*client.Reporter, string) {
	best := e.cfg.BestScore
	if offline || e.cfg.Session == "" {
		return client.NewReporter(nil, best), ""
	}

	user, err := e.api.Me(cmd.Context())
	switch {
	case err == nil:
		e.log.Debug("playing online", "username", user.Username, "best", user.BestScore)
		return client.NewReporter(e.api, max(best, user.BestScore)), user.Username
	case client.IsUnauthorized(err):
		e.log.Warn("session expired, playing offline")
		e.cfg.ClearSession()
	default:
		e.log.Warn("server unreachable, playing offline", "err", err)
	}
	return client.NewReporter(nil, best), ""
}
