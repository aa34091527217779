package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snakegame/snake-api/internal/game"
	"github.com/snakegame/snake-api/internal/game/render"
)

var moveLetters = map[rune]game.Direction{
	'U': game.Up,
	'D': game.Down,
	'L': game.Left,
	'R': game.Right,
}

// parseMoves reads one direction letter (U, D, L, R) per tick. A dot ticks
// without turning.
func parseMoves(s string) ([]game.Direction, error) {
	moves := make([]game.Direction, 0, len(s))
	for i, r := range strings.ToUpper(s) {
		if r == '.' {
			moves = append(moves, game.Still)
			continue
		}
		d, ok := moveLetters[r]
		if !ok {
			return nil, fmt.Errorf("move %d: unknown direction %q, want U, D, L, R or .", i+1, r)
		}
		moves = append(moves, d)
	}
	return moves, nil
}

// replay plays moves on a seeded board and returns the final engine.
func replay(seed uint64, moves []game.Direction) *game.Engine {
	eng := game.New(game.DefaultConfig(), game.NewRandom(seed))
	eng.Start()
	for _, d := range moves {
		if !eng.Ticking() {
			break
		}
		if !d.IsZero() {
			eng.Turn(d)
		}
		eng.Tick()
	}
	return eng
}

func newRenderCmd(e *env) *cobra.Command {
	var (
		seed  uint64
		moves string
		out   string
		cell  int
		width int
	)
	cmd := &cobra.Command{
		Use:     "render",
		Short:   "Replay a seeded game and save the final board as PNG",
		Example: `  snake render --seed 7 --moves RRRRDDDL --out board.png`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dirs, err := parseMoves(moves)
			if err != nil {
				return err
			}
			eng := replay(seed, dirs)
			if err := render.Save(out, eng.Snapshot(), render.Options{CellSize: cell, Width: width}); err != nil {
				return err
			}
			e.log.Debug("rendered", "seed", seed, "moves", len(dirs), "state", eng.State())
			e.printer(cmd).Line("Wrote %s (score %d, %s)", out, eng.Score(), eng.State())
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 1, "food placement seed")
	cmd.Flags().StringVar(&moves, "moves", "", "one of U, D, L, R or . per tick")
	cmd.Flags().StringVar(&out, "out", "snake.png", "output file")
	cmd.Flags().IntVar(&cell, "cell", render.DefaultCellSize, "cell size in pixels")
	cmd.Flags().IntVar(&width, "width", 0, "scale the image to this width")
	return cmd
}
