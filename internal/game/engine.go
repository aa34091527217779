// Package game holds the Snake rules: the grid, the snake, food placement and
// the Stopped/Playing/Paused/GameOver state machine. It has no I/O and no
// timers; a driver calls Tick at Interval.
package game

import "time"

// Point is a grid cell; (0,0) is the top-left corner.
type Point struct {
	X, Y int
}

func (p Point) Add(d Direction) Point {
	return Point{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Direction is a unit step, or the zero vector while the snake waits for input.
type Direction struct {
	DX, DY int
}

var (
	Still = Direction{}
	Up    = Direction{DX: 0, DY: -1}
	Down  = Direction{DX: 0, DY: 1}
	Left  = Direction{DX: -1, DY: 0}
	Right = Direction{DX: 1, DY: 0}
)

func (d Direction) IsZero() bool { return d == Still }

func (d Direction) Opposite() Direction {
	return Direction{DX: -d.DX, DY: -d.DY}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "still"
}

type State int

const (
	Stopped State = iota
	Playing
	Paused
	GameOver
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case GameOver:
		return "game over"
	}
	return "stopped"
}

// NoFood marks a full board.
var NoFood = Point{X: -1, Y: -1}

type Config struct {
	Width, Height int

	// Reward is added to the score for each food eaten.
	Reward int

	// Interval is the starting tick period. Each food shortens it by
	// IntervalStep, never below MinInterval.
	Interval     time.Duration
	IntervalStep time.Duration
	MinInterval  time.Duration

	// FoodAttempts bounds random resampling before falling back to a pick
	// over the enumerated free cells.
	FoodAttempts int
}

func DefaultConfig() Config {
	return Config{
		Width:        20,
		Height:       20,
		Reward:       10,
		Interval:     150 * time.Millisecond,
		IntervalStep: 2 * time.Millisecond,
		MinInterval:  80 * time.Millisecond,
		FoodAttempts: 64,
	}
}

// TickResult reports what a single Tick did. Over is true only on the tick
// that ended the game.
type TickResult struct {
	Moved bool
	Ate   bool
	Over  bool
}

// Engine is not safe for concurrent use.
type Engine struct {
	cfg Config
	rng Random

	state    State
	snake    []Point // head first
	food     Point
	heading  Direction
	lastMove Direction
	score    int
	interval time.Duration

	onGameOver func(score int)
}

// New returns an engine in the Stopped state. A nil rng uses SystemRandom.
func New(cfg Config, rng Random) *Engine {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		def := DefaultConfig()
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	if cfg.FoodAttempts <= 0 {
		cfg.FoodAttempts = DefaultConfig().FoodAttempts
	}
	if rng == nil {
		rng = SystemRandom()
	}
	e := &Engine{cfg: cfg, rng: rng}
	e.resetBoard()
	return e
}

// OnGameOver registers fn to run once when a game ends.
func (e *Engine) OnGameOver(fn func(score int)) {
	e.onGameOver = fn
}

// Start begins a fresh game from any state.
func (e *Engine) Start() {
	e.resetBoard()
	e.state = Playing
}

// Reset returns to Stopped with a fresh board.
func (e *Engine) Reset() {
	e.resetBoard()
	e.state = Stopped
}

func (e *Engine) resetBoard() {
	e.snake = []Point{{X: e.cfg.Width / 2, Y: e.cfg.Height / 2}}
	e.heading = Still
	e.lastMove = Still
	e.score = 0
	e.interval = e.cfg.Interval
	e.placeFood()
}

func (e *Engine) Pause() {
	if e.state == Playing {
		e.state = Paused
	}
}

func (e *Engine) Resume() {
	if e.state == Paused {
		e.state = Playing
	}
}

func (e *Engine) TogglePause() {
	switch e.state {
	case Playing:
		e.state = Paused
	case Paused:
		e.state = Playing
	}
}

// Turn sets the heading for the next move. It refuses to reverse onto the
// stored heading or onto the direction of the last move, so two quick turns
// between ticks cannot fold the snake into itself.
func (e *Engine) Turn(d Direction) bool {
	if e.state != Playing || d.IsZero() {
		return false
	}
	if d == e.heading.Opposite() || d == e.lastMove.Opposite() {
		return false
	}
	e.heading = d
	return true
}

// Tick advances the snake by one cell.
func (e *Engine) Tick() TickResult {
	if e.state != Playing || e.heading.IsZero() {
		return TickResult{}
	}

	head := e.snake[0].Add(e.heading)
	if !e.inBounds(head) || e.occupied(head) {
		e.endGame()
		return TickResult{Over: true}
	}

	e.snake = append([]Point{head}, e.snake...)
	e.lastMove = e.heading

	if head == e.food {
		e.score += e.cfg.Reward
		e.interval = max(e.cfg.MinInterval, e.interval-e.cfg.IntervalStep)
		e.placeFood()
		return TickResult{Moved: true, Ate: true}
	}

	e.snake = e.snake[:len(e.snake)-1]
	return TickResult{Moved: true}
}

func (e *Engine) endGame() {
	e.state = GameOver
	if e.onGameOver != nil {
		e.onGameOver(e.score)
	}
}

// Ticking reports whether a driver should keep scheduling ticks.
func (e *Engine) Ticking() bool {
	return e.state == Playing
}

func (e *Engine) State() State { return e.state }

func (e *Engine) Score() int { return e.score }

func (e *Engine) Interval() time.Duration { return e.interval }

func (e *Engine) Heading() Direction { return e.heading }

func (e *Engine) Food() Point { return e.food }

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) Length() int { return len(e.snake) }

func (e *Engine) Head() Point { return e.snake[0] }

func (e *Engine) inBounds(p Point) bool {
	return p.X >= 0 && p.X < e.cfg.Width && p.Y >= 0 && p.Y < e.cfg.Height
}

func (e *Engine) occupied(p Point) bool {
	for _, seg := range e.snake {
		if seg == p {
			return true
		}
	}
	return false
}

func (e *Engine) placeFood() {
	for range e.cfg.FoodAttempts {
		p := Point{X: e.rng.IntN(e.cfg.Width), Y: e.rng.IntN(e.cfg.Height)}
		if !e.occupied(p) {
			e.food = p
			return
		}
	}

	free := make([]Point, 0, e.cfg.Width*e.cfg.Height-len(e.snake))
	for y := range e.cfg.Height {
		for x := range e.cfg.Width {
			if p := (Point{X: x, Y: y}); !e.occupied(p) {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		e.food = NoFood
		return
	}
	e.food = free[e.rng.IntN(len(free))]
}
