package game

import "time"

// Snapshot is a copy of the engine state for renderers. It shares no memory
// with the engine.
type Snapshot struct {
	Width    int
	Height   int
	State    State
	Snake    []Point
	Food     Point
	HasFood  bool
	Heading  Direction
	Score    int
	Interval time.Duration
}

func (e *Engine) Snapshot() Snapshot {
	snake := make([]Point, len(e.snake))
	copy(snake, e.snake)
	return Snapshot{
		Width:    e.cfg.Width,
		Height:   e.cfg.Height,
		State:    e.state,
		Snake:    snake,
		Food:     e.food,
		HasFood:  e.food != NoFood,
		Heading:  e.heading,
		Score:    e.score,
		Interval: e.interval,
	}
}

// Head returns the first segment, or (-1,-1) for an empty snake.
func (s Snapshot) Head() Point {
	if len(s.Snake) == 0 {
		return NoFood
	}
	return s.Snake[0]
}

// CellAt classifies a grid cell for text renderers.
func (s Snapshot) CellAt(p Point) Cell {
	for i, seg := range s.Snake {
		if seg == p {
			if i == 0 {
				return CellHead
			}
			return CellBody
		}
	}
	if s.HasFood && s.Food == p {
		return CellFood
	}
	return CellEmpty
}

type Cell int

const (
	CellEmpty Cell = iota
	CellHead
	CellBody
	CellFood
)
