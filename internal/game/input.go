package game

import "strings"

var keyDirections = map[string]Direction{
	"up":    Up,
	"w":     Up,
	"down":  Down,
	"s":     Down,
	"left":  Left,
	"a":     Left,
	"right": Right,
	"d":     Right,
}

// KeyToDirection maps arrow keys and WASD, case-insensitively. Key names
// follow terminal conventions ("up", "left") as well as the browser ones
// ("ArrowUp").
func KeyToDirection(key string) (Direction, bool) {
	k := strings.ToLower(strings.TrimPrefix(key, "Arrow"))
	d, ok := keyDirections[k]
	return d, ok
}

// IsPauseKey reports whether key toggles pause.
func IsPauseKey(key string) bool {
	switch strings.ToLower(key) {
	case " ", "space", "p":
		return true
	}
	return false
}

// HandleKey applies a key press to the engine and reports whether the key
// was consumed. Direction keys are consumed only while playing.
func HandleKey(e *Engine, key string) bool {
	if IsPauseKey(key) {
		if e.State() != Playing && e.State() != Paused {
			return false
		}
		e.TogglePause()
		return true
	}
	d, ok := KeyToDirection(key)
	if !ok {
		return false
	}
	return e.Turn(d)
}
