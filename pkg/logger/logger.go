// Package logger holds the process-wide zerolog logger for the API server.
//
// Call Init once the configuration is known; Get may be used before that and
// falls back to info-level JSON on stderr.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultService = "snake-api"

type Options struct {
	// Level is one of trace, debug, info, warn, error. Unknown values mean info.
	Level string
	// Pretty switches to coloured console output for local development.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service is attached to every event. Defaults to "snake-api".
	Service string
}

var (
	mu      sync.RWMutex
	current = build(Options{Output: os.Stderr})
)

// Init builds the logger from opts and makes it the one returned by Get.
// Calling it again replaces the previous logger.
func Init(opts Options) zerolog.Logger {
	l := build(opts)
	mu.Lock()
	current = l
	mu.Unlock()
	return l
}

func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Component returns a child of parent tagged with the subsystem name.
func Component(parent zerolog.Logger, name string) zerolog.Logger {
	return parent.With().Str("component", name).Logger()
}

func build(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	service := opts.Service
	if service == "" {
		service = defaultService
	}

	return zerolog.New(out).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel || lvl > zerolog.ErrorLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
