package telemetry

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/snakegame/snake-api/internal/core/ports"
)

// SentryReporter forwards captured errors to Sentry.
type SentryReporter struct {
	hub *sentry.Hub
}

// NewSentryReporter initialises the Sentry client. With an empty DSN it
// returns a reporter that drops everything.
func NewSentryReporter(dsn, environment string) (ports.ErrorReporter, func(), error) {
	if dsn == "" {
		return NopReporter{}, func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
	}); err != nil {
		return nil, nil, err
	}

	flush := func() { sentry.Flush(2 * time.Second) }
	return &SentryReporter{hub: sentry.CurrentHub()}, flush, nil
}

func (r *SentryReporter) Capture(err error, tags map[string]string) {
	hub := r.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}

// NopReporter discards errors.
type NopReporter struct{}

func (NopReporter) Capture(error, map[string]string) {}
