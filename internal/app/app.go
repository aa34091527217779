// Package app wires configuration into concrete adapters, services and the
// HTTP router.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/snakegame/snake-api/internal/api"
	"github.com/snakegame/snake-api/internal/api/handler"
	"github.com/snakegame/snake-api/internal/core/domain"
	"github.com/snakegame/snake-api/internal/core/ports"
	"github.com/snakegame/snake-api/internal/core/service"
	"github.com/snakegame/snake-api/internal/infrastructure/auth"
	"github.com/snakegame/snake-api/internal/infrastructure/db/mongo"
	"github.com/snakegame/snake-api/internal/infrastructure/db/redis"
	"github.com/snakegame/snake-api/internal/infrastructure/memory"
	"github.com/snakegame/snake-api/internal/pkg/config"
	"github.com/snakegame/snake-api/pkg/logger"
)

const janitorInterval = time.Minute

// App holds the wired server. Close releases every connection it opened.
type App struct {
	Router *echo.Echo

	sweepers []memory.Sweeper
	closers  []func(context.Context) error
	log      zerolog.Logger
}

// Options carries collaborators that are built outside the factory.
type Options struct {
	Log      zerolog.Logger
	Reporter ports.ErrorReporter
	// Registerer defaults to the global Prometheus registry.
	Registerer prometheus.Registerer
	// RedisClient, when set, is used instead of dialling cfg.Redis.
	RedisClient *goredis.Client
}

type stores struct {
	users  ports.UserRepository
	scores ports.ScoreRepository
	tx     ports.Transactor
}

// New connects the configured backends and builds the router.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{log: opts.Log}
	checks := map[string]handler.Check{}

	st, err := a.buildStores(ctx, cfg, checks)
	if err != nil {
		return nil, a.abort(ctx, err)
	}

	rdb := opts.RedisClient
	if rdb == nil && cfg.NeedsRedis() {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, a.abort(ctx, err)
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	sessions, err := a.buildSessionStore(cfg, rdb)
	if err != nil {
		return nil, a.abort(ctx, err)
	}
	limiter, err := a.buildRateLimiter(cfg, rdb)
	if err != nil {
		return nil, a.abort(ctx, err)
	}

	var identity ports.IdentityProvider
	if cfg.Google.Enabled() {
		identity = auth.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.CallbackURL)
	}

	authService := service.NewAuthService(st.users, sessions, auth.NewTokenCodec(cfg.Session.Secret), identity, cfg.Session.TTL, logger.Component(opts.Log, "auth"))

	a.Router = api.NewRouter(api.Deps{
		Auth:          authService,
		Scores:        service.NewScoreService(st.users, st.scores, st.tx, logger.Component(opts.Log, "score")),
		Leaderboard:   service.NewLeaderboardService(st.users, domain.LeaderboardSize),
		RateLimiter:   limiter,
		Reporter:      opts.Reporter,
		HealthChecks:  checks,
		Environment:   cfg.Env,
		ClientURL:     cfg.ClientURL,
		SecureCookies: cfg.IsProduction(),
		Registerer:    opts.Registerer,
		Log:           opts.Log,
	})

	opts.Log.Info().
		Str("store", cfg.StoreBackend).
		Str("sessions", cfg.Session.Store).
		Str("rate_limit", cfg.RateLimit.Store).
		Bool("google", identity != nil).
		Msg("application wired")

	return a, nil
}

func (a *App) buildStores(ctx context.Context, cfg *config.Config, checks map[string]handler.Check) (stores, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		a.log.Warn().Msg("using in-memory user and score storage; data is lost on restart")
		return stores{
			users:  memory.NewUserRepository(),
			scores: memory.NewScoreRepository(),
			tx:     memory.Transactor{},
		}, nil

	case config.BackendMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return stores{}, err
		}
		a.closers = append(a.closers, client.Disconnect)
		checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

		users := mongo.NewUserRepository(db)
		scores := mongo.NewScoreRepository(db)
		if err := mongo.EnsureIndexes(ctx, users, scores); err != nil {
			return stores{}, err
		}
		return stores{users: users, scores: scores, tx: mongo.NewTransactor(client, cfg.Mongo.Transactions)}, nil
	}
	return stores{}, fmt.Errorf("app: unknown store backend %q", cfg.StoreBackend)
}

func (a *App) buildSessionStore(cfg *config.Config, rdb *goredis.Client) (ports.SessionStore, error) {
	switch cfg.Session.Store {
	case config.BackendRedis:
		if rdb == nil {
			return nil, errors.New("app: redis session store requires a redis client")
		}
		return redis.NewSessionStore(rdb), nil
	case config.BackendMemory:
		store := memory.NewSessionStore()
		a.sweepers = append(a.sweepers, store)
		return store, nil
	}
	return nil, fmt.Errorf("app: unknown session store %q", cfg.Session.Store)
}

func (a *App) buildRateLimiter(cfg *config.Config, rdb *goredis.Client) (ports.RateLimiter, error) {
	switch cfg.RateLimit.Store {
	case config.BackendRedis:
		if rdb == nil {
			return nil, errors.New("app: redis rate limiter requires a redis client")
		}
		return redis.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window), nil
	case config.BackendMemory:
		limiter := memory.NewRateLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)
		a.sweepers = append(a.sweepers, limiter)
		return limiter, nil
	}
	return nil, fmt.Errorf("app: unknown rate limit store %q", cfg.RateLimit.Store)
}

// RunJanitor sweeps expired entries from in-memory stores until ctx ends.
// It returns immediately when nothing is kept in memory.
func (a *App) RunJanitor(ctx context.Context) {
	if len(a.sweepers) == 0 {
		return
	}
	memory.RunJanitor(ctx, janitorInterval, a.sweepers...)
}

// Close releases connections in reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) abort(ctx context.Context, err error) error {
	if closeErr := a.Close(ctx); closeErr != nil {
		a.log.Warn().Err(closeErr).Msg("cleanup after failed startup")
	}
	return err
}
