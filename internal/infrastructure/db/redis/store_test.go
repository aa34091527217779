package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/snakegame/snake-api/internal/core/domain"
)

type StoreSuite struct {
	suite.Suite
	mini   *miniredis.Miniredis
	client *redis.Client
	ctx    context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Session tests

func (s *StoreSuite) TestSessionRoundTrip() {
	store := NewSessionStore(s.client)
	now := time.Now().UTC().Truncate(time.Second)
	session := &domain.Session{ID: "abc", UserID: "user-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	s.Require().NoError(store.Create(s.ctx, session))
	s.True(s.mini.Exists("snake:session:abc"))

	got, err := store.Get(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal("user-1", got.UserID)
	s.True(got.ExpiresAt.Equal(session.ExpiresAt))
}

func (s *StoreSuite) TestSessionExpiresWithTTL() {
	store := NewSessionStore(s.client)
	session := &domain.Session{ID: "ttl", UserID: "u", ExpiresAt: time.Now().Add(time.Minute)}
	s.Require().NoError(store.Create(s.ctx, session))

	s.mini.FastForward(2 * time.Minute)

	_, err := store.Get(s.ctx, "ttl")
	s.ErrorIs(err, domain.ErrSessionNotFound)
}

func (s *StoreSuite) TestSessionDelete() {
	store := NewSessionStore(s.client)
	_ = store.Create(s.ctx, &domain.Session{ID: "gone", ExpiresAt: time.Now().Add(time.Hour)})

	s.Require().NoError(store.Delete(s.ctx, "gone"))
	_, err := store.Get(s.ctx, "gone")
	s.ErrorIs(err, domain.ErrSessionNotFound)
}

func (s *StoreSuite) TestSessionCreateRejectsExpired() {
	store := NewSessionStore(s.client)
	err := store.Create(s.ctx, &domain.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Second)})
	s.Error(err)
}

// Rate limiter tests

func (s *StoreSuite) newLimiter(limit int, window time.Duration) (*RateLimiter, *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(s.client, limit, window)
	l.now = func() time.Time { return now }
	return l, &now
}

func (s *StoreSuite) TestRateLimiterBlocksOverLimit() {
	l, _ := s.newLimiter(2, time.Minute)

	for i := range 2 {
		d, err := l.Allow(s.ctx, "ip")
		s.Require().NoError(err)
		s.True(d.Allowed, "request %d", i)
	}

	d, err := l.Allow(s.ctx, "ip")
	s.Require().NoError(err)
	s.False(d.Allowed)
	s.Equal(time.Minute, d.RetryAfter)

	members, err := s.client.ZCard(s.ctx, "snake:ratelimit:ip").Result()
	s.Require().NoError(err)
	s.EqualValues(2, members, "rejected request must not be counted")
}

func (s *StoreSuite) TestRateLimiterWindowSlides() {
	l, now := s.newLimiter(1, time.Minute)

	d, _ := l.Allow(s.ctx, "ip")
	s.True(d.Allowed)

	*now = now.Add(30 * time.Second)
	d, _ = l.Allow(s.ctx, "ip")
	s.False(d.Allowed)
	s.Equal(30*time.Second, d.RetryAfter)

	*now = now.Add(31 * time.Second)
	d, _ = l.Allow(s.ctx, "ip")
	s.True(d.Allowed)
}

func (s *StoreSuite) TestRateLimiterSharedAcrossInstances() {
	a, _ := s.newLimiter(1, time.Minute)
	b, _ := s.newLimiter(1, time.Minute)

	d, _ := a.Allow(s.ctx, "ip")
	s.True(d.Allowed)
	d, _ = b.Allow(s.ctx, "ip")
	s.False(d.Allowed)
}
