package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/snakegame/snake-api/internal/core/domain"
)

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int

	failWith error
	logins   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if u.Email != "" && u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		r.nextID++
		copy.ID = fmt.Sprintf("u%d", r.nextID)
	}
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) FindByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.GoogleID != "" && u.GoogleID == googleID })
}

func (r *stubUserRepo) mutate(id string, fn func(*domain.User)) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	fn(u)
	return cloneUser(u), nil
}

func (r *stubUserRepo) LinkGoogleID(_ context.Context, id, googleID string) error {
	_, err := r.mutate(id, func(u *domain.User) { u.GoogleID = googleID })
	return err
}

func (r *stubUserRepo) RecordLogin(_ context.Context, id string, at time.Time) error {
	_, err := r.mutate(id, func(u *domain.User) {
		u.RecordLogin(at)
		r.logins++
	})
	return err
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	return r.mutate(id, func(u *domain.User) { u.IsActive = active })
}

func (r *stubUserRepo) RaiseBestScore(_ context.Context, id string, score int) (int, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	var previous int
	_, err := r.mutate(id, func(u *domain.User) {
		previous = u.BestScore
		u.ApplyScore(score)
	})
	return previous, err
}

func (r *stubUserRepo) TopByBestScore(_ context.Context, limit int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if u.IsActive {
			out = append(out, cloneUser(u))
		}
	}
	slices.SortFunc(out, func(a, b *domain.User) int {
		if c := cmp.Compare(b.BestScore, a.BestScore); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubUserRepo) CountActiveAbove(_ context.Context, score int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.IsActive && u.BestScore > score {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	created, err := r.Create(context.Background(), u)
	if err != nil {
		panic(err)
	}
	return created
}

type stubScoreRepo struct {
	scores   []*domain.Score
	failWith error
}

func (r *stubScoreRepo) Insert(_ context.Context, score *domain.Score) (*domain.Score, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	copy := *score
	copy.ID = fmt.Sprintf("s%d", len(r.scores)+1)
	r.scores = append(r.scores, &copy)
	return &copy, nil
}

func (r *stubScoreRepo) ListByUser(_ context.Context, userID string, limit int) ([]*domain.Score, error) {
	var out []*domain.Score
	for _, s := range r.scores {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b *domain.Score) int { return cmp.Compare(b.Value, a.Value) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// recordingTx runs fn directly and counts invocations.
type recordingTx struct {
	calls int
}

func (t *recordingTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type stubSessionStore struct {
	sessions map[string]*domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Create(_ context.Context, session *domain.Session) error {
	copy := *session
	s.sessions[session.ID] = &copy
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copy := *session
	return &copy, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

// plainCodec encodes claims as "sid|uid" without signing.
type plainCodec struct{}

var errBadToken = errors.New("bad token")

func (plainCodec) Encode(c domain.SessionClaims) (string, error) {
	return c.SessionID + "|" + c.UserID, nil
}

func (plainCodec) Decode(token string) (domain.SessionClaims, error) {
	sid, uid, ok := strings.Cut(token, "|")
	if !ok {
		return domain.SessionClaims{}, errBadToken
	}
	return domain.SessionClaims{SessionID: sid, UserID: uid}, nil
}

type stubIdentity struct {
	identity *domain.ExternalIdentity
	err      error
}

func (s *stubIdentity) AuthCodeURL(state string) string {
	return "https://idp.example/auth?state=" + state
}

func (s *stubIdentity) Exchange(context.Context, string) (*domain.ExternalIdentity, error) {
	return s.identity, s.err
}
