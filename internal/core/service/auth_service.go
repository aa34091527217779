package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/snakegame/snake-api/internal/core/domain"
	"github.com/snakegame/snake-api/internal/core/ports"
)

const usernameAttempts = 5

// AuthService implements signup, both login paths and the session lifecycle.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	tokens     ports.TokenCodec
	identity   ports.IdentityProvider
	sessionTTL time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// NewAuthService wires the collaborators. identity may be nil when no
// third-party login is configured.
func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	tokens ports.TokenCodec,
	identity ports.IdentityProvider,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = domain.DefaultSessionTTL
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		identity:   identity,
		sessionTTL: sessionTTL,
		now:        func() time.Time { return time.Now().UTC() },
		log:        log,
	}
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("signup: %w", err)
	}

	hash, err := domain.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	created, err := s.users.Create(ctx, domain.NewLocalUser(username, email, hash, s.now()))
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user signed up")
	return created, nil
}

func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !user.PasswordMatches(password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	if err := s.recordLogin(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) OAuthURL(state string) (string, error) {
	if s.identity == nil {
		return "", domain.NewUnavailableError("Google login is not configured")
	}
	return s.identity.AuthCodeURL(state), nil
}

// CompleteOAuth resolves the provider identity to an account: by provider id,
// then by verified email (linking the provider id), else a new account.
func (s *AuthService) CompleteOAuth(ctx context.Context, code string) (*domain.User, error) {
	if s.identity == nil {
		return nil, domain.NewUnavailableError("Google login is not configured")
	}

	identity, err := s.identity.Exchange(ctx, code)
	if err != nil {
		s.log.Warn().Err(err).Msg("oauth exchange failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrOAuthFailed, err)
	}
	if identity.Subject == "" {
		return nil, domain.ErrOAuthFailed
	}

	user, err := s.users.FindByGoogleID(ctx, identity.Subject)
	switch {
	case err == nil:
		return s.finishOAuthLogin(ctx, user)
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("oauth: %w", err)
	}

	if identity.Email != "" && identity.EmailVerified {
		user, err = s.users.FindByEmail(ctx, domain.NormalizeEmail(identity.Email))
		switch {
		case err == nil:
			if err := s.users.LinkGoogleID(ctx, user.ID, identity.Subject); err != nil {
				return nil, fmt.Errorf("oauth: link account: %w", err)
			}
			user.GoogleID = identity.Subject
			s.log.Info().Str("user_id", user.ID).Msg("google account linked")
			return s.finishOAuthLogin(ctx, user)
		case !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("oauth: %w", err)
		}
	}

	username, err := s.availableUsername(ctx, identity)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, domain.NewOAuthUser(username, identity, s.now()))
	if err != nil {
		return nil, fmt.Errorf("oauth: create user: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user signed up with google")
	return created, nil
}

func (s *AuthService) finishOAuthLogin(ctx context.Context, user *domain.User) (*domain.User, error) {
	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}
	if err := s.recordLogin(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) recordLogin(ctx context.Context, user *domain.User) error {
	now := s.now()
	if err := s.users.RecordLogin(ctx, user.ID, now); err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	user.RecordLogin(now)
	return nil
}

func (s *AuthService) availableUsername(ctx context.Context, identity *domain.ExternalIdentity) (string, error) {
	base := usernameBase(identity)
	candidate := base
	for range usernameAttempts {
		_, err := s.users.FindByUsername(ctx, candidate)
		if errors.Is(err, domain.ErrUserNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("oauth: username lookup: %w", err)
		}

		suffix := fmt.Sprintf("%04d", rand.IntN(10000))
		candidate = truncate(base, domain.UsernameMaxLen-len(suffix)) + suffix
	}
	return "", domain.NewConflictError("Could not allocate a username")
}

// usernameBase derives a valid username from the provider profile.
func usernameBase(identity *domain.ExternalIdentity) string {
	source := identity.Name
	if source == "" {
		source, _, _ = strings.Cut(identity.Email, "@")
	}

	var b strings.Builder
	for _, r := range source {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '_' || unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}

	name := strings.Trim(b.String(), "_")
	if len(name) < domain.UsernameMinLen {
		name = "player" + name
	}
	return truncate(name, domain.UsernameMaxLen)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (s *AuthService) CreateSession(ctx context.Context, user *domain.User) (*ports.SessionToken, error) {
	now := s.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	value, err := s.tokens.Encode(domain.SessionClaims{
		SessionID: session.ID,
		UserID:    user.ID,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: sign token: %w", err)
	}

	return &ports.SessionToken{Value: value, Session: session}, nil
}

func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.UserID || session.Expired(s.now()) {
		return nil, domain.ErrSessionNotFound
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}
	return user, nil
}

func (s *AuthService) DestroySession(ctx context.Context, token string) error {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func (s *AuthService) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	user, err := s.users.SetActive(ctx, userID, active)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Bool("active", active).Msg("user activation changed")
	return user, nil
}
