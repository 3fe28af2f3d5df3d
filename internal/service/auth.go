package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mywallet/internal/domain"
	"mywallet/internal/logger"

	"github.com/go-playground/validator/v10"
)

var (
	ErrUnauthenticated    = errors.New("missing bearer token")
	ErrUnknownSession     = errors.New("unknown session")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrInvalidEmail       = errors.New("invalid email address")
)

var emailValidator = validator.New()

// validEmail applies the same rules as the sign-up request binding, so
// accounts created outside HTTP can still sign in.
func validEmail(email string) bool {
	return emailValidator.Var(email, "required,email") == nil && domain.HasMailboxDomain(email)
}

const defaultStoreTimeout = 5 * time.Second

// SignInResult is what a successful sign-in hands back to the client.
type SignInResult struct {
	UserID int64
	Name   string
	Token  string
}

// AuthService handles registration, sign-in, sign-out and token resolution.
type AuthService struct {
	users    UserStore
	sessions SessionStore
	hasher   PasswordHasher
	newToken func() string
	timeout  time.Duration

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new auth service. A zero timeout selects the default.
func NewAuthService(users UserStore, sessions SessionStore, hasher PasswordHasher, timeout time.Duration) *AuthService {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		newToken: NewToken,
		timeout:  timeout,
	}
}

// SignUp registers a user. The lookup is only a fast path; the store's
// unique index decides races.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	if !validEmail(email) {
		SignUps.WithLabelValues(resultInvalid).Inc()
		return nil, ErrInvalidEmail
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.users.FindUserByEmail(ctx, email); err == nil {
		SignUps.WithLabelValues(resultConflict).Inc()
		return nil, ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		SignUps.WithLabelValues(resultError).Inc()
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		SignUps.WithLabelValues(resultError).Inc()
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, err
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			SignUps.WithLabelValues(resultConflict).Inc()
			return nil, ErrEmailTaken
		}
		SignUps.WithLabelValues(resultError).Inc()
		return nil, fmt.Errorf("create user: %w", err)
	}

	SignUps.WithLabelValues(resultOK).Inc()
	logger.FromContext(ctx).Info("user registered", "user_id", u.ID)
	return u, nil
}

// SignIn checks the credentials and opens a new session. Unknown email and
// wrong password both return ErrInvalidCredentials after a bcrypt compare.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		_ = s.hasher.Compare(s.dummy(), password)
		SignIns.WithLabelValues(resultInvalidCredentials).Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		SignIns.WithLabelValues(resultError).Inc()
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			SignIns.WithLabelValues(resultInvalidCredentials).Inc()
			return nil, ErrInvalidCredentials
		}
		SignIns.WithLabelValues(resultError).Inc()
		return nil, fmt.Errorf("compare password: %w", err)
	}

	token, err := s.openSession(ctx, u.ID)
	if err != nil {
		SignIns.WithLabelValues(resultError).Inc()
		return nil, err
	}

	SignIns.WithLabelValues(resultOK).Inc()
	return &SignInResult{UserID: u.ID, Name: u.Name, Token: token}, nil
}

// IssueToken opens a session for an existing account without a password
// check. Used by operator tooling.
func (s *AuthService) IssueToken(ctx context.Context, email string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	return s.openSession(ctx, u.ID)
}

func (s *AuthService) openSession(ctx context.Context, userID int64) (string, error) {
	token := s.newToken()
	if err := s.sessions.CreateSession(ctx, token, userID); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Authenticate resolves the Authorization header to a user id.
func (s *AuthService) Authenticate(ctx context.Context, header string) (int64, error) {
	token := BearerToken(header)
	if token == "" {
		return 0, ErrUnauthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	userID, err := s.sessions.FindSessionByToken(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, ErrUnknownSession
	}
	if err != nil {
		return 0, fmt.Errorf("find session: %w", err)
	}
	return userID, nil
}

// SignOut deletes every session of the user.
func (s *AuthService) SignOut(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.sessions.DeleteSessionsForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	SignOuts.Add(float64(n))
	logger.FromContext(ctx).Info("sessions ended", "user_id", userID, "count", n)
	return n, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("mywallet-dummy-password")
		if err != nil {
			logger.Error("failed to build dummy hash", "error", err)
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
