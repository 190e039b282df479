package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chalethaven/models"

	"go.uber.org/zap"
)

type Status int

const (
	Unauthenticated Status = iota
	Authenticated
)

func (s Status) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// State is what a read of the store yields.
type State struct {
	Status  Status
	Session *models.Session
}

// Authenticator is the remote side of the store, normally *client.Client.
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Verify(ctx context.Context, token string) (*models.PublicUser, error)
}

var ErrSignInFailed = errors.New("sign in failed")

// Store is the console credential cache. Only allow-listed roles stay signed in.
type Store struct {
	mu      sync.Mutex
	storage Storage
	auth    Authenticator
	allowed map[string]bool
	logger  *zap.Logger
	now     func() time.Time
}

func NewStore(storage Storage, auth Authenticator, allowedRoles []string, logger *zap.Logger) *Store {
	allowed := make(map[string]bool, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = true
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{storage: storage, auth: auth, allowed: allowed, logger: logger, now: time.Now}
}

// SignIn stores the session on success. On any failure stored state is left as it was.
func (s *Store) SignIn(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignInFailed, err)
	}
	if resp == nil || !resp.Success || resp.Token == "" {
		msg := "unexpected response"
		if resp != nil && resp.Message != "" {
			msg = resp.Message
		}
		return nil, fmt.Errorf("%w: %s", ErrSignInFailed, msg)
	}

	sess := models.Session{
		Role:     resp.User.Role,
		Token:    resp.Token,
		User:     resp.User,
		SignedIn: s.now().UTC(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return &sess, nil
}

// SignOut always succeeds; a storage failure is only logged.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked(ctx)
}

func (s *Store) clearLocked(ctx context.Context) {
	if err := s.storage.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear session storage", zap.Error(err))
	}
}

// Current reads the stored session and signs out one whose role is not allowed.
func (s *Store) Current(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.storage.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load session", zap.Error(err))
		return State{Status: Unauthenticated}
	}
	if sess == nil || sess.Token == "" {
		return State{Status: Unauthenticated}
	}
	if !s.allowed[sess.Role] {
		s.logger.Info("signing out session with disallowed role", zap.String("role", sess.Role))
		s.clearLocked(ctx)
		return State{Status: Unauthenticated}
	}
	return State{Status: Authenticated, Session: sess}
}

// Token returns the bearer token of the current session, or "".
func (s *Store) Token(ctx context.Context) string {
	st := s.Current(ctx)
	if st.Session == nil {
		return ""
	}
	return st.Session.Token
}

// HandleUnauthorized is called by the API client on any 401.
func (s *Store) HandleUnauthorized(ctx context.Context) {
	s.SignOut(ctx)
}

// Verify confirms the stored token with the server. A rejected token signs the store out.
func (s *Store) Verify(ctx context.Context) (*models.PublicUser, error) {
	st := s.Current(ctx)
	if st.Status != Authenticated {
		return nil, ErrNotSignedIn
	}
	user, err := s.auth.Verify(ctx, st.Session.Token)
	if err != nil {
		if isUnauthorized(err) {
			s.SignOut(ctx)
		}
		return nil, err
	}
	return user, nil
}

var ErrNotSignedIn = errors.New("not signed in")

// unauthorizedError is satisfied by errors that know their HTTP status.
type unauthorizedError interface {
	error
	Unauthorized() bool
}

func isUnauthorized(err error) bool {
	var ue unauthorizedError
	return errors.As(err, &ue) && ue.Unauthorized()
}
