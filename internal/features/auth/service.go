package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-chms/internal/common/models"
	"go-chms/internal/graphql"
	"go-chms/pkg/utils"

	"go.uber.org/zap"
)

type Status string

const (
	StatusUnauthenticated Status = "UNAUTHENTICATED"
	StatusAuthenticating  Status = "AUTHENTICATING"
	StatusAuthenticated   Status = "AUTHENTICATED"
)

const (
	msgUnreachable   = "Unable to reach the server. Please try again."
	msgBadResponse   = "Unexpected response from the server. Please try again."
	msgSessionFailed = "Unable to save your session. Please try again."
	msgUnexpected    = "Something went wrong while signing in. Please try again."
)

const mutationLogin = `mutation Login($input: LoginInput!) {
  login(input: $input) {
    token
    user {
      id email name firstName lastName
      roles { id name }
      roleIds primaryRole organisationId
      userBranches { branchId branch { id name } role { id name } }
      member { id firstName lastName }
      branch { id name }
      permissions modules
    }
  }
}`

// Error is the only error Login returns. Message is safe to show to users.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Cause }

type LoginResult struct {
	User     *models.User `json:"user"`
	Token    string       `json:"-"`
	Redirect string       `json:"redirect"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) string
	Restore(ctx context.Context) Status
	CurrentUser() *models.User
	Status() Status
	CanAccessRoute(route string) bool
	CanAccessDashboard(dashboard string) bool
}

type AuthServiceImpl struct {
	client   graphql.Doer
	sessions *SessionStore
	logger   *zap.Logger
	now      func() time.Time

	mu     sync.RWMutex
	status Status
	user   *models.User
}

func NewAuthService(client *graphql.Client, sessions *SessionStore, logger *zap.Logger) AuthService {
	return newAuthService(client, sessions, logger)
}

func newAuthService(client graphql.Doer, sessions *SessionStore, logger *zap.Logger) *AuthServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthServiceImpl{
		client:   client,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
		status:   StatusUnauthenticated,
	}
}

func (s *AuthServiceImpl) set(status Status, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.user = user
}

func (s *AuthServiceImpl) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *AuthServiceImpl) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Login signs in against the API, resolves the primary role and persists the
// session. Failures come back as *Error; a panic is converted to one too.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (result *LoginResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Panic during login", zap.Any("panic", r))
			s.fail(ctx)
			result, err = nil, &Error{Message: msgUnexpected}
		}
	}()

	s.set(StatusAuthenticating, nil)

	var out struct {
		Login *struct {
			Token string   `json:"token"`
			User  *RawUser `json:"user"`
		} `json:"login"`
	}
	vars := map[string]any{"input": map[string]string{"email": email, "password": password}}
	if err := s.client.Do(ctx, mutationLogin, vars, &out); err != nil {
		s.fail(ctx)
		var gqlErr *graphql.Error
		if errors.As(err, &gqlErr) {
			s.logger.Info("Login rejected", zap.String("email", email), zap.Error(err))
			return nil, &Error{Message: gqlErr.Error(), Cause: err}
		}
		s.logger.Warn("Login request failed", zap.String("email", email), zap.Error(err))
		return nil, &Error{Message: msgUnreachable, Cause: err}
	}

	if out.Login == nil || out.Login.Token == "" || out.Login.User == nil {
		s.fail(ctx)
		return nil, &Error{Message: msgBadResponse, Cause: errors.New("login response missing token or user")}
	}

	user := out.Login.User.Normalize()
	source := ResolveUser(user)

	if err := s.sessions.Save(ctx, out.Login.Token, user); err != nil {
		s.logger.Error("Failed to persist session", zap.Error(err))
		s.fail(ctx)
		return nil, &Error{Message: msgSessionFailed, Cause: err}
	}

	s.set(StatusAuthenticated, user)
	s.logger.Info("User signed in",
		zap.String("user_id", user.ID),
		zap.String("primary_role", user.PrimaryRole),
		zap.String("role_source", string(source)),
	)

	return &LoginResult{
		User:     s.CurrentUser(),
		Token:    out.Login.Token,
		Redirect: DefaultRouteFor(user.PrimaryRole),
	}, nil
}

func (s *AuthServiceImpl) fail(ctx context.Context) {
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Warn("Failed to clear session", zap.Error(err))
	}
	s.set(StatusUnauthenticated, nil)
}

// Logout is safe to call repeatedly and always returns the login route.
func (s *AuthServiceImpl) Logout(ctx context.Context) string {
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Warn("Failed to clear session on logout", zap.Error(err))
	}
	s.set(StatusUnauthenticated, nil)
	return LoginRoute
}

// Restore rehydrates the session from durable storage. Missing, corrupt and
// expired sessions all end unauthenticated with the stored entries removed.
func (s *AuthServiceImpl) Restore(ctx context.Context) Status {
	session, err := s.sessions.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoSession):
		s.fail(ctx)
		return StatusUnauthenticated
	case errors.Is(err, ErrCorruptSession):
		s.logger.Warn("Discarding corrupt session", zap.Error(err))
		s.fail(ctx)
		return StatusUnauthenticated
	default:
		s.logger.Error("Failed to read session", zap.Error(err))
		s.set(StatusUnauthenticated, nil)
		return StatusUnauthenticated
	}

	if utils.TokenExpired(session.Token, s.now()) {
		s.logger.Info("Discarding expired session", zap.String("user_id", session.User.ID))
		s.fail(ctx)
		return StatusUnauthenticated
	}

	s.set(StatusAuthenticated, session.User)
	return StatusAuthenticated
}

func (s *AuthServiceImpl) CanAccessRoute(route string) bool {
	u := s.CurrentUser()
	if u == nil {
		return false
	}
	return RoleCanAccessRoute(u.PrimaryRole, route)
}

func (s *AuthServiceImpl) CanAccessDashboard(dashboard string) bool {
	u := s.CurrentUser()
	if u == nil {
		return false
	}
	return RoleCanAccessDashboard(u.PrimaryRole, dashboard)
}
