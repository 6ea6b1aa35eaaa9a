package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/penfolio/penfolio/internal/app/models"
	"github.com/penfolio/penfolio/internal/pkg/backend"
)

// Ensure implementation satisfies the interface
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract. Credentials are
// verified by the remote backend; this tier only translates results
// into session state.
type AuthService interface {
	SignIn(ctx context.Context, username, password string) (*backend.LoginResult, error)
	SignUp(ctx context.Context, username, email, password string) error
	Current(c *gin.Context) (*models.User, bool)
	ForgetSession(c *gin.Context)
}

// AuthServiceImpl provides the implementation for AuthService.
//
// The server-set cookies are the single source of truth for the
// session. The mirror is a read-through cache keyed by the raw cookie
// value; it is never written except from the cookie itself, so it can
// not diverge.
type AuthServiceImpl struct {
	logger  *zap.Logger
	backend *backend.Client
	bridge  *CookieBridge
	mirror  *cache.Cache
}

// NewAuthService creates a new authentication service instance.
func NewAuthService(client *backend.Client, bridge *CookieBridge, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:  logger,
		backend: client,
		bridge:  bridge,
		mirror:  cache.New(cache.NoExpiration, 0),
	}
}

// SignIn forwards credentials to the backend and returns the user plus
// both tokens on success. Cookie writing is the handler's job.
func (s *AuthServiceImpl) SignIn(ctx context.Context, username, password string) (*backend.LoginResult, error) {
	l := s.logger.With(zap.String("method", "SignIn"), zap.String("username", username))
	l.Debug("Attempting sign in")

	result, err := s.backend.Login(ctx, username, password)
	if err != nil {
		l.Warn("Backend rejected sign in", zap.Error(err))
		return nil, err
	}
	if result.User.ID == "" || result.Access == "" {
		l.Error("Backend returned an incomplete login payload")
		return nil, fmt.Errorf("invalid response from server: %w", models.ErrUnauthenticated)
	}

	l.Info("Sign in successful", zap.String("userID", result.User.ID))
	return result, nil
}

// SignUp forwards a registration to the backend. Input validation has
// already happened in the handler; any failure here is the backend's.
func (s *AuthServiceImpl) SignUp(ctx context.Context, username, email, password string) error {
	l := s.logger.With(zap.String("method", "SignUp"), zap.String("username", username))
	l.Debug("Attempting registration")

	if err := s.backend.Register(ctx, username, email, password); err != nil {
		l.Warn("Backend rejected registration", zap.Error(err))
		return err
	}

	l.Info("Registration successful")
	return nil
}

// Current reconstructs the session from the "user" cookie, consulting
// the mirror first so repeated reads skip the JSON decode.
func (s *AuthServiceImpl) Current(c *gin.Context) (*models.User, bool) {
	raw, ok := s.bridge.ReadCookie(c, CookieUser)
	if !ok {
		return nil, false
	}

	if cached, found := s.mirror.Get(raw); found {
		user := cached.(models.User)
		return &user, true
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		// Malformed cookie reads as unauthenticated.
		return nil, false
	}

	s.mirror.SetDefault(raw, user)
	return &user, true
}

// ForgetSession drops the mirror entry for the current cookie, if any.
// Called on sign-out before the cookies are cleared.
func (s *AuthServiceImpl) ForgetSession(c *gin.Context) {
	if raw, ok := s.bridge.ReadCookie(c, CookieUser); ok {
		s.mirror.Delete(raw)
	}
}
