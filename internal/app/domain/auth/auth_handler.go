package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/penfolio/penfolio/internal/app/models"
	"github.com/penfolio/penfolio/internal/app/observability/metrics"
	"github.com/penfolio/penfolio/internal/pkg/backend"
)

type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type AuthHandlers struct {
	authService AuthService
	bridge      *CookieBridge
	logger      *zap.Logger
}

func NewAuthHandlers(authService AuthService, bridge *CookieBridge, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		bridge:      bridge,
		logger:      logger,
	}
}

// SignInHandler implements POST /api/auth/signin: validate the form,
// forward to the backend, and on success set the three session
// cookies. Backend rejections collapse to "Invalid credentials"; a
// connectivity failure gets its own generic message so the user can
// tell the two apart.
func (h *AuthHandlers) SignInHandler(c *gin.Context) {
	metrics.Get().RecordAuthRequest(c.Request.Context(), "signin")

	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to parse sign-in body", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := ValidateSignIn(req.Username, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.authService.SignIn(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("Sign in failed",
			zap.String("username", req.Username),
			zap.String("remote_addr", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"message": signInFailureMessage(err)})
		return
	}

	if err := h.bridge.SetSessionCookies(c, result.User, result.Access, result.Refresh); err != nil {
		h.logger.Error("Failed to set session cookies", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	h.logger.Info("Successful sign in",
		zap.String("user_id", result.User.ID),
		zap.String("username", result.User.Username),
	)

	c.JSON(http.StatusOK, gin.H{
		"message": "Sign in successful",
		"data":    gin.H{"user": result.User},
	})
}

func signInFailureMessage(err error) string {
	var statusErr *backend.StatusError
	switch {
	case errors.As(err, &statusErr):
		return "Invalid credentials"
	case errors.Is(err, models.ErrUnreachable):
		return "Something went wrong while signing in"
	default:
		return "Invalid credentials"
	}
}

// SignUpHandler implements POST /api/auth/signup. All validation rules
// run locally, in order, before any network call; the first failing
// rule's message is returned alone.
func (h *AuthHandlers) SignUpHandler(c *gin.Context) {
	metrics.Get().RecordAuthRequest(c.Request.Context(), "signup")

	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to parse sign-up body", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := ValidateSignUp(req.Username, req.Email, req.Password, req.ConfirmPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.authService.SignUp(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		var statusErr *backend.StatusError
		if errors.As(err, &statusErr) {
			message := statusErr.Message
			if message == "" {
				message = "Signup failed"
			}
			c.JSON(statusErr.Status, gin.H{"message": message})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Something went wrong while signing up"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"redirect": "/auth/signin"})
}

// SignOutHandler implements POST /api/auth/signout: forget the mirror
// entry, then expire all three session cookies.
func (h *AuthHandlers) SignOutHandler(c *gin.Context) {
	metrics.Get().RecordAuthRequest(c.Request.Context(), "signout")

	h.authService.ForgetSession(c)
	h.bridge.ClearSessionCookies(c)

	h.logger.Info("User signed out")
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// SessionHandler implements GET /api/auth/session, the application
// shell's bootstrap read of the current identity.
func (h *AuthHandlers) SessionHandler(c *gin.Context) {
	user, ok := h.authService.Current(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"user": user}})
}
