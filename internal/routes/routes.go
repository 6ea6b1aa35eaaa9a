package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/penfolio/penfolio/assets"
	authPkg "github.com/penfolio/penfolio/internal/app/domain/auth"
	"github.com/penfolio/penfolio/internal/app/domain/notes"
	"github.com/penfolio/penfolio/internal/pkg/backend"
	"github.com/penfolio/penfolio/internal/pkg/config"
)

// Setup wires handlers to routes. The route guard already ran by the
// time any of these handlers execute; only the sign-in/sign-up surface
// is reachable without an accessToken cookie.
func Setup(r *gin.Engine, cfg *config.Config, client *backend.Client, logger *zap.Logger) {
	bridge := authPkg.NewCookieBridge(cfg.Cookies)

	authService := authPkg.NewAuthService(client, bridge, logger)
	authHandlers := authPkg.NewAuthHandlers(authService, bridge, logger)

	notesService := notes.NewNotesService(client, cfg, logger)
	notesHandlers := notes.NewNotesHandlers(notesService, bridge, logger)

	shell, err := assets.Shell()
	if err != nil {
		logger.Fatal("Application shell missing from embedded assets", zap.Error(err))
	}
	serveShell := func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", shell)
	}

	// Page routes: every page serves the same static shell and the
	// external front end routes client-side.
	r.GET("/", serveShell)
	r.GET("/auth/signin", serveShell)
	r.GET("/auth/signup", serveShell)
	r.GET("/create", serveShell)
	r.GET("/note/:id", serveShell)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth façade
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signin", authHandlers.SignInHandler)
		authGroup.POST("/signup", authHandlers.SignUpHandler)
		authGroup.POST("/signout", authHandlers.SignOutHandler)
		authGroup.GET("/session", authHandlers.SessionHandler)
	}

	// Journal façade (guarded)
	journals := r.Group("/api/journals")
	{
		journals.GET("", notesHandlers.ListHandler)
		journals.POST("", notesHandlers.CreateHandler)
		journals.PUT("/:id", notesHandlers.UpdateHandler)
		journals.DELETE("/:id", notesHandlers.DeleteHandler)
	}
}
