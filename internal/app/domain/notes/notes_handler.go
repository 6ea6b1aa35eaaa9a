package notes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/penfolio/penfolio/internal/app/domain/auth"
	"github.com/penfolio/penfolio/internal/app/middleware"
	"github.com/penfolio/penfolio/internal/app/models"
	"github.com/penfolio/penfolio/internal/app/observability/metrics"
	"github.com/penfolio/penfolio/internal/pkg/backend"
)

type NotesHandlers struct {
	service NotesService
	bridge  *auth.CookieBridge
	logger  *zap.Logger
}

func NewNotesHandlers(service NotesService, bridge *auth.CookieBridge, logger *zap.Logger) *NotesHandlers {
	return &NotesHandlers{
		service: service,
		bridge:  bridge,
		logger:  logger,
	}
}

// credentials resolves the bearer token from the accessToken cookie
// and picks the cache key: user id when the user cookie parses, the
// token itself otherwise. Returns false after writing the 401.
func (h *NotesHandlers) credentials(c *gin.Context) (userKey, token string, ok bool) {
	token, ok = h.bridge.ReadCookie(c, auth.CookieAccess)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return "", "", false
	}

	userKey = token
	if user := middleware.GetUserFromContext(c); user != nil {
		userKey = user.ID
	}
	return userKey, token, true
}

// ListHandler implements GET /api/journals. ?refresh=true bypasses the
// cached copy.
func (h *NotesHandlers) ListHandler(c *gin.Context) {
	metrics.Get().RecordNotesRequest(c.Request.Context(), "list")

	userKey, token, ok := h.credentials(c)
	if !ok {
		return
	}

	force := c.Query("refresh") == "true"
	items, err := h.service.List(c.Request.Context(), userKey, token, force)
	if err != nil {
		h.respondError(c, err, "Failed to fetch notes from the server.")
		return
	}

	views := make([]models.NoteView, 0, len(items))
	for _, n := range items {
		views = append(views, models.NoteView{
			Note:    n,
			Preview: Preview(n.Content),
			Color:   n.MoodTag.Color(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"items": views}})
}

// CreateHandler implements POST /api/journals.
func (h *NotesHandlers) CreateHandler(c *gin.Context) {
	metrics.Get().RecordNotesRequest(c.Request.Context(), "create")

	userKey, token, ok := h.credentials(c)
	if !ok {
		return
	}

	var draft models.NoteDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if draft.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required"})
		return
	}
	if !draft.MoodTag.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid mood tag"})
		return
	}

	note, err := h.service.Create(c.Request.Context(), userKey, token, draft)
	if err != nil {
		h.respondError(c, err, "Failed to save note.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": note})
}

// UpdateHandler implements PUT /api/journals/:id.
func (h *NotesHandlers) UpdateHandler(c *gin.Context) {
	metrics.Get().RecordNotesRequest(c.Request.Context(), "update")

	userKey, token, ok := h.credentials(c)
	if !ok {
		return
	}

	id, err := noteID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid note id"})
		return
	}

	var update models.NoteUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if update.MoodTag != nil && !update.MoodTag.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid mood tag"})
		return
	}

	note, err := h.service.Update(c.Request.Context(), userKey, token, id, update)
	if err != nil {
		h.respondError(c, err, "Failed to update note.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": note})
}

// DeleteHandler implements DELETE /api/journals/:id.
func (h *NotesHandlers) DeleteHandler(c *gin.Context) {
	metrics.Get().RecordNotesRequest(c.Request.Context(), "delete")

	userKey, token, ok := h.credentials(c)
	if !ok {
		return
	}

	id, err := noteID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid note id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userKey, token, id); err != nil {
		h.respondError(c, err, "Failed to delete note.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}

func noteID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// respondError maps a service failure to the façade's uniform
// {message} shape: backend wording verbatim when present, the per
// operation fallback otherwise, a distinct message for connectivity
// failures, and an explicit not-found state for unknown ids.
func (h *NotesHandlers) respondError(c *gin.Context, err error, fallback string) {
	var statusErr *backend.StatusError
	switch {
	case errors.As(err, &statusErr):
		if statusErr.Status == http.StatusNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Note not found"})
			return
		}
		message := statusErr.Message
		if message == "" {
			message = fallback
		}
		c.JSON(statusErr.Status, gin.H{"message": message})
	case errors.Is(err, models.ErrUnreachable):
		c.JSON(http.StatusBadGateway, gin.H{"message": "Network error. Please check your connection."})
	default:
		h.logger.Error("Unexpected journal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
