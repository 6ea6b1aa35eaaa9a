package notes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/penfolio/penfolio/internal/app/domain/auth"
	"github.com/penfolio/penfolio/internal/app/models"
	"github.com/penfolio/penfolio/internal/pkg/backend"
	"github.com/penfolio/penfolio/internal/pkg/config"
)

func newNotesRig(t *testing.T, backendURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	client := backend.NewClient(config.BackendConfig{BaseURL: backendURL, Timeout: 2 * time.Second}, zap.NewNop())
	cfg := &config.Config{CacheTTL: 5 * time.Minute}
	bridge := auth.NewCookieBridge(config.CookieConfig{})
	service := NewNotesService(client, cfg, zap.NewNop())
	handlers := NewNotesHandlers(service, bridge, zap.NewNop())

	r := gin.New()
	r.GET("/api/journals", handlers.ListHandler)
	r.POST("/api/journals", handlers.CreateHandler)
	r.PUT("/api/journals/:id", handlers.UpdateHandler)
	r.DELETE("/api/journals/:id", handlers.DeleteHandler)
	return r
}

func notesRequest(r *gin.Engine, method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "tok-1"})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNotesHandlersRequireToken(t *testing.T) {
	r := newNotesRig(t, "http://backend.invalid")

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/journals"},
		{http.MethodPost, "/api/journals"},
		{http.MethodPut, "/api/journals/1"},
		{http.MethodDelete, "/api/journals/1"},
	} {
		w := notesRequest(r, tc.method, tc.path, "{}", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestListHandlerReturnsViews(t *testing.T) {
	fake := newFakeJournalBackend(models.Note{
		ID:      1,
		Title:   "a day",
		Content: "<p>It was <em>fine</em>.</p>",
		MoodTag: models.MoodGloomy,
	})
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	r := newNotesRig(t, srv.URL)
	w := notesRequest(r, http.MethodGet, "/api/journals", "", true)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Items []struct {
				ID      int64  `json:"id"`
				Title   string `json:"title"`
				Preview string `json:"preview"`
				Color   string `json:"color"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, "a day", body.Data.Items[0].Title)
	assert.Equal(t, "It was fine.", body.Data.Items[0].Preview)
	assert.Equal(t, "#4ECDC4", body.Data.Items[0].Color)
}

func TestCreateHandlerValidation(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()

	r := newNotesRig(t, srv.URL)

	w := notesRequest(r, http.MethodPost, "/api/journals", `{"title":"","content":"x","mood_tag":"MERRY"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = notesRequest(r, http.MethodPost, "/api/journals", `{"title":"t","content":"x","mood_tag":"ECSTATIC"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Zero(t, hits, "invalid drafts never reach the backend")
}

func TestCreateHandlerSuccess(t *testing.T) {
	fake := newFakeJournalBackend()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	r := newNotesRig(t, srv.URL)
	w := notesRequest(r, http.MethodPost, "/api/journals", `{"title":"t","content":"<p>x</p>","mood_tag":"COVERT"}`, true)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Data models.Note `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "t", body.Data.Title)
	assert.NotZero(t, body.Data.ID)
}

func TestNotesErrorMapping(t *testing.T) {
	t.Run("UnknownNoteIs404", func(t *testing.T) {
		fake := newFakeJournalBackend()
		srv := httptest.NewServer(fake.handler())
		defer srv.Close()

		r := newNotesRig(t, srv.URL)
		w := notesRequest(r, http.MethodPut, "/api/journals/999", `{"title":"x"}`, true)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Note not found")
	})

	t.Run("UnreachableBackendIs502", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		r := newNotesRig(t, srv.URL)
		w := notesRequest(r, http.MethodGet, "/api/journals", "", true)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "Network error. Please check your connection.")
	})

	t.Run("BadNoteID", func(t *testing.T) {
		r := newNotesRig(t, "http://backend.invalid")
		w := notesRequest(r, http.MethodDelete, "/api/journals/abc", "", true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid note id")
	})
}
