package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/penfolio/penfolio/internal/app/models"
	"github.com/penfolio/penfolio/internal/pkg/backend"
	"github.com/penfolio/penfolio/internal/pkg/config"
)

// fakeJournalBackend is an in-memory stand-in for the remote API,
// speaking the same envelopes. It counts list hits so tests can tell
// cache reads from refetches.
type fakeJournalBackend struct {
	mu       sync.Mutex
	notes    []models.Note
	nextID   int64
	listHits int
}

func newFakeJournalBackend(seed ...models.Note) *fakeJournalBackend {
	f := &fakeJournalBackend{notes: seed, nextID: 1000}
	return f
}

func (f *fakeJournalBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/journals/":
			f.listHits++
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"items": f.notes},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/api/journals/":
			var draft models.NoteDraft
			_ = json.NewDecoder(r.Body).Decode(&draft)
			f.nextID++
			note := models.Note{
				ID:        f.nextID,
				Title:     draft.Title,
				Content:   draft.Content,
				MoodTag:   draft.MoodTag,
				DateAdded: "2025-06-01",
			}
			f.notes = append(f.notes, note)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"data": note})
		case r.Method == http.MethodPut:
			id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/journals/"), 10, 64)
			var update models.NoteUpdate
			_ = json.NewDecoder(r.Body).Decode(&update)
			for i := range f.notes {
				if f.notes[i].ID == id {
					if update.Title != nil {
						f.notes[i].Title = *update.Title
					}
					if update.Content != nil {
						f.notes[i].Content = *update.Content
					}
					if update.MoodTag != nil {
						f.notes[i].MoodTag = *update.MoodTag
					}
					_ = json.NewEncoder(w).Encode(map[string]any{"data": f.notes[i]})
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"not found"}`)
		case r.Method == http.MethodDelete:
			id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/journals/"), 10, 64)
			kept := f.notes[:0]
			for _, n := range f.notes {
				if n.ID != id {
					kept = append(kept, n)
				}
			}
			f.notes = kept
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestService(t *testing.T, srv *httptest.Server) *NotesServiceImpl {
	t.Helper()
	client := backend.NewClient(config.BackendConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, zap.NewNop())
	cfg := &config.Config{CacheTTL: 5 * time.Minute}
	return NewNotesService(client, cfg, zap.NewNop())
}

func titlesOf(items []models.Note) []string {
	out := make([]string, len(items))
	for i, n := range items {
		out[i] = n.Title
	}
	return out
}

func TestNotesServiceList(t *testing.T) {
	fake := newFakeJournalBackend(
		models.Note{ID: 1, Title: "first", MoodTag: models.MoodMerry},
		models.Note{ID: 2, Title: "second", MoodTag: models.MoodGloomy},
	)
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	svc := newTestService(t, srv)
	ctx := context.Background()

	items, err := svc.List(ctx, "u-1", "tok", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, titlesOf(items))
	assert.Equal(t, 1, fake.listHits)

	// Second read is served from the cache.
	_, err = svc.List(ctx, "u-1", "tok", false)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.listHits)

	// force bypasses the cache.
	_, err = svc.List(ctx, "u-1", "tok", true)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.listHits)

	// A different user gets their own fetch.
	_, err = svc.List(ctx, "u-2", "tok", false)
	require.NoError(t, err)
	assert.Equal(t, 3, fake.listHits)
}

func TestNotesServiceCreateUpdatesCache(t *testing.T) {
	fake := newFakeJournalBackend(models.Note{ID: 1, Title: "existing"})
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	svc := newTestService(t, srv)
	ctx := context.Background()

	_, err := svc.List(ctx, "u-1", "tok", false)
	require.NoError(t, err)

	created, err := svc.Create(ctx, "u-1", "tok", models.NoteDraft{Title: "fresh", Content: "<p>hi</p>", MoodTag: models.MoodMerry})
	require.NoError(t, err)
	assert.Equal(t, "fresh", created.Title)
	assert.NotZero(t, created.ID)

	// The new note is visible without another backend round trip,
	// prepended to the cached list.
	items, err := svc.List(ctx, "u-1", "tok", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh", "existing"}, titlesOf(items))
	assert.Equal(t, 1, fake.listHits)
}

func TestNotesServiceUpdateTouchesOnlyMatchingEntry(t *testing.T) {
	fake := newFakeJournalBackend(
		models.Note{ID: 1, Title: "one", MoodTag: models.MoodMerry},
		models.Note{ID: 2, Title: "two", MoodTag: models.MoodGloomy},
	)
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	svc := newTestService(t, srv)
	ctx := context.Background()

	_, err := svc.List(ctx, "u-1", "tok", false)
	require.NoError(t, err)

	newTitle := "one, revised"
	updated, err := svc.Update(ctx, "u-1", "tok", 1, models.NoteUpdate{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, models.MoodMerry, updated.MoodTag, "untouched fields survive a partial update")

	items, err := svc.List(ctx, "u-1", "tok", false)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, []string{"one, revised", "two"}, titlesOf(items))
	assert.Equal(t, 1, fake.listHits)
}

func TestNotesServiceDeleteRemovesFromCache(t *testing.T) {
	fake := newFakeJournalBackend(
		models.Note{ID: 1, Title: "keep"},
		models.Note{ID: 2, Title: "drop"},
	)
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	svc := newTestService(t, srv)
	ctx := context.Background()

	_, err := svc.List(ctx, "u-1", "tok", false)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "u-1", "tok", 2))

	items, err := svc.List(ctx, "u-1", "tok", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, titlesOf(items))
	assert.Equal(t, 1, fake.listHits)
}

func TestNotesServiceListFailureEmptiesCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newTestService(t, srv)
	ctx := context.Background()

	_, err := svc.List(ctx, "u-1", "tok", false)
	require.Error(t, err)

	var statusErr *backend.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Status)

	// The failure left an empty list behind, so the next read succeeds
	// from the cache instead of retrying a broken backend.
	items, err := svc.List(ctx, "u-1", "tok", false)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 1, calls)
}

func TestNotesServiceCacheReturnsCopies(t *testing.T) {
	fake := newFakeJournalBackend(models.Note{ID: 1, Title: "original"})
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	svc := newTestService(t, srv)
	ctx := context.Background()

	items, err := svc.List(ctx, "u-1", "tok", false)
	require.NoError(t, err)
	items[0].Title = "mutated by caller"

	again, err := svc.List(ctx, "u-1", "tok", false)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Title)
}
