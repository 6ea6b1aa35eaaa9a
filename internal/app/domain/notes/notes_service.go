package notes

import (
	"context"
	"fmt"
	"sync"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/penfolio/penfolio/internal/app/models"
	"github.com/penfolio/penfolio/internal/app/observability/metrics"
	"github.com/penfolio/penfolio/internal/pkg/backend"
	"github.com/penfolio/penfolio/internal/pkg/config"
)

// Ensure implementation satisfies the interface
var _ NotesService = (*NotesServiceImpl)(nil)

// NotesService defines the journal business logic contract. The
// backend owns the notes; this tier keeps one cached copy of the list
// per user and mutates it optimistically after each successful call.
type NotesService interface {
	List(ctx context.Context, userKey, token string, force bool) ([]models.Note, error)
	Create(ctx context.Context, userKey, token string, draft models.NoteDraft) (*models.Note, error)
	Update(ctx context.Context, userKey, token string, id int64, update models.NoteUpdate) (*models.Note, error)
	Delete(ctx context.Context, userKey, token string, id int64) error
}

// NotesServiceImpl provides the implementation for NotesService.
//
// Mutations for one user are serialized through a per-user lock, so
// two racing calls can no longer leave the cache in a
// last-response-wins state.
type NotesServiceImpl struct {
	logger  *zap.Logger
	backend *backend.Client
	cache   *cache.Cache
	locks   sync.Map // userKey -> *sync.Mutex
}

// NewNotesService creates a new journal service instance.
func NewNotesService(client *backend.Client, cfg *config.Config, logger *zap.Logger) *NotesServiceImpl {
	return &NotesServiceImpl{
		logger:  logger,
		backend: client,
		cache:   cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
}

func (s *NotesServiceImpl) lock(userKey string) func() {
	mu, _ := s.locks.LoadOrStore(userKey, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// List returns the user's notes, served from the cache when fresh.
// force bypasses the cache. A backend failure empties the cached list
// and the error is returned, not swallowed.
func (s *NotesServiceImpl) List(ctx context.Context, userKey, token string, force bool) ([]models.Note, error) {
	l := s.logger.With(zap.String("method", "List"))
	defer s.lock(userKey)()

	if !force {
		if cached, found := s.cache.Get(userKey); found {
			metrics.Get().NoteCacheHitsTotal.Add(ctx, 1)
			return cloneNotes(cached.([]models.Note)), nil
		}
	}
	metrics.Get().NoteCacheMissesTotal.Add(ctx, 1)

	items, err := s.backend.ListJournals(ctx, token)
	if err != nil {
		l.Warn("Failed to fetch notes", zap.Error(err))
		s.cache.SetDefault(userKey, []models.Note{})
		return nil, fmt.Errorf("fetching notes: %w", err)
	}

	s.cache.SetDefault(userKey, cloneNotes(items))
	l.Debug("Fetched notes", zap.Int("count", len(items)))
	return items, nil
}

// Create saves the draft on the backend and prepends the result to the
// front of the cached list. The list is deliberately not re-sorted by
// date; newest-created stays first until the next full refetch.
func (s *NotesServiceImpl) Create(ctx context.Context, userKey, token string, draft models.NoteDraft) (*models.Note, error) {
	l := s.logger.With(zap.String("method", "Create"))
	defer s.lock(userKey)()

	note, err := s.backend.CreateJournal(ctx, token, draft)
	if err != nil {
		l.Warn("Failed to save note", zap.Error(err))
		return nil, fmt.Errorf("saving note: %w", err)
	}

	if cached, found := s.cache.Get(userKey); found {
		s.cache.SetDefault(userKey, append([]models.Note{*note}, cached.([]models.Note)...))
	}

	l.Info("Note created", zap.Int64("noteID", note.ID))
	return note, nil
}

// Update replaces the matching cached entry in place; entries with
// other ids are untouched.
func (s *NotesServiceImpl) Update(ctx context.Context, userKey, token string, id int64, update models.NoteUpdate) (*models.Note, error) {
	l := s.logger.With(zap.String("method", "Update"), zap.Int64("noteID", id))
	defer s.lock(userKey)()

	note, err := s.backend.UpdateJournal(ctx, token, id, update)
	if err != nil {
		l.Warn("Failed to update note", zap.Error(err))
		return nil, fmt.Errorf("updating note: %w", err)
	}

	if cached, found := s.cache.Get(userKey); found {
		items := cloneNotes(cached.([]models.Note))
		for i := range items {
			if items[i].ID == id {
				items[i] = *note
			}
		}
		s.cache.SetDefault(userKey, items)
	}

	l.Info("Note updated")
	return note, nil
}

// Delete removes the note on the backend and drops the matching cached
// entry.
func (s *NotesServiceImpl) Delete(ctx context.Context, userKey, token string, id int64) error {
	l := s.logger.With(zap.String("method", "Delete"), zap.Int64("noteID", id))
	defer s.lock(userKey)()

	if err := s.backend.DeleteJournal(ctx, token, id); err != nil {
		l.Warn("Failed to delete note", zap.Error(err))
		return fmt.Errorf("deleting note: %w", err)
	}

	if cached, found := s.cache.Get(userKey); found {
		items := cached.([]models.Note)
		kept := make([]models.Note, 0, len(items))
		for _, n := range items {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		s.cache.SetDefault(userKey, kept)
	}

	l.Info("Note deleted")
	return nil
}

// cloneNotes keeps callers from mutating the cached slice.
func cloneNotes(items []models.Note) []models.Note {
	out := make([]models.Note, len(items))
	copy(out, items)
	return out
}
