// Package services – StudyService
//
// StudyService keeps a user's study data: one note per verse, any number of
// colored highlights, bookmarks, and the last reading position. Each
// collection is persisted as a single JSON blob per user and rewritten on
// every change, so the last write wins.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/scripture-study/internal/domain"
	"github.com/tbourn/scripture-study/internal/repo"
)

// VerseCatalog answers existence checks against the loaded corpus.
// *ScriptureService implements it.
type VerseCatalog interface {
	HasVerse(verseID string) bool
	HasChapter(volumeID, bookID string, chapter int) bool
}

// HighlightColors is the accepted highlight palette.
var HighlightColors = []string{"yellow", "green", "blue", "pink", "purple"}

// StudyService manages notes, highlights, bookmarks and reading position.
type StudyService struct {
	DB      *gorm.DB
	Catalog VerseCatalog

	// MaxNoteRunes caps note text; MaxLabelRunes caps bookmark labels.
	MaxNoteRunes  int
	MaxLabelRunes int

	locks sync.Map // userID -> *sync.Mutex
}

// NewStudyService constructs a StudyService with default limits.
func NewStudyService(db *gorm.DB, catalog VerseCatalog) *StudyService {
	return &StudyService{
		DB:            db,
		Catalog:       catalog,
		MaxNoteRunes:  5000,
		MaxLabelRunes: 120,
	}
}

// lock serializes read-modify-write cycles for one user within this process.
func (s *StudyService) lock(userID string) func() {
	m, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *StudyService) span(ctx context.Context, name, userID string) (context.Context, trace.Span) {
	return otel.Tracer("services/StudyService").Start(ctx, name,
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
}

func (s *StudyService) verseExists(verseID string) bool {
	return s.Catalog == nil || s.Catalog.HasVerse(verseID)
}

// loadCollection reads a JSON collection. A missing blob is an empty
// collection; a corrupt one is logged and treated as empty.
func loadCollection[T any](ctx context.Context, db *gorm.DB, userID, key string) (T, error) {
	var out T
	data, err := repo.LoadBlob(ctx, db, userID, key)
	if errors.Is(err, repo.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("collection", key).Msg("discarding unreadable study data")
		var zero T
		return zero, nil
	}
	return out, nil
}

func saveCollection(ctx context.Context, db *gorm.DB, userID, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return repo.SaveBlob(ctx, db, userID, key, data)
}

// ---- notes ----

// Notes returns every note of the user, in the order they were first written.
func (s *StudyService) Notes(ctx context.Context, userID string) ([]domain.Note, error) {
	ctx, span := s.span(ctx, "Notes", userID)
	defer span.End()

	notes, err := loadCollection[[]domain.Note](ctx, s.DB, userID, domain.KeyNotes)
	if notes == nil {
		notes = []domain.Note{}
	}
	return notes, err
}

// SaveNote writes the note for a verse, replacing any previous one. Blank
// text deletes the note and returns nil.
func (s *StudyService) SaveNote(ctx context.Context, userID, verseID, text string) (*domain.Note, error) {
	ctx, span := s.span(ctx, "SaveNote", userID)
	defer span.End()

	if !s.verseExists(verseID) {
		return nil, ErrVerseNotFound
	}
	text = strings.TrimSpace(text)
	if s.MaxNoteRunes > 0 && utf8.RuneCountInString(text) > s.MaxNoteRunes {
		return nil, ErrTooLong
	}

	defer s.lock(userID)()
	notes, err := loadCollection[[]domain.Note](ctx, s.DB, userID, domain.KeyNotes)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range notes {
		if notes[i].VerseID == verseID {
			idx = i
			break
		}
	}

	if text == "" {
		if idx < 0 {
			return nil, nil
		}
		notes = append(notes[:idx], notes[idx+1:]...)
		return nil, saveCollection(ctx, s.DB, userID, domain.KeyNotes, notes)
	}

	n := domain.Note{VerseID: verseID, Text: text, UpdatedAt: time.Now().UTC()}
	if idx >= 0 {
		notes[idx] = n
	} else {
		notes = append(notes, n)
	}
	if err := saveCollection(ctx, s.DB, userID, domain.KeyNotes, notes); err != nil {
		return nil, err
	}
	return &n, nil
}

// DeleteNote removes the note on a verse.
func (s *StudyService) DeleteNote(ctx context.Context, userID, verseID string) error {
	ctx, span := s.span(ctx, "DeleteNote", userID)
	defer span.End()

	defer s.lock(userID)()
	notes, err := loadCollection[[]domain.Note](ctx, s.DB, userID, domain.KeyNotes)
	if err != nil {
		return err
	}
	for i := range notes {
		if notes[i].VerseID == verseID {
			notes = append(notes[:i], notes[i+1:]...)
			return saveCollection(ctx, s.DB, userID, domain.KeyNotes, notes)
		}
	}
	return ErrStudyItemNotFound
}

// ---- highlights ----

// Highlights returns the user's highlights, optionally filtered to one verse.
func (s *StudyService) Highlights(ctx context.Context, userID, verseID string) ([]domain.Highlight, error) {
	ctx, span := s.span(ctx, "Highlights", userID)
	defer span.End()

	all, err := loadCollection[[]domain.Highlight](ctx, s.DB, userID, domain.KeyHighlights)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Highlight, 0, len(all))
	for _, h := range all {
		if verseID == "" || h.VerseID == verseID {
			out = append(out, h)
		}
	}
	return out, nil
}

// AddHighlight marks a verse with a palette color. A verse may be
// highlighted any number of times.
func (s *StudyService) AddHighlight(ctx context.Context, userID, verseID, color string) (*domain.Highlight, error) {
	ctx, span := s.span(ctx, "AddHighlight", userID)
	defer span.End()

	if !s.verseExists(verseID) {
		return nil, ErrVerseNotFound
	}
	color = strings.ToLower(strings.TrimSpace(color))
	if color == "" {
		color = HighlightColors[0]
	}
	if !validColor(color) {
		return nil, ErrInvalidStudyItem
	}

	defer s.lock(userID)()
	all, err := loadCollection[[]domain.Highlight](ctx, s.DB, userID, domain.KeyHighlights)
	if err != nil {
		return nil, err
	}
	h := domain.Highlight{
		ID:        uuid.NewString(),
		VerseID:   verseID,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}
	all = append(all, h)
	if err := saveCollection(ctx, s.DB, userID, domain.KeyHighlights, all); err != nil {
		return nil, err
	}
	return &h, nil
}

// RemoveHighlight deletes one highlight by id.
func (s *StudyService) RemoveHighlight(ctx context.Context, userID, id string) error {
	ctx, span := s.span(ctx, "RemoveHighlight", userID)
	defer span.End()

	defer s.lock(userID)()
	all, err := loadCollection[[]domain.Highlight](ctx, s.DB, userID, domain.KeyHighlights)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == id {
			all = append(all[:i], all[i+1:]...)
			return saveCollection(ctx, s.DB, userID, domain.KeyHighlights, all)
		}
	}
	return ErrStudyItemNotFound
}

func validColor(c string) bool {
	for _, p := range HighlightColors {
		if p == c {
			return true
		}
	}
	return false
}

// ---- bookmarks ----

// Bookmarks returns the user's bookmarks, oldest first.
func (s *StudyService) Bookmarks(ctx context.Context, userID string) ([]domain.Bookmark, error) {
	ctx, span := s.span(ctx, "Bookmarks", userID)
	defer span.End()

	out, err := loadCollection[[]domain.Bookmark](ctx, s.DB, userID, domain.KeyBookmarks)
	if out == nil {
		out = []domain.Bookmark{}
	}
	return out, err
}

// AddBookmark stores a labelled pointer to a verse.
func (s *StudyService) AddBookmark(ctx context.Context, userID, verseID, label string) (*domain.Bookmark, error) {
	ctx, span := s.span(ctx, "AddBookmark", userID)
	defer span.End()

	if !s.verseExists(verseID) {
		return nil, ErrVerseNotFound
	}
	label = normalizeTitle(label)
	if s.MaxLabelRunes > 0 && utf8.RuneCountInString(label) > s.MaxLabelRunes {
		return nil, ErrTooLong
	}

	defer s.lock(userID)()
	all, err := loadCollection[[]domain.Bookmark](ctx, s.DB, userID, domain.KeyBookmarks)
	if err != nil {
		return nil, err
	}
	b := domain.Bookmark{
		ID:        uuid.NewString(),
		VerseID:   verseID,
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
	all = append(all, b)
	if err := saveCollection(ctx, s.DB, userID, domain.KeyBookmarks, all); err != nil {
		return nil, err
	}
	return &b, nil
}

// RemoveBookmark deletes one bookmark by id.
func (s *StudyService) RemoveBookmark(ctx context.Context, userID, id string) error {
	ctx, span := s.span(ctx, "RemoveBookmark", userID)
	defer span.End()

	defer s.lock(userID)()
	all, err := loadCollection[[]domain.Bookmark](ctx, s.DB, userID, domain.KeyBookmarks)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == id {
			all = append(all[:i], all[i+1:]...)
			return saveCollection(ctx, s.DB, userID, domain.KeyBookmarks, all)
		}
	}
	return ErrStudyItemNotFound
}

// ---- reading position ----

// Position returns the last saved reading position, or nil if none.
func (s *StudyService) Position(ctx context.Context, userID string) (*domain.Position, error) {
	ctx, span := s.span(ctx, "Position", userID)
	defer span.End()

	p, err := loadCollection[*domain.Position](ctx, s.DB, userID, domain.KeyPosition)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SetPosition records the chapter the user is reading.
func (s *StudyService) SetPosition(ctx context.Context, userID, volumeID, bookID string, chapter int) (*domain.Position, error) {
	ctx, span := s.span(ctx, "SetPosition", userID)
	defer span.End()

	if volumeID == "" || bookID == "" || chapter <= 0 {
		return nil, ErrInvalidStudyItem
	}
	if s.Catalog != nil && !s.Catalog.HasChapter(volumeID, bookID, chapter) {
		return nil, ErrChapterNotFound
	}
	p := &domain.Position{
		VolumeID:  volumeID,
		BookID:    bookID,
		Chapter:   chapter,
		UpdatedAt: time.Now().UTC(),
	}
	if err := saveCollection(ctx, s.DB, userID, domain.KeyPosition, p); err != nil {
		return nil, err
	}
	return p, nil
}
