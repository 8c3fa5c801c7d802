// Package bookmark implements the bookmark store: CRUD, import and export
// over one persisted collection, keyed by (book, page).
package bookmark

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nikbrunner/pbb/internal/logger"
	"github.com/nikbrunner/pbb/internal/model"
	"github.com/nikbrunner/pbb/internal/storage"
)

// AddParams holds parameters for Add. BookID, BookTitle and PageNumber
// are required.
type AddParams struct {
	BookID     model.BookID `json:"bookId" validate:"required"`
	BookTitle  string       `json:"bookTitle" validate:"required"`
	PageNumber int          `json:"pageNumber" validate:"gt=0"`
	CustomName string       `json:"customName"`
}

// ImportResult counts the outcome of an Import.
type ImportResult struct {
	Added   int
	Skipped int
}

// Store reads and rewrites the whole collection on every call.
// It holds no state of its own between calls.
type Store struct {
	backend storage.Backend
	log     *slog.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for storage failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the time source for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the id generator for new bookmarks.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// New creates a Store over the given backend.
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		log:     logger.Discard(),
		now:     time.Now,
		newID:   model.GenerateUUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// load reads and decodes the collection. An empty slot is an empty collection.
func (s *Store) load() (model.Collection, error) {
	data, err := s.backend.Read()
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return model.Collection{}, nil
	}

	var c model.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c == nil {
		c = model.Collection{}
	}
	return c, nil
}

func (s *Store) save(c model.Collection) error {
	if c == nil {
		c = model.Collection{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.backend.Write(data)
}

// List returns all bookmarks in persisted order. Never nil.
func (s *Store) List() []model.Bookmark {
	c, err := s.load()
	if err != nil {
		s.log.Error("loading bookmarks", "error", err)
		return []model.Bookmark{}
	}
	return c
}

// IsBookmarked returns the bookmark for a book page, or nil.
func (s *Store) IsBookmarked(bookID model.BookID, page int) *model.Bookmark {
	c, err := s.load()
	if err != nil {
		s.log.Error("checking bookmark", "error", err)
		return nil
	}
	return c.FindByTarget(bookID, page)
}

// ByBook returns the bookmarks of one book in persisted order.
func (s *Store) ByBook(bookID model.BookID) []model.Bookmark {
	c, err := s.load()
	if err != nil {
		s.log.Error("loading bookmarks by book", "book_id", bookID.String(), "error", err)
		return []model.Bookmark{}
	}
	return c.ForBook(bookID)
}

// Add creates a bookmark, or updates the existing one for the same book
// page in place. An empty CustomName keeps the existing name.
// Returns a *ValidationError for missing fields, and (nil, nil) when the
// collection could not be read or written.
func (s *Store) Add(p AddParams) (*model.Bookmark, error) {
	p.BookID = model.BookID(strings.TrimSpace(string(p.BookID)))
	if err := validateParams(p); err != nil {
		return nil, err
	}

	c, err := s.load()
	if err != nil {
		s.log.Error("adding bookmark", "book_id", p.BookID.String(), "page", p.PageNumber, "error", err)
		return nil, nil
	}

	now := s.timestamp()
	var result model.Bookmark
	if i := c.IndexOfTarget(p.BookID, p.PageNumber); i >= 0 {
		if p.CustomName != "" {
			c[i].CustomName = p.CustomName
		}
		c[i].UpdatedAt = now
		result = c[i]
	} else {
		result = model.NewBookmark(model.NewBookmarkParams{
			ID:         s.newID(),
			BookID:     p.BookID,
			BookTitle:  p.BookTitle,
			PageNumber: p.PageNumber,
			CustomName: p.CustomName,
			Now:        now,
		})
		c = append(c, result)
	}

	if err := s.save(c); err != nil {
		s.log.Error("saving bookmark", "book_id", p.BookID.String(), "page", p.PageNumber, "error", err)
		return nil, nil
	}
	return &result, nil
}

// Update replaces the custom name of the bookmark with the given id.
// Returns nil if the id is unknown or the collection could not be saved.
func (s *Store) Update(id, customName string) *model.Bookmark {
	c, err := s.load()
	if err != nil {
		s.log.Error("updating bookmark", "id", id, "error", err)
		return nil
	}

	i := c.IndexOfID(id)
	if i < 0 {
		return nil
	}
	c[i].CustomName = customName
	c[i].UpdatedAt = s.timestamp()

	if err := s.save(c); err != nil {
		s.log.Error("saving bookmark", "id", id, "error", err)
		return nil
	}
	result := c[i]
	return &result
}

// Delete removes the bookmark with the given id. Returns false when the id
// is unknown (nothing is written) or the collection could not be saved.
func (s *Store) Delete(id string) bool {
	c, err := s.load()
	if err != nil {
		s.log.Error("deleting bookmark", "id", id, "error", err)
		return false
	}

	remaining := c.Without(id)
	if len(remaining) == len(c) {
		return false
	}

	if err := s.save(remaining); err != nil {
		s.log.Error("saving bookmarks", "id", id, "error", err)
		return false
	}
	return true
}

// ClearAll empties the collection.
func (s *Store) ClearAll() bool {
	if err := s.save(model.Collection{}); err != nil {
		s.log.Error("clearing bookmarks", "error", err)
		return false
	}
	return true
}

// Export returns the collection as an indented JSON array.
func (s *Store) Export() string {
	data, err := json.MarshalIndent(s.List(), "", "  ")
	if err != nil {
		s.log.Error("exporting bookmarks", "error", err)
		return "[]"
	}
	return string(data)
}

// Import merges the bookmarks in data into the collection. Records whose
// book page is already bookmarked are skipped; existing records are never
// modified. Records without an id, or whose id is already taken, get a
// fresh one. Returns a *FormatError
// when data is not a JSON array of bookmarks, and (nil, nil) when the
// collection could not be read or written.
func (s *Store) Import(data string) (*ImportResult, error) {
	incoming, err := decodeImport(data)
	if err != nil {
		return nil, err
	}
	return s.ImportBookmarks(incoming), nil
}

// ImportBookmarks merges already decoded records with the same rules as
// Import. Records without a book id or a positive page are skipped.
// Returns nil when the collection could not be read or written.
func (s *Store) ImportBookmarks(incoming []model.Bookmark) *ImportResult {
	c, err := s.load()
	if err != nil {
		s.log.Error("importing bookmarks", "error", err)
		return nil
	}

	result := &ImportResult{}
	now := s.timestamp()
	for _, b := range incoming {
		b.BookID = model.BookID(strings.TrimSpace(string(b.BookID)))
		if b.BookID.IsZero() || b.PageNumber <= 0 || c.IndexOfTarget(b.BookID, b.PageNumber) >= 0 {
			result.Skipped++
			continue
		}
		if b.ID == "" || c.IndexOfID(b.ID) >= 0 {
			b.ID = s.newID()
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = b.CreatedAt
		}
		c = append(c, b)
		result.Added++
	}

	if err := s.save(c); err != nil {
		s.log.Error("saving imported bookmarks", "added", result.Added, "error", err)
		return nil
	}
	s.log.Info("imported bookmarks", "added", result.Added, "skipped", result.Skipped)
	return result
}

func decodeImport(data string) ([]model.Bookmark, error) {
	trimmed := bytes.TrimSpace([]byte(data))
	if len(trimmed) == 0 {
		return nil, &FormatError{Reason: "empty input"}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		if !json.Valid(trimmed) {
			return nil, &FormatError{Reason: "not valid JSON", Err: err}
		}
		return nil, &FormatError{Reason: "expected an array"}
	}
	if raw == nil {
		return nil, &FormatError{Reason: "expected an array"}
	}

	records := make([]model.Bookmark, 0, len(raw))
	for i, r := range raw {
		var b model.Bookmark
		if err := json.Unmarshal(r, &b); err != nil {
			return nil, &FormatError{Reason: "record " + strconv.Itoa(i), Err: err}
		}
		records = append(records, b)
	}
	return records, nil
}
