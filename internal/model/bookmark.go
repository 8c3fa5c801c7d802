package model

import (
	"fmt"
	"time"
)

// Bookmark is a saved (book, page) reference with an optional user label.
type Bookmark struct {
	ID         string    `json:"id"`
	BookID     BookID    `json:"bookId"`
	BookTitle  string    `json:"bookTitle"` // copied at creation, not kept in sync
	PageNumber int       `json:"pageNumber"`
	CustomName string    `json:"customName"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
type NewBookmarkParams struct {
	ID         string // generated when empty
	BookID     BookID
	BookTitle  string
	PageNumber int
	CustomName string
	Now        time.Time
}

// NewBookmark creates a Bookmark with both timestamps set to Now.
func NewBookmark(params NewBookmarkParams) Bookmark {
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	id := params.ID
	if id == "" {
		id = GenerateUUID()
	}

	return Bookmark{
		ID:         id,
		BookID:     params.BookID,
		BookTitle:  params.BookTitle,
		PageNumber: params.PageNumber,
		CustomName: params.CustomName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SameTarget reports whether b points at the given book and page.
func (b Bookmark) SameTarget(bookID BookID, page int) bool {
	return b.BookID.Equal(bookID) && b.PageNumber == page
}

// DisplayName returns the custom name, or "<title> · p. N" when none was given.
func (b Bookmark) DisplayName() string {
	if b.CustomName != "" {
		return b.CustomName
	}
	return DefaultBookmarkName(b.BookTitle, b.PageNumber)
}

// DefaultBookmarkName is the label used for bookmarks without a custom name.
func DefaultBookmarkName(title string, page int) string {
	return fmt.Sprintf("%s · p. %d", title, page)
}
