package bookmark

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nikbrunner/pbb/internal/model"
)

// SortOrder selects how a bookmark list is ordered for display.
type SortOrder int

const (
	SortNewest SortOrder = iota
	SortOldest
	SortByBook
)

// String returns the label shown in the UI.
func (o SortOrder) String() string {
	switch o {
	case SortOldest:
		return "oldest"
	case SortByBook:
		return "book"
	default:
		return "newest"
	}
}

// Next cycles newest → oldest → book → newest.
func (o SortOrder) Next() SortOrder {
	return (o + 1) % 3
}

// ParseSortOrder parses "newest", "oldest" or "book".
func ParseSortOrder(s string) (SortOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "newest", "":
		return SortNewest, true
	case "oldest":
		return SortOldest, true
	case "book":
		return SortByBook, true
	}
	return SortNewest, false
}

// Filter returns the bookmarks whose title, custom name or page number
// contain query, case-insensitively. An empty query returns everything.
func Filter(list []model.Bookmark, query string) []model.Bookmark {
	q := strings.ToLower(strings.TrimSpace(query))
	result := make([]model.Bookmark, 0, len(list))
	for _, b := range list {
		if q == "" ||
			strings.Contains(strings.ToLower(b.BookTitle), q) ||
			strings.Contains(strings.ToLower(b.CustomName), q) ||
			strings.Contains(strconv.Itoa(b.PageNumber), q) {
			result = append(result, b)
		}
	}
	return result
}

// Sort returns a sorted copy of list. SortByBook orders titles with
// locale-aware collation, then pages ascending.
func Sort(list []model.Bookmark, order SortOrder) []model.Bookmark {
	sorted := slices.Clone(list)
	if sorted == nil {
		sorted = []model.Bookmark{}
	}

	switch order {
	case SortOldest:
		slices.SortStableFunc(sorted, func(a, b model.Bookmark) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case SortByBook:
		col := NewCollator()
		slices.SortStableFunc(sorted, func(a, b model.Bookmark) int {
			if c := col.CompareString(a.BookTitle, b.BookTitle); c != 0 {
				return c
			}
			return a.PageNumber - b.PageNumber
		})
	default:
		slices.SortStableFunc(sorted, func(a, b model.Bookmark) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return sorted
}

// NewCollator returns the collator used for title ordering. Collators are
// not safe for concurrent use.
func NewCollator() *collate.Collator {
	return collate.New(language.English)
}
