package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/pbb/internal/model"
)

// SearchResult represents a fuzzy bookmark match.
type SearchResult struct {
	Bookmark       *model.Bookmark
	Text           string // the string that was matched
	MatchedIndexes []int
	Score          int
}

// BookResult represents a fuzzy book match.
type BookResult struct {
	Book           *model.Book
	Title          string
	MatchedIndexes []int
	Score          int
}

// Text returns the string a bookmark is matched against: its display
// name, followed by the book and page when a custom name hides them.
func Text(b *model.Bookmark) string {
	if b.CustomName == "" {
		return b.DisplayName()
	}
	return b.CustomName + " (" + model.DefaultBookmarkName(b.BookTitle, b.PageNumber) + ")"
}

// bookmarkTexts implements fuzzy.Source for a bookmark slice.
type bookmarkTexts []*model.Bookmark

func (bt bookmarkTexts) String(i int) string {
	return Text(bt[i])
}

func (bt bookmarkTexts) Len() int {
	return len(bt)
}

// bookTitles implements fuzzy.Source for a book slice.
type bookTitles []*model.Book

func (bt bookTitles) String(i int) string {
	return bt[i].DisplayTitle()
}

func (bt bookTitles) Len() int {
	return len(bt)
}

// Bookmarks searches bookmarks using fuzzy matching.
// Returns results sorted by match score (best first).
func Bookmarks(list []model.Bookmark, query string) []SearchResult {
	if query == "" {
		return nil
	}

	bookmarks := make(bookmarkTexts, len(list))
	for i := range list {
		bookmarks[i] = &list[i]
	}

	matches := fuzzy.FindFrom(query, bookmarks)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Bookmark:       bookmarks[m.Index],
			Text:           m.Str,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// Books searches books by display title using fuzzy matching.
// Returns results sorted by match score (best first).
func Books(list []model.Book, query string) []BookResult {
	if query == "" {
		return nil
	}

	books := make(bookTitles, len(list))
	for i := range list {
		books[i] = &list[i]
	}

	matches := fuzzy.FindFrom(query, books)

	results := make([]BookResult, len(matches))
	for i, m := range matches {
		results[i] = BookResult{
			Book:           books[m.Index],
			Title:          m.Str,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}
