// Package checker verifies bookmarks against the library: the book must
// still exist and the page must be within its page count.
package checker

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/nikbrunner/pbb/internal/api"
	"github.com/nikbrunner/pbb/internal/model"
	"github.com/nikbrunner/pbb/internal/resolver"
)

// Status represents the health of a bookmark.
type Status int

const (
	OK             Status = iota // book exists and the page is in range
	BookMissing                  // the API answered 404 for the book
	PageOutOfRange               // book exists but has no such page
	Unreachable                  // timeout, connection refused, server error, etc.
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case BookMissing:
		return "book missing"
	case PageOutOfRange:
		return "page out of range"
	default:
		return "unreachable"
	}
}

// PageLister fetches the page list of a book. *api.Client implements it.
type PageLister interface {
	BookPages(ctx context.Context, id model.BookID) (*api.PageList, error)
}

// Result holds the check result for a single bookmark.
type Result struct {
	Bookmark   *model.Bookmark
	Status     Status
	TotalPages int    // page count of the book (0 if unknown)
	Error      string // error message for unreachable books
}

// ProgressFunc is called after each book is checked.
// completed is the number of books checked so far, total is the total count.
type ProgressFunc func(completed, total int)

type bookPages struct {
	list *api.PageList
	err  error
}

// Check fetches each distinct book's page list once, concurrently, and
// returns one result per bookmark in input order.
func Check(ctx context.Context, pager PageLister, bookmarks []model.Bookmark, concurrency int, onProgress ProgressFunc) []Result {
	if len(bookmarks) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	var bookIDs []model.BookID
	seen := make(map[model.BookID]bool)
	for _, b := range bookmarks {
		key := canonical(b.BookID)
		if !seen[key] {
			seen[key] = true
			bookIDs = append(bookIDs, key)
		}
	}

	fetched := make([]bookPages, len(bookIDs))
	jobs := make(chan int, len(bookIDs))
	var wg sync.WaitGroup

	// Progress tracking
	var progressMu sync.Mutex
	completed := 0

	// Start workers
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					fetched[idx] = bookPages{err: err}
				} else {
					list, err := pager.BookPages(ctx, bookIDs[idx])
					fetched[idx] = bookPages{list: list, err: err}
				}

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(bookIDs))
					progressMu.Unlock()
				}
			}
		}()
	}

	// Send jobs
	for i := range bookIDs {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	byBook := make(map[model.BookID]bookPages, len(bookIDs))
	for i, id := range bookIDs {
		byBook[id] = fetched[i]
	}

	results := make([]Result, len(bookmarks))
	for i := range bookmarks {
		results[i] = classify(&bookmarks[i], byBook[canonical(bookmarks[i].BookID)])
	}
	return results
}

func canonical(id model.BookID) model.BookID {
	return model.BookID(strings.TrimSpace(id.String()))
}

// classify turns one fetched page list into the result for a bookmark.
func classify(bookmark *model.Bookmark, pages bookPages) Result {
	result := Result{Bookmark: bookmark}

	if pages.err != nil {
		if errors.Is(pages.err, api.ErrNotFound) {
			result.Status = BookMissing
			return result
		}
		result.Status = Unreachable
		result.Error = normalizeError(pages.err.Error())
		return result
	}

	if pages.list == nil {
		result.Status = Unreachable
		result.Error = "empty response"
		return result
	}

	result.TotalPages = pages.list.Total
	if resolver.Reachable(bookmark.PageNumber, pages.list.Pages, pages.list.Total) {
		result.Status = OK
		return result
	}
	result.Status = PageOutOfRange
	return result
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "context canceled"):
		return "Cancelled"
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}

// Failed returns the results whose status is not OK.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Status != OK {
			failed = append(failed, r)
		}
	}
	return failed
}
