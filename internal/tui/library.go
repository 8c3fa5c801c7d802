package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/pbb/internal/api"
	"github.com/nikbrunner/pbb/internal/model"
)

// Library is the remote catalog the TUI reads from. *api.Client implements it.
type Library interface {
	Books(ctx context.Context) ([]model.Book, error)
	BookPages(ctx context.Context, id model.BookID) (*api.PageList, error)
	TOC(ctx context.Context, id model.BookID) ([]model.TOCEntry, error)
	PageContent(ctx context.Context, id model.BookID, page int) (string, error)
	SearchGlossary(ctx context.Context, term string, page, size int) (*api.GlossaryResults, error)
	PageImageURL(id model.BookID, page int) string
	ReaderURL(id model.BookID, page int) string
}

var _ Library = (*api.Client)(nil)

// glossaryPageSize is the number of glossary hits requested per search.
const glossaryPageSize = 50

type booksLoadedMsg struct {
	books []model.Book
	err   error
}

type pagesLoadedMsg struct {
	bookID model.BookID
	list   *api.PageList
	err    error
}

type tocLoadedMsg struct {
	bookID  model.BookID
	entries []model.TOCEntry
	err     error
}

type contentLoadedMsg struct {
	bookID  model.BookID
	page    int
	content string
	err     error
}

type glossaryLoadedMsg struct {
	query   string
	results *api.GlossaryResults
	err     error
}

// requestContext bounds a single library call.
func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (a App) loadBooksCmd() tea.Cmd {
	lib, timeout := a.library, a.timeout
	return func() tea.Msg {
		// The catalog takes several requests.
		ctx, cancel := requestContext(4 * timeout)
		defer cancel()
		books, err := lib.Books(ctx)
		return booksLoadedMsg{books: books, err: err}
	}
}

func (a App) loadPagesCmd(id model.BookID) tea.Cmd {
	lib, timeout := a.library, a.timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		list, err := lib.BookPages(ctx, id)
		return pagesLoadedMsg{bookID: id, list: list, err: err}
	}
}

func (a App) loadTOCCmd(id model.BookID) tea.Cmd {
	lib, timeout := a.library, a.timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		entries, err := lib.TOC(ctx, id)
		return tocLoadedMsg{bookID: id, entries: entries, err: err}
	}
}

func (a App) loadContentCmd(id model.BookID, page int) tea.Cmd {
	lib, timeout := a.library, a.timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		content, err := lib.PageContent(ctx, id, page)
		return contentLoadedMsg{bookID: id, page: page, content: content, err: err}
	}
}

func (a App) searchGlossaryCmd(query string) tea.Cmd {
	lib, timeout := a.library, a.timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		results, err := lib.SearchGlossary(ctx, query, 1, glossaryPageSize)
		return glossaryLoadedMsg{query: query, results: results, err: err}
	}
}
