package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/pbb/internal/api"
	"github.com/nikbrunner/pbb/internal/bookmark"
	"github.com/nikbrunner/pbb/internal/model"
	"github.com/nikbrunner/pbb/internal/resolver"
	"github.com/nikbrunner/pbb/internal/tui/layout"
)

// openReader shows book at page (0 = the book's first page). Reopening the
// loaded book only changes the page.
func (a *App) openReader(book model.Book, page int) tea.Cmd {
	if a.screen != ScreenReader {
		a.returnTo = a.screen
	}
	a.screen = ScreenReader
	a.mode = ModeNormal

	if a.reader.Book.ID.Equal(book.ID) && a.reader.Ready() {
		if page == 0 {
			page = resolver.FirstPage(a.reader.Pages)
		}
		return a.goToPage(page)
	}

	a.log.Debug("opening book", "book_id", book.ID.String(), "page", page)
	a.reader.Open(book, page)
	return tea.Batch(a.loadPagesCmd(book.ID), a.loadTOCCmd(book.ID))
}

// goToPage moves the reader to page n and requests its content.
func (a *App) goToPage(n int) tea.Cmd {
	r := &a.reader
	if (r.Total > 0 || len(r.Pages) > 0) && !resolver.Reachable(n, r.Pages, r.Total) {
		a.setMessage(MessageWarning, fmt.Sprintf("Page %d is outside 1-%d", n, r.Total))
		return nil
	}
	r.Page = n
	r.Scroll = 0
	r.Content = ""
	r.ContentErr = nil
	r.LoadingContent = true
	return a.loadContentCmd(r.Book.ID, n)
}

func (a *App) handlePagesLoaded(msg pagesLoadedMsg) tea.Cmd {
	if !msg.bookID.Equal(a.reader.Book.ID) {
		return nil
	}
	a.reader.LoadingPages = false

	if msg.err != nil {
		a.reader.ContentErr = msg.err
		a.log.Warn("loading pages", "book_id", msg.bookID.String(), "error", msg.err)
		if errors.Is(msg.err, api.ErrNotFound) {
			a.setMessage(MessageError, "Book not found")
		} else {
			a.setMessage(MessageError, "Loading pages failed: "+msg.err.Error())
		}
		return nil
	}

	a.reader.Pages = msg.list.Pages
	a.reader.Total = msg.list.Total

	target := a.reader.PendingPage
	a.reader.PendingPage = 0
	if target > 0 && (a.reader.Total > 0 || len(a.reader.Pages) > 0) && !resolver.Reachable(target, a.reader.Pages, a.reader.Total) {
		a.setMessage(MessageWarning, fmt.Sprintf("Page %d is past the end of this book (%d pages)", target, a.reader.Total))
		target = 0
	}
	if target <= 0 {
		target = resolver.FirstPage(a.reader.Pages)
	}
	return a.goToPage(target)
}

func (a *App) handleTOCLoaded(msg tocLoadedMsg) {
	if !msg.bookID.Equal(a.reader.Book.ID) {
		return
	}
	if msg.err != nil {
		// A book without contents still reads fine.
		a.log.Warn("loading table of contents", "book_id", msg.bookID.String(), "error", msg.err)
		return
	}
	a.reader.TOC = resolver.BuildTOCTree(msg.entries)
	a.reader.TOCCursor = 0
}

func (a *App) handleContentLoaded(msg contentLoadedMsg) {
	if !msg.bookID.Equal(a.reader.Book.ID) || msg.page != a.reader.Page {
		return
	}
	a.reader.LoadingContent = false
	if msg.err != nil {
		a.reader.ContentErr = msg.err
		a.log.Warn("loading page content", "book_id", msg.bookID.String(), "page", msg.page, "error", msg.err)
		return
	}
	a.reader.Content = msg.content
}

func (a *App) handleReaderKey(msg tea.KeyMsg) tea.Cmd {
	r := &a.reader

	switch {
	case key.Matches(msg, a.keys.Back):
		a.screen = a.returnTo
		return nil

	case key.Matches(msg, a.keys.SwitchPane):
		if r.ShowTOC && len(r.TOC) > 0 {
			if r.Focus == PaneTOC {
				r.Focus = PaneContent
			} else {
				r.Focus = PaneTOC
			}
		}
		return nil

	case key.Matches(msg, a.keys.ToggleTOC):
		r.ShowTOC = !r.ShowTOC
		if !r.ShowTOC {
			r.Focus = PaneContent
		}
		return nil
	}

	if !r.Ready() {
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.NextPage):
		return a.stepPage(1)
	case key.Matches(msg, a.keys.PrevPage):
		return a.stepPage(-1)
	case key.Matches(msg, a.keys.JumpToPage):
		a.mode = ModeJump
		r.JumpInput.Reset()
		return r.JumpInput.Focus()
	case key.Matches(msg, a.keys.ToggleMark):
		a.toggleBookmark()
		return nil
	case key.Matches(msg, a.keys.NamedMark):
		a.startNameBookmark()
		return a.modal.NameInput.Focus()
	case key.Matches(msg, a.keys.OpenImage):
		a.openPageImage(r.Book.ID, r.Page)
		return nil
	case key.Matches(msg, a.keys.YankLink):
		a.copyReaderLink(r.Book.ID, r.Page)
		return nil
	}

	if r.Focus == PaneTOC {
		return a.handleTOCKey(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Down):
		a.scrollContent(1)
	case key.Matches(msg, a.keys.Up):
		a.scrollContent(-1)
	case key.Matches(msg, a.keys.Bottom):
		a.scrollContent(len(a.contentLines()))
	}
	return nil
}

// stepPage moves delta pages, staying inside the book.
func (a *App) stepPage(delta int) tea.Cmd {
	page, ok := resolver.Neighbour(a.reader.Page, delta, a.reader.Pages, a.reader.Total)
	if !ok {
		if delta > 0 {
			a.setMessage(MessageInfo, "Last page")
		} else {
			a.setMessage(MessageInfo, "First page")
		}
		return nil
	}
	return a.goToPage(page)
}

func (a *App) handleTOCKey(msg tea.KeyMsg) tea.Cmd {
	r := &a.reader
	rows := r.Rows()
	if len(rows) == 0 {
		return nil
	}
	r.TOCCursor = clampIndex(r.TOCCursor, len(rows))
	row := rows[r.TOCCursor]

	switch {
	case key.Matches(msg, a.keys.Down):
		r.TOCCursor = clampIndex(r.TOCCursor+1, len(rows))
	case key.Matches(msg, a.keys.Up):
		r.TOCCursor = clampIndex(r.TOCCursor-1, len(rows))
	case key.Matches(msg, a.keys.Bottom):
		r.TOCCursor = len(rows) - 1
	case key.Matches(msg, a.keys.Right):
		if row.Node.HasChildren() {
			r.Expanded[row.Node.ID] = true
		}
	case key.Matches(msg, a.keys.Left):
		if row.Node.HasChildren() && r.Expanded[row.Node.ID] {
			delete(r.Expanded, row.Node.ID)
			return nil
		}
		// Move to the parent entry.
		for i := r.TOCCursor - 1; i >= 0; i-- {
			if rows[i].Depth < row.Depth {
				r.TOCCursor = i
				break
			}
		}
	case key.Matches(msg, a.keys.Open):
		if row.Node.PageNumber != nil {
			r.Focus = PaneContent
			return a.goToPage(*row.Node.PageNumber)
		}
		if row.Node.HasChildren() {
			r.Expanded[row.Node.ID] = !r.Expanded[row.Node.ID]
		}
	}
	return nil
}

// handleJumpKey drives the page jump input.
func (a *App) handleJumpKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		a.reader.JumpInput.Blur()
		a.mode = ModeNormal
		return nil
	case tea.KeyEnter:
		a.reader.JumpInput.Blur()
		a.mode = ModeNormal
		page, err := resolver.ResolvePage(a.reader.JumpInput.Value(), a.reader.Pages, a.reader.Total)
		if err != nil {
			if !errors.Is(err, resolver.ErrEmptyInput) {
				a.setMessage(MessageError, err.Error())
			}
			return nil
		}
		return a.goToPage(page)
	}

	var cmd tea.Cmd
	a.reader.JumpInput, cmd = a.reader.JumpInput.Update(msg)
	return cmd
}

// currentBookmark returns the bookmark on the open page, or nil.
func (a *App) currentBookmark() *model.Bookmark {
	return a.store.IsBookmarked(a.reader.Book.ID, a.reader.Page)
}

// toggleBookmark removes the bookmark on the open page, or adds one.
func (a *App) toggleBookmark() {
	if existing := a.currentBookmark(); existing != nil {
		if a.store.Delete(existing.ID) {
			a.setMessage(MessageSuccess, "Bookmark removed")
		} else {
			a.setMessage(MessageError, "Could not remove bookmark")
		}
		return
	}
	a.saveBookmark("")
}

func (a *App) saveBookmark(name string) {
	r := &a.reader
	b, err := a.store.Add(bookmark.AddParams{
		BookID:     r.Book.ID,
		BookTitle:  r.Book.DisplayTitle(),
		PageNumber: r.Page,
		CustomName: name,
	})
	switch {
	case err != nil:
		a.setMessage(MessageError, err.Error())
	case b == nil:
		a.setMessage(MessageError, "Could not save bookmark")
	default:
		a.setMessage(MessageSuccess, "Bookmarked "+b.DisplayName())
	}
}

func (a *App) startNameBookmark() {
	a.modal.ResetInputs()
	a.mode = ModeNameBookmark
	if existing := a.currentBookmark(); existing != nil {
		a.modal.EditID = existing.ID
		a.modal.NameInput.SetValue(existing.CustomName)
	}
}

// handleNameKey drives the name input of the named-bookmark and rename modals.
func (a *App) handleNameKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		a.modal.ResetInputs()
		a.mode = ModeNormal
		return nil
	case tea.KeyEnter:
		name := strings.TrimSpace(a.modal.NameInput.Value())
		switch {
		case a.modal.EditID != "":
			if updated := a.store.Update(a.modal.EditID, name); updated != nil {
				a.setMessage(MessageSuccess, "Renamed to "+updated.DisplayName())
			} else {
				a.setMessage(MessageError, "Could not rename bookmark")
			}
		case a.mode == ModeNameBookmark:
			a.saveBookmark(name)
		}
		a.modal.ResetInputs()
		a.mode = ModeNormal
		return nil
	}

	var cmd tea.Cmd
	a.modal.NameInput, cmd = a.modal.NameInput.Update(msg)
	return cmd
}

func (a *App) openPageImage(id model.BookID, page int) {
	url := a.library.PageImageURL(id, page)
	if err := a.openURL(url); err != nil {
		a.log.Warn("opening page image", "url", url, "error", err)
		a.setMessage(MessageError, "Could not open browser: "+err.Error())
		return
	}
	a.setMessage(MessageInfo, "Opened page image")
}

func (a *App) copyReaderLink(id model.BookID, page int) {
	url := a.library.ReaderURL(id, page)
	if err := a.copyText(url); err != nil {
		a.log.Warn("copying reader link", "error", err)
		a.setMessage(MessageError, "Could not copy link: "+err.Error())
		return
	}
	a.setMessage(MessageSuccess, "Copied "+url)
}

// readerLayout returns the pane widths for the current terminal size.
func (a App) readerLayout() layout.ReaderLayout {
	showTOC := a.reader.ShowTOC && len(a.reader.TOC) > 0
	return layout.CalculateReaderLayout(a.width, showTOC, a.layoutConfig.Pane, a.layoutConfig.Reader)
}

// contentLines returns the page text wrapped to the content pane.
func (a App) contentLines() []string {
	return layout.WrapLines(a.reader.Content, a.readerLayout().ContentWidth)
}

// contentHeight is the number of text lines the content pane shows below
// its two header lines.
func (a App) contentHeight() int {
	return layout.CalculateVisibleHeight(layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane), 2)
}

func (a *App) scrollContent(delta int) {
	a.reader.Scroll = layout.ClampScroll(a.reader.Scroll+delta, len(a.contentLines()), a.contentHeight())
}

// currentTOCIndex returns the row of the section holding the open page:
// the last row whose page is not after it. -1 when none qualifies.
func currentTOCIndex(rows []resolver.TOCRow, page int) int {
	idx := -1
	for i, row := range rows {
		if row.Node.PageNumber != nil && *row.Node.PageNumber <= page {
			idx = i
		}
	}
	return idx
}
