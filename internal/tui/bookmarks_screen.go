package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/pbb/internal/bookmark"
	"github.com/nikbrunner/pbb/internal/model"
)

// bookmarkItems returns the stored bookmarks filtered and sorted for display.
func (a App) bookmarkItems() []model.Bookmark {
	return bookmark.Sort(bookmark.Filter(a.store.List(), a.bookmarks.FilterQuery), a.bookmarks.Order)
}

func (a *App) selectedBookmark() *model.Bookmark {
	items := a.bookmarkItems()
	if a.bookmarks.Cursor < 0 || a.bookmarks.Cursor >= len(items) {
		return nil
	}
	return &items[a.bookmarks.Cursor]
}

func (a *App) clampBookmarksCursor() {
	a.bookmarks.Cursor = clampIndex(a.bookmarks.Cursor, len(a.bookmarkItems()))
}

// bookFor returns the catalog entry of a bookmark, or a stand-in built from
// the stored title when the catalog has not loaded or lost the book.
func (a *App) bookFor(b *model.Bookmark) model.Book {
	if found := a.catalog.Find(b.BookID); found != nil {
		return *found
	}
	return model.Book{ID: b.BookID, Title: b.BookTitle}
}

func (a *App) handleBookmarksKey(msg tea.KeyMsg) tea.Cmd {
	s := &a.bookmarks
	n := len(a.bookmarkItems())

	switch {
	case key.Matches(msg, a.keys.Down):
		s.Cursor = clampIndex(s.Cursor+1, n)
	case key.Matches(msg, a.keys.Up):
		s.Cursor = clampIndex(s.Cursor-1, n)
	case key.Matches(msg, a.keys.Bottom):
		s.Cursor = clampIndex(n-1, n)
	case key.Matches(msg, a.keys.Sort):
		s.Order = s.Order.Next()
		s.Cursor = 0
		a.setMessage(MessageInfo, "Sorted by "+s.Order.String())
	case key.Matches(msg, a.keys.Filter):
		return a.startFilter()
	case key.Matches(msg, a.keys.Back):
		if s.FilterQuery != "" {
			s.ResetFilter()
		}
	case key.Matches(msg, a.keys.ClearAll):
		if len(a.store.List()) > 0 {
			a.modal.ResetInputs()
			a.mode = ModeConfirmClear
		}
	}

	b := a.selectedBookmark()
	if b == nil {
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Open):
		return a.openReader(a.bookFor(b), b.PageNumber)
	case key.Matches(msg, a.keys.Edit):
		a.modal.ResetInputs()
		a.modal.EditID = b.ID
		a.modal.NameInput.SetValue(b.CustomName)
		a.mode = ModeRename
		return a.modal.NameInput.Focus()
	case key.Matches(msg, a.keys.Delete):
		a.modal.ResetInputs()
		a.modal.DeleteID = b.ID
		a.mode = ModeConfirmDelete
	case key.Matches(msg, a.keys.OpenImage):
		a.openPageImage(b.BookID, b.PageNumber)
	case key.Matches(msg, a.keys.YankLink):
		a.copyReaderLink(b.BookID, b.PageNumber)
	}
	return nil
}
