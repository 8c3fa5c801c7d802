package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (a *App) handleBooksLoaded(msg booksLoadedMsg) {
	if msg.err != nil {
		a.catalog.Loading = false
		a.catalog.Err = msg.err
		a.log.Error("loading catalog", "error", msg.err)
		a.setMessage(MessageError, "Loading catalog failed: "+msg.err.Error())
		return
	}
	a.log.Debug("catalog loaded", "books", len(msg.books))
	a.catalog.SetBooks(msg.books)

	// A book opened from a bookmark only knows the stored title.
	if a.reader.Book.ID.IsZero() {
		return
	}
	if found := a.catalog.Find(a.reader.Book.ID); found != nil {
		a.reader.Book = *found
	}
}

func (a *App) handleCatalogKey(msg tea.KeyMsg) tea.Cmd {
	c := &a.catalog
	books := c.Visible()

	switch {
	case key.Matches(msg, a.keys.Down):
		c.Cursor = clampIndex(c.Cursor+1, len(books))
	case key.Matches(msg, a.keys.Up):
		c.Cursor = clampIndex(c.Cursor-1, len(books))
	case key.Matches(msg, a.keys.Bottom):
		c.Cursor = clampIndex(len(books)-1, len(books))
	case key.Matches(msg, a.keys.Right):
		if c.FilterQuery == "" && c.TabIdx < len(c.Tabs)-1 {
			c.TabIdx++
			c.Cursor = 0
		}
	case key.Matches(msg, a.keys.Left):
		if c.FilterQuery == "" && c.TabIdx > 0 {
			c.TabIdx--
			c.Cursor = 0
		}
	case key.Matches(msg, a.keys.Filter):
		return a.startFilter()
	case key.Matches(msg, a.keys.Back):
		if c.FilterQuery != "" {
			c.ResetFilter()
		}
	case key.Matches(msg, a.keys.Open):
		if book := c.Selected(); book != nil {
			return a.openReader(*book, 0)
		}
	}
	return nil
}
