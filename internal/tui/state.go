package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/pbb/internal/bookmark"
	"github.com/nikbrunner/pbb/internal/catalog"
	"github.com/nikbrunner/pbb/internal/model"
	"github.com/nikbrunner/pbb/internal/resolver"
	"github.com/nikbrunner/pbb/internal/tui/layout"
)

// Screen is one of the top-level views.
type Screen int

const (
	ScreenCatalog Screen = iota
	ScreenReader
	ScreenBookmarks
	ScreenGlossary
)

func (s Screen) String() string {
	switch s {
	case ScreenReader:
		return "Reader"
	case ScreenBookmarks:
		return "Bookmarks"
	case ScreenGlossary:
		return "Glossary"
	default:
		return "Catalog"
	}
}

// Mode is the input mode layered over the current screen.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeJump
	ModeNameBookmark
	ModeRename
	ModeConfirmDelete
	ModeConfirmClear
	ModeGlossaryInput
	ModeHelp
)

// ReaderPane identifies the focused pane of the reader.
type ReaderPane int

const (
	PaneContent ReaderPane = iota
	PaneTOC
)

// MessageType selects the style of the message line.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// CatalogState holds the book list and its letter tabs.
type CatalogState struct {
	Books   []model.Book
	Groups  catalog.Catalog
	Tabs    []string
	TabIdx  int
	Cursor  int
	Loading bool
	Err     error

	FilterInput textinput.Model
	FilterQuery string // Active filter query (persists after closing filter)
}

// NewCatalogState creates a CatalogState waiting for the first load.
func NewCatalogState(cfg layout.LayoutConfig) CatalogState {
	filterInput := textinput.New()
	filterInput.Placeholder = "Filter titles..."
	filterInput.CharLimit = cfg.Input.FilterCharLimit
	filterInput.Width = cfg.Input.FilterWidth

	return CatalogState{
		Loading:     true,
		Groups:      catalog.Catalog{},
		FilterInput: filterInput,
	}
}

// SetBooks replaces the book list and regroups it.
func (c *CatalogState) SetBooks(books []model.Book) {
	c.Books = books
	c.Groups = catalog.Group(books)
	c.Tabs = c.Groups.Tabs()
	c.TabIdx = 0
	c.Cursor = 0
	c.Loading = false
	c.Err = nil
}

// CurrentTab returns the selected tab key, or "" before books arrive.
func (c CatalogState) CurrentTab() string {
	if c.TabIdx < 0 || c.TabIdx >= len(c.Tabs) {
		return ""
	}
	return c.Tabs[c.TabIdx]
}

// Visible returns the books shown in the list: filter hits across all
// tabs while a filter is active, else the current tab.
func (c CatalogState) Visible() []model.Book {
	if c.FilterQuery != "" {
		return c.Groups.Filter(c.FilterQuery)
	}
	return c.Groups.Books(c.CurrentTab())
}

// Selected returns the book under the cursor, or nil.
func (c CatalogState) Selected() *model.Book {
	books := c.Visible()
	if c.Cursor < 0 || c.Cursor >= len(books) {
		return nil
	}
	return &books[c.Cursor]
}

// Find returns the catalog entry for id, or nil.
func (c CatalogState) Find(id model.BookID) *model.Book {
	for i := range c.Books {
		if c.Books[i].ID.Equal(id) {
			return &c.Books[i]
		}
	}
	return nil
}

// ResetFilter clears the local filter state.
func (c *CatalogState) ResetFilter() {
	c.FilterInput.Reset()
	c.FilterQuery = ""
	c.Cursor = 0
}

// ReaderState holds the open book, its page map and table of contents.
type ReaderState struct {
	Book  model.Book
	Page  int // 0 until the page list has arrived
	Pages []model.Page
	Total int

	TOC       []*model.TOCNode
	Expanded  map[int]bool
	TOCCursor int
	ShowTOC   bool
	Focus     ReaderPane

	Content    string
	ContentErr error
	Scroll     int

	LoadingPages   bool
	LoadingContent bool
	PendingPage    int // page requested before the page list arrived

	JumpInput textinput.Model
}

// NewReaderState creates an empty ReaderState.
func NewReaderState(cfg layout.LayoutConfig) ReaderState {
	jump := textinput.New()
	jump.Placeholder = "12 or xxvii"
	jump.CharLimit = cfg.Input.JumpCharLimit
	jump.Width = cfg.Input.JumpWidth

	return ReaderState{
		Expanded:  make(map[int]bool),
		ShowTOC:   true,
		JumpInput: jump,
	}
}

// Open resets the reader for book, keeping the inputs.
func (r *ReaderState) Open(book model.Book, page int) {
	r.Book = book
	r.Page = 0
	r.Pages = nil
	r.Total = 0
	r.TOC = nil
	r.Expanded = make(map[int]bool)
	r.TOCCursor = 0
	r.Focus = PaneContent
	r.Content = ""
	r.ContentErr = nil
	r.Scroll = 0
	r.LoadingPages = true
	r.LoadingContent = false
	r.PendingPage = page
}

// Ready reports whether the page list has arrived.
func (r ReaderState) Ready() bool {
	return !r.LoadingPages && r.Page > 0
}

// Rows returns the visible table of contents rows.
func (r ReaderState) Rows() []resolver.TOCRow {
	return resolver.FlattenTOC(r.TOC, r.Expanded)
}

// Label returns the printed label of the current page.
func (r ReaderState) Label() string {
	return resolver.PageLabel(r.Pages, r.Page)
}

// BookmarksState holds the bookmarks screen list state.
type BookmarksState struct {
	Cursor int
	Order  bookmark.SortOrder

	FilterInput textinput.Model
	FilterQuery string
}

// NewBookmarksState creates a BookmarksState sorted newest first.
func NewBookmarksState(cfg layout.LayoutConfig) BookmarksState {
	filterInput := textinput.New()
	filterInput.Placeholder = "Filter bookmarks..."
	filterInput.CharLimit = cfg.Input.FilterCharLimit
	filterInput.Width = cfg.Input.FilterWidth

	return BookmarksState{
		Order:       bookmark.SortNewest,
		FilterInput: filterInput,
	}
}

// ResetFilter clears the local filter state.
func (b *BookmarksState) ResetFilter() {
	b.FilterInput.Reset()
	b.FilterQuery = ""
	b.Cursor = 0
}

// GlossaryState holds the glossary query and its results.
type GlossaryState struct {
	Input   textinput.Model
	Query   string
	Terms   []model.GlossaryTerm
	Total   int
	Cursor  int
	Loading bool
	Err     error
}

// NewGlossaryState creates an empty GlossaryState.
func NewGlossaryState(cfg layout.LayoutConfig) GlossaryState {
	input := textinput.New()
	input.Placeholder = "Search the glossary..."
	input.CharLimit = cfg.Input.QueryCharLimit
	input.Width = cfg.Input.StandardWidth

	return GlossaryState{Input: input}
}

// Selected returns the term under the cursor, or nil.
func (g GlossaryState) Selected() *model.GlossaryTerm {
	if g.Cursor < 0 || g.Cursor >= len(g.Terms) {
		return nil
	}
	return &g.Terms[g.Cursor]
}

// ModalState holds state for the name, rename and confirm modals.
type ModalState struct {
	NameInput textinput.Model
	EditID    string // bookmark being renamed
	DeleteID  string // bookmark pending deletion
}

// NewModalState creates a new ModalState with initialized inputs.
func NewModalState(cfg layout.LayoutConfig) ModalState {
	nameInput := textinput.New()
	nameInput.Placeholder = "Bookmark name"
	nameInput.CharLimit = cfg.Input.NameCharLimit
	nameInput.Width = cfg.Input.StandardWidth

	return ModalState{NameInput: nameInput}
}

// ResetInputs clears all modal inputs for a new modal session.
func (m *ModalState) ResetInputs() {
	m.NameInput.Reset()
	m.NameInput.Blur()
	m.EditID = ""
	m.DeleteID = ""
}
