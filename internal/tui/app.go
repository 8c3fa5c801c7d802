package tui

import (
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/pbb/internal/bookmark"
	"github.com/nikbrunner/pbb/internal/logger"
	"github.com/nikbrunner/pbb/internal/model"
	"github.com/nikbrunner/pbb/internal/tui/layout"
)

// DefaultRequestTimeout bounds each library call made by the TUI.
const DefaultRequestTimeout = 10 * time.Second

// App is the main bubbletea model for the library reader.
type App struct {
	library      Library
	store        *bookmark.Store
	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig
	log          *slog.Logger
	timeout      time.Duration
	copyText     func(string) error
	openURL      func(string) error

	screen   Screen
	returnTo Screen // screen Esc leaves the reader for
	mode     Mode

	catalog   CatalogState
	reader    ReaderState
	bookmarks BookmarksState
	glossary  GlossaryState
	modal     ModalState

	startBook *model.Book
	startPage int

	// For gg command
	lastKeyWasG bool

	messageText string
	messageType MessageType

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Library        Library
	Store          *bookmark.Store
	Keys           *KeyMap              // optional, uses default if nil
	Styles         *Styles              // optional, uses default if nil
	LayoutConfig   *layout.LayoutConfig // optional, uses default if nil
	Logger         *slog.Logger         // optional, discards if nil
	RequestTimeout time.Duration        // optional, DefaultRequestTimeout if zero
	Clipboard      func(string) error   // optional, system clipboard if nil
	OpenURL        func(string) error   // optional, system browser if nil

	// StartBook opens the reader at StartPage (0 = first page) on launch.
	StartBook *model.Book
	StartPage int
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutConfig := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutConfig = *params.LayoutConfig
	}

	log := params.Logger
	if log == nil {
		log = logger.Discard()
	}

	timeout := params.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	copyText := params.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	openURL := params.OpenURL
	if openURL == nil {
		openURL = OpenURL
	}

	return App{
		library:      params.Library,
		store:        params.Store,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutConfig,
		log:          log,
		timeout:      timeout,
		copyText:     copyText,
		openURL:      openURL,
		screen:       ScreenCatalog,
		returnTo:     ScreenCatalog,
		catalog:      NewCatalogState(layoutConfig),
		reader:       NewReaderState(layoutConfig),
		bookmarks:    NewBookmarksState(layoutConfig),
		glossary:     NewGlossaryState(layoutConfig),
		modal:        NewModalState(layoutConfig),
		startBook:    params.StartBook,
		startPage:    params.StartPage,
		width:        80,
		height:       24,
	}
}

// OpenURL opens a URL in the default browser.
func OpenURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// WithDimensions returns a copy of the app sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Screen returns the active screen.
func (a App) Screen() Screen {
	return a.screen
}

// Mode returns the active input mode.
func (a App) Mode() Mode {
	return a.mode
}

// Message returns the text of the message line.
func (a App) Message() string {
	return a.messageText
}

// Catalog returns the catalog screen state.
func (a App) Catalog() CatalogState {
	return a.catalog
}

// Reader returns the reader screen state.
func (a App) Reader() ReaderState {
	return a.reader
}

// Glossary returns the glossary screen state.
func (a App) Glossary() GlossaryState {
	return a.glossary
}

// BookmarksCursor returns the cursor of the bookmarks screen.
func (a App) BookmarksCursor() int {
	return a.bookmarks.Cursor
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadBooksCmd()}
	if a.startBook != nil {
		cmds = append(cmds, a.loadPagesCmd(a.startBook.ID), a.loadTOCCmd(a.startBook.ID))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case booksLoadedMsg:
		a.handleBooksLoaded(msg)
		return a, nil

	case pagesLoadedMsg:
		a.startIfPending(msg.bookID)
		return a, a.handlePagesLoaded(msg)

	case tocLoadedMsg:
		a.startIfPending(msg.bookID)
		a.handleTOCLoaded(msg)
		return a, nil

	case contentLoadedMsg:
		a.handleContentLoaded(msg)
		return a, nil

	case glossaryLoadedMsg:
		a.handleGlossaryLoaded(msg)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, a.updateActiveInput(msg)
}

// startIfPending switches to the reader the first time the start book's
// data arrives. Init cannot keep state because it has a value receiver.
func (a *App) startIfPending(id model.BookID) {
	if a.startBook == nil || !a.startBook.ID.Equal(id) {
		return
	}
	if !a.reader.Book.ID.Equal(id) {
		book := *a.startBook
		if found := a.catalog.Find(id); found != nil {
			book = *found
		}
		a.reader.Open(book, a.startPage)
	}
	a.screen = ScreenReader
	a.returnTo = ScreenBookmarks
	a.startBook = nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return *a, tea.Quit
	}

	switch a.mode {
	case ModeHelp:
		if key.Matches(msg, a.keys.Help, a.keys.Quit, a.keys.Back) {
			a.mode = ModeNormal
		}
		return *a, nil
	case ModeFilter:
		return *a, a.handleFilterKey(msg)
	case ModeJump:
		return *a, a.handleJumpKey(msg)
	case ModeNameBookmark, ModeRename:
		return *a, a.handleNameKey(msg)
	case ModeConfirmDelete, ModeConfirmClear:
		a.handleConfirmKey(msg)
		return *a, nil
	case ModeGlossaryInput:
		return *a, a.handleGlossaryInputKey(msg)
	}

	a.clearMessage()

	// Handle gg sequence on list screens; the reader uses g for page jumps.
	if a.screen != ScreenReader && key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.lastKeyWasG = false
			a.moveCursorTo(0)
			return *a, nil
		}
		a.lastKeyWasG = true
		return *a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return *a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
		return *a, nil
	case key.Matches(msg, a.keys.ShowCatalog):
		a.screen = ScreenCatalog
		return *a, nil
	case key.Matches(msg, a.keys.ShowBookmarks):
		a.screen = ScreenBookmarks
		a.clampBookmarksCursor()
		return *a, nil
	case key.Matches(msg, a.keys.ShowGlossary):
		a.screen = ScreenGlossary
		if a.glossary.Query == "" {
			return *a, a.focusGlossaryInput()
		}
		return *a, nil
	}

	switch a.screen {
	case ScreenReader:
		return *a, a.handleReaderKey(msg)
	case ScreenBookmarks:
		return *a, a.handleBookmarksKey(msg)
	case ScreenGlossary:
		return *a, a.handleGlossaryKey(msg)
	default:
		return *a, a.handleCatalogKey(msg)
	}
}

// moveCursorTo sets the list cursor of the current screen.
func (a *App) moveCursorTo(idx int) {
	switch a.screen {
	case ScreenCatalog:
		a.catalog.Cursor = clampIndex(idx, len(a.catalog.Visible()))
	case ScreenBookmarks:
		a.bookmarks.Cursor = clampIndex(idx, len(a.bookmarkItems()))
	case ScreenGlossary:
		a.glossary.Cursor = clampIndex(idx, len(a.glossary.Terms))
	}
}

// clampIndex keeps idx inside [0, n-1], or 0 for an empty list.
func clampIndex(idx, n int) int {
	if n == 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// handleFilterKey drives the filter input of the catalog or bookmarks screen.
func (a *App) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	input := &a.catalog.FilterInput
	query := &a.catalog.FilterQuery
	cursor := &a.catalog.Cursor
	if a.screen == ScreenBookmarks {
		input = &a.bookmarks.FilterInput
		query = &a.bookmarks.FilterQuery
		cursor = &a.bookmarks.Cursor
	}

	switch msg.Type {
	case tea.KeyEsc:
		input.Reset()
		input.Blur()
		*query = ""
		*cursor = 0
		a.mode = ModeNormal
		return nil
	case tea.KeyEnter:
		input.Blur()
		*query = strings.TrimSpace(input.Value())
		a.mode = ModeNormal
		return nil
	}

	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	*query = strings.TrimSpace(input.Value())
	*cursor = 0
	return cmd
}

func (a *App) startFilter() tea.Cmd {
	a.mode = ModeFilter
	if a.screen == ScreenBookmarks {
		a.bookmarks.FilterInput.SetValue(a.bookmarks.FilterQuery)
		return a.bookmarks.FilterInput.Focus()
	}
	a.catalog.FilterInput.SetValue(a.catalog.FilterQuery)
	return a.catalog.FilterInput.Focus()
}

// handleConfirmKey answers the delete and clear-all confirmations.
func (a *App) handleConfirmKey(msg tea.KeyMsg) {
	confirmed := msg.Type == tea.KeyEnter || (msg.Type == tea.KeyRunes && strings.EqualFold(string(msg.Runes), "y"))
	cancelled := msg.Type == tea.KeyEsc || (msg.Type == tea.KeyRunes && strings.EqualFold(string(msg.Runes), "n"))

	switch {
	case confirmed && a.mode == ModeConfirmDelete:
		if a.store.Delete(a.modal.DeleteID) {
			a.setMessage(MessageSuccess, "Bookmark deleted")
		} else {
			a.setMessage(MessageError, "Could not delete bookmark")
		}
	case confirmed && a.mode == ModeConfirmClear:
		if a.store.ClearAll() {
			a.setMessage(MessageSuccess, "All bookmarks cleared")
		} else {
			a.setMessage(MessageError, "Could not clear bookmarks")
		}
	case cancelled:
	default:
		return
	}

	a.modal.ResetInputs()
	a.mode = ModeNormal
	a.clampBookmarksCursor()
}

// updateActiveInput forwards non-key messages (cursor blink) to the focused input.
func (a *App) updateActiveInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.mode {
	case ModeFilter:
		if a.screen == ScreenBookmarks {
			a.bookmarks.FilterInput, cmd = a.bookmarks.FilterInput.Update(msg)
		} else {
			a.catalog.FilterInput, cmd = a.catalog.FilterInput.Update(msg)
		}
	case ModeJump:
		a.reader.JumpInput, cmd = a.reader.JumpInput.Update(msg)
	case ModeNameBookmark, ModeRename:
		a.modal.NameInput, cmd = a.modal.NameInput.Update(msg)
	case ModeGlossaryInput:
		a.glossary.Input, cmd = a.glossary.Input.Update(msg)
	}
	return cmd
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.messageText = text
}

func (a *App) clearMessage() {
	a.messageText = ""
	a.messageType = MessageInfo
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
