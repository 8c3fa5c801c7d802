package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/pbb/internal/model"
	"github.com/nikbrunner/pbb/internal/tui/layout"
)

// renderView creates the complete view for the active screen.
func (a App) renderView() string {
	switch a.mode {
	case ModeHelp:
		return a.renderHelpOverlay()
	case ModeJump, ModeNameBookmark, ModeRename, ModeConfirmDelete, ModeConfirmClear:
		return a.renderModal()
	}

	var body string
	switch a.screen {
	case ScreenReader:
		body = a.renderReader()
	case ScreenBookmarks:
		body = a.renderBookmarks()
	case ScreenGlossary:
		body = a.renderGlossary()
	default:
		body = a.renderCatalog()
	}

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, a.renderBreadcrumb(), body, a.renderHelpBar()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderBreadcrumb renders the screen tabs and, in the reader, the open book.
func (a App) renderBreadcrumb() string {
	tabs := []struct {
		screen Screen
		label  string
	}{
		{ScreenCatalog, "1 Catalog"},
		{ScreenBookmarks, "2 Bookmarks"},
		{ScreenGlossary, "3 Glossary"},
	}

	parts := make([]string, 0, len(tabs)+1)
	for _, t := range tabs {
		if t.screen == a.screen {
			parts = append(parts, a.styles.TabActive.Render(t.label))
		} else {
			parts = append(parts, a.styles.Tab.Render(t.label))
		}
	}
	line := strings.Join(parts, "")

	if a.screen == ScreenReader {
		title := a.reader.Book.DisplayTitle()
		if a.reader.Ready() {
			title += " · " + a.reader.Label()
		}
		available := a.width - a.layoutConfig.Pane.AppPadding - layout.VisibleLength(line) - 3
		title, _ = layout.TruncateText(title, available, a.layoutConfig.Text)
		line += a.styles.Breadcrumb.Render("› " + title)
	}
	return line
}

// paneSize returns the inner width and height of a full-width pane that
// sits below extraLines of screen chrome.
func (a App) paneSize(extraLines int) (width, height int) {
	width = max(a.width-a.layoutConfig.Pane.AppPadding-a.layoutConfig.Pane.FrameWidth, 1)
	height = max(layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)-extraLines, 1)
	return width, height
}

func (a App) renderPane(content string, width, height int, active bool) string {
	style := a.styles.Pane
	if active {
		style = a.styles.PaneActive
	}
	return style.Width(width + 2).Height(height).Render(strings.TrimRight(content, "\n"))
}

// renderRow renders a list row, highlighted when it holds the cursor.
func (a App) renderRow(line string, selected bool, width int) string {
	if selected {
		return a.styles.ItemSelected.Render(layout.PadRight(line, width))
	}
	return a.styles.Item.Render(line)
}

// renderLetterBar renders the catalog's alphabet tabs.
func (a App) renderLetterBar() string {
	c := a.catalog
	if c.FilterQuery != "" || a.mode == ModeFilter {
		if a.mode == ModeFilter {
			return "/" + c.FilterInput.View()
		}
		return a.styles.Meta.Render("/" + c.FilterQuery)
	}

	parts := make([]string, len(c.Tabs))
	for i, tab := range c.Tabs {
		if i == c.TabIdx {
			parts[i] = a.styles.Title.Render("[" + tab + "]")
		} else {
			parts[i] = a.styles.Meta.Render(tab)
		}
	}
	return " " + strings.Join(parts, " ") + a.styles.Meta.Render(fmt.Sprintf("  %d books", c.Groups.Len()))
}

func (a App) renderCatalog() string {
	width, height := a.paneSize(1)
	itemWidth := layout.CalculateItemWidth(width+2, a.layoutConfig.Pane)
	c := a.catalog

	var content strings.Builder
	books := c.Visible()

	switch {
	case c.Loading:
		content.WriteString(a.styles.Empty.Render("Loading catalog..."))
	case c.Err != nil:
		content.WriteString(a.styles.Empty.Render("(catalog unavailable)"))
	case len(books) == 0 && c.FilterQuery != "":
		content.WriteString(a.styles.Empty.Render("(no matches)"))
	case len(books) == 0:
		content.WriteString(a.styles.Empty.Render("(no books)"))
	default:
		marked := a.bookmarkCounts()
		offset := layout.CalculateViewportOffset(c.Cursor, len(books), height)
		for i := offset; i < len(books) && i < offset+height; i++ {
			content.WriteString(a.renderBookRow(books[i], marked[books[i].ID.String()], i == c.Cursor, itemWidth) + "\n")
		}
	}

	pane := a.renderPane(content.String(), width, height, true)
	return lipgloss.JoinVertical(lipgloss.Left, a.renderLetterBar(), pane)
}

// bookmarkCounts returns the number of bookmarks per book id.
func (a App) bookmarkCounts() map[string]int {
	counts := make(map[string]int)
	for _, b := range a.store.List() {
		counts[strings.TrimSpace(b.BookID.String())]++
	}
	return counts
}

func (a App) renderBookRow(book model.Book, marks int, selected bool, width int) string {
	suffix := ""
	if book.Author != "" {
		suffix = "  " + book.Author
	}
	prefix := "  "
	if marks > 0 {
		prefix = "★ "
	}
	line, _ := layout.TruncateWithPrefixSuffix(book.DisplayTitle(), width, prefix, suffix, a.layoutConfig.Text)
	return a.renderRow(line, selected, width)
}

func (a App) renderReader() string {
	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	rl := a.readerLayout()

	contentPane := a.renderContentPane(rl.ContentWidth, paneHeight)
	if rl.TOCWidth == 0 {
		return contentPane
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, a.renderTOCPane(rl.TOCWidth, paneHeight), contentPane)
}

func (a App) renderTOCPane(width, height int) string {
	r := a.reader
	var content strings.Builder
	content.WriteString(a.styles.Title.Render("Contents") + "\n")

	visible := layout.CalculateVisibleHeight(height, 1)
	itemWidth := layout.CalculateItemWidth(width+2, a.layoutConfig.Pane)
	rows := r.Rows()
	current := currentTOCIndex(rows, r.Page)
	offset := layout.CalculateViewportOffset(r.TOCCursor, len(rows), visible)

	for i := offset; i < len(rows) && i < offset+visible; i++ {
		row := rows[i]
		marker := "  "
		if row.Node.HasChildren() {
			marker = "▸ "
			if r.Expanded[row.Node.ID] {
				marker = "▾ "
			}
		}
		prefix := strings.Repeat("  ", row.Depth) + marker
		line, _ := layout.TruncateWithPrefixSuffix(row.Node.Label, itemWidth, prefix, "", a.layoutConfig.Text)

		switch {
		case r.Focus == PaneTOC && i == r.TOCCursor:
			content.WriteString(a.renderRow(line, true, itemWidth) + "\n")
		case i == current:
			content.WriteString(a.styles.Marked.Render(" "+line) + "\n")
		default:
			content.WriteString(a.renderRow(line, false, itemWidth) + "\n")
		}
	}

	return a.renderPane(content.String(), width, height, r.Focus == PaneTOC)
}

func (a App) renderContentPane(width, height int) string {
	r := a.reader
	var content strings.Builder

	title, _ := layout.TruncateText(r.Book.DisplayTitle(), width, a.layoutConfig.Text)
	content.WriteString(a.styles.Title.Render(title) + "\n")

	switch {
	case r.LoadingPages:
		content.WriteString(a.styles.Empty.Render("Loading pages..."))
		return a.renderPane(content.String(), width, height, r.Focus == PaneContent)
	case !r.Ready():
		content.WriteString(a.styles.Empty.Render("(book unavailable)"))
		return a.renderPane(content.String(), width, height, r.Focus == PaneContent)
	}

	status := fmt.Sprintf("p. %s (%d/%d)", r.Label(), r.Page, r.Total)
	if r.Page > r.Total {
		status = fmt.Sprintf("p. %s (%d)", r.Label(), r.Page)
	}
	if b := a.store.IsBookmarked(r.Book.ID, r.Page); b != nil {
		status += a.styles.Marked.Render("  ★ " + b.DisplayName())
	}
	content.WriteString(a.styles.Meta.Render(status) + "\n")

	switch {
	case r.LoadingContent:
		content.WriteString(a.styles.Empty.Render("Loading page..."))
	case r.ContentErr != nil:
		content.WriteString(a.styles.Empty.Render("Could not load page: " + r.ContentErr.Error()))
	case strings.TrimSpace(r.Content) == "":
		content.WriteString(a.styles.Empty.Render("(no text for this page, press o for the scan)"))
	default:
		lines := a.contentLines()
		visible := a.contentHeight()
		start := layout.ClampScroll(r.Scroll, len(lines), visible)
		end := min(start+visible, len(lines))
		content.WriteString(a.styles.Content.Render(strings.Join(lines[start:end], "\n")))
	}

	return a.renderPane(content.String(), width, height, r.Focus == PaneContent)
}

func (a App) renderBookmarks() string {
	width, height := a.paneSize(1)
	itemWidth := layout.CalculateItemWidth(width+2, a.layoutConfig.Pane)
	s := a.bookmarks
	items := a.bookmarkItems()

	header := a.styles.Meta.Render(" Sort: " + s.Order.String())
	if a.mode == ModeFilter {
		header += "  /" + s.FilterInput.View()
	} else if s.FilterQuery != "" {
		header += a.styles.Meta.Render("  /" + s.FilterQuery)
	}

	var content strings.Builder
	switch {
	case len(items) == 0 && s.FilterQuery != "":
		content.WriteString(a.styles.Empty.Render("(no matches)"))
	case len(items) == 0:
		content.WriteString(a.styles.Empty.Render("(no bookmarks, press b while reading)"))
	default:
		offset := layout.CalculateViewportOffset(s.Cursor, len(items), height)
		for i := offset; i < len(items) && i < offset+height; i++ {
			b := items[i]
			suffix := "  " + b.CreatedAt.Local().Format("2006-01-02")
			name := b.DisplayName()
			if b.CustomName != "" {
				name += " (" + model.DefaultBookmarkName(b.BookTitle, b.PageNumber) + ")"
			}
			line, _ := layout.TruncateWithPrefixSuffix(name, itemWidth, "★ ", suffix, a.layoutConfig.Text)
			content.WriteString(a.renderRow(line, i == s.Cursor, itemWidth) + "\n")
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, a.renderPane(content.String(), width, height, true))
}

func (a App) renderGlossary() string {
	g := a.glossary

	var input string
	if a.mode == ModeGlossaryInput {
		input = " " + g.Input.View()
	} else if g.Query != "" {
		count := fmt.Sprintf("  %d of %d", len(g.Terms), g.Total)
		input = a.styles.Meta.Render(" Search: " + g.Query + count)
	} else {
		input = a.styles.Meta.Render(" Press i to search the glossary")
	}

	split := layout.CalculateSplitLayout(a.width-a.layoutConfig.Pane.AppPadding, a.height, a.layoutConfig.Split)
	listWidth := max(split.ListWidth-a.layoutConfig.Pane.FrameWidth, 1)
	previewWidth := max(split.PreviewWidth-a.layoutConfig.Pane.FrameWidth, 1)
	height := split.ListHeight

	var list strings.Builder
	switch {
	case g.Loading:
		list.WriteString(a.styles.Empty.Render("Searching..."))
	case g.Err != nil:
		list.WriteString(a.styles.Empty.Render("(no results)"))
	case len(g.Terms) == 0 && g.Query != "":
		list.WriteString(a.styles.Empty.Render("(no entries)"))
	default:
		start, end := layout.CalculateVisibleListItems(height, g.Cursor, len(g.Terms))
		for i := start; i < end; i++ {
			line, _ := layout.TruncateText(g.Terms[i].Term, listWidth-2, a.layoutConfig.Text)
			list.WriteString(a.renderRow(line, i == g.Cursor, listWidth-2) + "\n")
		}
	}

	var preview strings.Builder
	if term := g.Selected(); term != nil && !g.Loading {
		preview.WriteString(a.styles.Title.Render(term.Term) + "\n")
		if term.BookName != "" {
			preview.WriteString(a.styles.Meta.Render(term.BookName) + "\n")
		}
		preview.WriteString("\n")
		lines := layout.WrapLines(term.Description, previewWidth)
		if len(lines) > height-3 {
			lines = lines[:max(height-3, 0)]
		}
		preview.WriteString(a.styles.Content.Render(strings.Join(lines, "\n")))
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		a.renderPane(list.String(), listWidth, height, true),
		a.renderPane(preview.String(), previewWidth, height, false),
	)
	return lipgloss.JoinVertical(lipgloss.Left, input, panes)
}

// renderModal renders the active modal centered above the help bar.
func (a App) renderModal() string {
	var title, content strings.Builder

	accent := lipgloss.AdaptiveColor{Light: "#9A5B13", Dark: "#D08C3C"}
	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.DefaultWidthPercent, a.layoutConfig.Modal)
	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(modalWidth)

	switch a.mode {
	case ModeJump:
		title.WriteString("Go to Page\n\n")
		content.WriteString(a.reader.JumpInput.View())
		content.WriteString("\n\n")
		content.WriteString(a.styles.Meta.Render(fmt.Sprintf("1-%d or a printed label", a.reader.Total)))

	case ModeNameBookmark:
		title.WriteString("Name Bookmark\n\n")
		content.WriteString(a.styles.Meta.Render(model.DefaultBookmarkName(a.reader.Book.DisplayTitle(), a.reader.Page)))
		content.WriteString("\n\n")
		content.WriteString(a.modal.NameInput.View())

	case ModeRename:
		title.WriteString("Rename Bookmark\n\n")
		content.WriteString("Name (empty for default):\n")
		content.WriteString(a.modal.NameInput.View())

	case ModeConfirmDelete:
		title.WriteString("Delete Bookmark\n\n")
		name := a.modal.DeleteID
		for _, b := range a.store.List() {
			if b.ID == a.modal.DeleteID {
				name = b.DisplayName()
				break
			}
		}
		content.WriteString(fmt.Sprintf("Delete %q?", name))

	case ModeConfirmClear:
		title.WriteString("Clear Bookmarks\n\n")
		content.WriteString(fmt.Sprintf("Delete all %d bookmarks?", len(a.store.List())))
	}

	content.WriteString("\n\n")
	content.WriteString(a.renderHintsInline(a.getModalHints()))

	modal := lipgloss.Place(
		a.width,
		a.height-3,
		lipgloss.Center,
		lipgloss.Center,
		modalStyle.Render(a.styles.Title.Render(strings.TrimRight(title.String(), "\n"))+"\n\n"+content.String()),
	)

	return lipgloss.JoinVertical(lipgloss.Left, modal, a.renderHelpBar())
}

func (a App) renderHelpBar() string {
	var lines []string

	// Line 1: Empty spacer OR message (message replaces the gap)
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	// Line 2: Local (contextual) keyboard hints
	if localHints := a.renderHints(a.getContextualHints()); localHints != "" {
		lines = append(lines, a.styles.HintLabel.Render("Local  ")+localHints)
	}

	// Line 3: Global keyboard hints (only in normal mode)
	if a.mode == ModeNormal {
		lines = append(lines, a.styles.HintLabel.Render("Global ")+a.renderHintSlice(a.getGlobalHints()))
	}

	return strings.Join(lines, "\n")
}

// renderMessageLine renders the styled message with prefix icon based on type.
func (a App) renderMessageLine() string {
	var msgStyle lipgloss.Style
	var prefix string

	switch a.messageType {
	case MessageError:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC3333", Dark: "#FF6666"}).
			Bold(true)
		prefix = "✗ "
	case MessageWarning:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"}).
			Bold(true)
		prefix = "⚠ "
	case MessageSuccess:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#338833", Dark: "#66CC66"}).
			Bold(true)
		prefix = "✓ "
	default: // MessageInfo
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#9A5B13", Dark: "#D08C3C"}).
			Bold(true)
	}

	return msgStyle.Render(prefix + a.messageText)
}

// renderHelpOverlay renders the key reference.
func (a App) renderHelpOverlay() string {
	modalStyle := lipgloss.NewStyle().
		Padding(1, 2)

	// Left column: navigation and reader
	var left strings.Builder
	left.WriteString(a.styles.Title.Render("nav") + "\n")
	left.WriteString("j/k    move / scroll\n")
	left.WriteString("h/l    letter / fold\n")
	left.WriteString("gg/G   top / bottom\n")
	left.WriteString("Enter  open\n")
	left.WriteString("Esc    back\n")
	left.WriteString("/      filter\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("reader") + "\n")
	left.WriteString("n/p    next / prev page\n")
	left.WriteString("g      go to page\n")
	left.WriteString("Tab    contents pane\n")
	left.WriteString("t      toggle contents\n")
	left.WriteString("o      open scan\n")
	left.WriteString("Y      copy link\n")

	// Right column: bookmarks and screens
	var right strings.Builder
	right.WriteString(a.styles.Title.Render("bookmarks") + "\n")
	right.WriteString("b      toggle bookmark\n")
	right.WriteString("B      named bookmark\n")
	right.WriteString("s      cycle sort\n")
	right.WriteString("e      rename\n")
	right.WriteString("d      delete\n")
	right.WriteString("D      clear all\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Title.Render("screens") + "\n")
	right.WriteString("1      catalog\n")
	right.WriteString("2      bookmarks\n")
	right.WriteString("3      glossary\n")
	right.WriteString("i      glossary search\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Help.Render("[?/esc] close  [q] quit"))

	leftCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpLeftColumnWidth + 4).Render(left.String())
	rightCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpRightColumnWidth).Render(right.String())
	cols := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Left,
		lipgloss.Top,
		modalStyle.Render(cols),
	)
}
