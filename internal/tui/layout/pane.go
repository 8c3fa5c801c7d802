package layout

// ReaderLayout holds the outer widths of the reader panes. TOCWidth is 0
// when the terminal is too narrow to show the table of contents.
type ReaderLayout struct {
	TOCWidth     int
	ContentWidth int
}

// CalculatePaneHeight computes the content height for panes.
// Returns at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// CalculateReaderLayout splits the terminal width between the TOC and the
// page. Both widths exclude the pane frames.
func CalculateReaderLayout(terminalWidth int, showTOC bool, pane PaneConfig, cfg ReaderConfig) ReaderLayout {
	usable := terminalWidth - pane.AppPadding

	if !showTOC {
		return ReaderLayout{ContentWidth: max(usable-pane.FrameWidth, 1)}
	}

	toc := usable * cfg.TOCWidthPercent / 100
	toc = max(toc, cfg.MinTOCWidth)
	toc = min(toc, cfg.MaxTOCWidth)

	content := usable - toc - 2*pane.FrameWidth
	if content < cfg.MinContentWidth {
		return ReaderLayout{ContentWidth: max(usable-pane.FrameWidth, 1)}
	}

	return ReaderLayout{TOCWidth: toc, ContentWidth: content}
}

// CalculateItemWidth computes the width available for item content.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	return paneWidth - cfg.ContentPadding
}

// CalculateVisibleHeight computes the visible item count in a pane.
func CalculateVisibleHeight(paneHeight, headerLines int) int {
	height := paneHeight - headerLines
	if height < 1 {
		return 1
	}
	return height
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected item visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := max(selected-viewportHeight/2, 0)
	return min(offset, total-viewportHeight)
}

// ClampScroll keeps a free scroll offset (no cursor) inside the content.
func ClampScroll(offset, total, viewportHeight int) int {
	maxOffset := max(total-viewportHeight, 0)
	return max(min(offset, maxOffset), 0)
}
