package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for bottom bar: "j/k:move n:next p:prev"
func (a App) renderHints(hints HintSet) string {
	return a.renderHintSlice(hints.All())
}

// renderHintSlice renders a slice of hints in horizontal format.
func (a App) renderHintSlice(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for modals: "Enter confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (j/k, h/l, etc.)
	Edit   []Hint // Edit hints (b, e, d, etc.)
	Action []Hint // Action hints (Enter, Tab, etc.)
	System []Hint // System hints (?, q, Esc)
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeNormal:
		switch a.screen {
		case ScreenReader:
			return a.getReaderHints()
		case ScreenBookmarks:
			return a.getBookmarksHints()
		case ScreenGlossary:
			return a.getGlossaryHints()
		default:
			return a.getCatalogHints()
		}
	case ModeFilter:
		return HintSet{
			Nav:    []Hint{{Key: "type", Desc: "filter"}},
			Action: []Hint{{Key: "Enter", Desc: "apply"}},
			System: []Hint{{Key: "Esc", Desc: "clear"}},
		}
	case ModeGlossaryInput:
		return HintSet{
			Action: []Hint{{Key: "Enter", Desc: "search"}},
			System: []Hint{{Key: "Esc", Desc: "cancel"}},
		}
	case ModeHelp:
		// Help overlay covers screen, minimal hints
		return HintSet{
			System: []Hint{{Key: "?/q/Esc", Desc: "close"}},
		}
	default:
		// Modals show their own hints.
		return HintSet{}
	}
}

func (a App) getCatalogHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "h/l", Desc: "letter"},
		},
		Action: []Hint{
			{Key: "Enter", Desc: "read"},
			{Key: "/", Desc: "filter"},
		},
		System: []Hint{
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
}

func (a App) getReaderHints() HintSet {
	hints := HintSet{
		Nav: []Hint{
			{Key: "n/p", Desc: "page"},
			{Key: "g", Desc: "go to"},
		},
		Action: []Hint{
			{Key: "o", Desc: "image"},
			{Key: "Y", Desc: "link"},
		},
		Edit: []Hint{
			{Key: "b", Desc: "mark"},
			{Key: "B", Desc: "name"},
		},
		System: []Hint{
			{Key: "Esc", Desc: "back"},
			{Key: "?", Desc: "help"},
		},
	}
	if len(a.reader.TOC) > 0 {
		hints.Nav = append(hints.Nav, Hint{Key: "Tab", Desc: "contents"})
	}
	if a.reader.Focus == PaneTOC {
		hints.Nav = append([]Hint{{Key: "j/k", Desc: "move"}, {Key: "h/l", Desc: "fold"}}, hints.Nav...)
	} else {
		hints.Nav = append([]Hint{{Key: "j/k", Desc: "scroll"}}, hints.Nav...)
	}
	return hints
}

func (a App) getBookmarksHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
		},
		Action: []Hint{
			{Key: "Enter", Desc: "read"},
			{Key: "s", Desc: "sort"},
			{Key: "/", Desc: "filter"},
		},
		Edit: []Hint{
			{Key: "e", Desc: "rename"},
			{Key: "d", Desc: "del"},
			{Key: "D", Desc: "clear"},
		},
		System: []Hint{
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
}

func (a App) getGlossaryHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
		},
		Action: []Hint{
			{Key: "i", Desc: "search"},
		},
		System: []Hint{
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
}

// getGlobalHints returns the screen switching hints.
func (a App) getGlobalHints() []Hint {
	return []Hint{
		{Key: "1", Desc: "catalog"},
		{Key: "2", Desc: "bookmarks"},
		{Key: "3", Desc: "glossary"},
	}
}

// getModalHints returns the hints shown inside a modal.
func (a App) getModalHints() []Hint {
	switch a.mode {
	case ModeConfirmDelete, ModeConfirmClear:
		return []Hint{{Key: "y/Enter", Desc: "confirm"}, {Key: "n/Esc", Desc: "cancel"}}
	case ModeJump:
		return []Hint{{Key: "Enter", Desc: "go"}, {Key: "Esc", Desc: "cancel"}}
	default:
		return []Hint{{Key: "Enter", Desc: "save"}, {Key: "Esc", Desc: "cancel"}}
	}
}
