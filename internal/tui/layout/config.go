package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane   PaneConfig
	Reader ReaderConfig
	Modal  ModalConfig
	Input  InputConfig
	Text   TextConfig
	Split  SplitConfig
}

// PaneConfig holds pane dimension configuration.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + header (1) + pane borders (2) + help bar (3) = 7
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// ContentPadding is subtracted from pane width for item rendering.
	// Accounts for pane border/padding on each side.
	ContentPadding int

	// FrameWidth is the horizontal space a bordered pane adds around its content.
	FrameWidth int

	// AppPadding is the horizontal padding of the whole app.
	AppPadding int
}

// ReaderConfig holds the table of contents / page split.
type ReaderConfig struct {
	// TOCWidthPercent is the share of the width given to the TOC pane.
	TOCWidthPercent int

	// MinTOCWidth and MaxTOCWidth clamp the TOC pane.
	MinTOCWidth int
	MaxTOCWidth int

	// MinContentWidth is the narrowest page pane; below it the TOC is hidden.
	MinContentWidth int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the standard modal width as percentage of terminal width.
	DefaultWidthPercent int

	// LargeWidthPercent is used for modals needing more space (check results).
	LargeWidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// ListMaxVisible: max rows shown in a modal list.
	ListMaxVisible int

	// HelpLeftColumnWidth: width for help overlay left column.
	HelpLeftColumnWidth int

	// HelpRightColumnWidth: width for help overlay right column.
	HelpRightColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	// Character limits
	NameCharLimit   int
	JumpCharLimit   int
	QueryCharLimit  int
	FilterCharLimit int

	// Display widths
	StandardWidth int // Used for bookmark names and glossary queries
	FilterWidth   int // Used for filter input (narrower)
	JumpWidth     int // Used for the page jump input
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// SplitConfig holds the list / preview layout of the glossary screen.
type SplitConfig struct {
	// ListWidthPercent: percentage of width for results list.
	ListWidthPercent int

	// PreviewWidthPercent: percentage of width for preview pane.
	PreviewWidthPercent int

	// HeaderReduction: lines for header, input, help, padding.
	HeaderReduction int
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction: 7, // app padding (1) + header (1) + pane borders (2) + help bar (3)
			MinHeight:       5,
			ContentPadding:  4,
			FrameWidth:      4, // border (2) + padding (2)
			AppPadding:      4,
		},
		Reader: ReaderConfig{
			TOCWidthPercent: 30,
			MinTOCWidth:     20,
			MaxTOCWidth:     50,
			MinContentWidth: 30,
		},
		Modal: ModalConfig{
			DefaultWidthPercent:  40,
			LargeWidthPercent:    60,
			MinWidth:             50,
			MaxWidth:             80,
			ListMaxVisible:       10,
			HelpLeftColumnWidth:  22,
			HelpRightColumnWidth: 24,
		},
		Input: InputConfig{
			NameCharLimit:   100,
			JumpCharLimit:   20,
			QueryCharLimit:  100,
			FilterCharLimit: 50,
			StandardWidth:   40,
			FilterWidth:     30,
			JumpWidth:       12,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
		Split: SplitConfig{
			ListWidthPercent:    40,
			PreviewWidthPercent: 55,
			HeaderReduction:     9,
		},
	}
}
