package ui

// Layout constants for the walk screen
const (
	ViewportHorizontalPadding = 4
	HeaderHeight              = 2
	FooterHeight              = 2
	ButtonRowHeight           = 2

	// Responsive breakpoints
	MinimumTerminalWidth = 40
	CompactModeWidth     = 80
	MaxContentWidth      = 100

	// Heights for the embedded components
	ReflectionInputHeight = 5
	MinDetailHeight       = 4
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// ContentWidth is the usable width, capped so prose stays readable.
func (l LayoutConfig) ContentWidth() int {
	w := l.TerminalWidth - ViewportHorizontalPadding
	if w > MaxContentWidth {
		w = MaxContentWidth
	}
	if w < MinimumTerminalWidth-ViewportHorizontalPadding {
		w = MinimumTerminalWidth - ViewportHorizontalPadding
	}
	return w
}

// BodyHeight is what remains below the header and above the footer.
func (l LayoutConfig) BodyHeight() int {
	h := l.TerminalHeight - HeaderHeight - FooterHeight
	if h < 1 {
		return 1
	}
	return h
}

// DetailHeight sizes the quiz detail viewport, leaving room for the
// question, note and button rows.
func (l LayoutConfig) DetailHeight() int {
	h := l.BodyHeight() - ButtonRowHeight - 6
	if h < MinDetailHeight {
		return MinDetailHeight
	}
	return h
}
