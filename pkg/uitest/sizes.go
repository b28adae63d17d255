package uitest

// Size represents terminal dimensions.
type Size struct {
	Width  int
	Height int
}

// Terminal sizes used across TUI tests.
var (
	// Compact is the classic 80x24 terminal.
	Compact = Size{Width: 80, Height: 24}
	// Standard is a typical modern terminal.
	Standard = Size{Width: 120, Height: 40}
)
