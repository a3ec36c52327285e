package layout

import "github.com/charmbracelet/x/ansi"

// Width returns the number of terminal cells s occupies. Escape codes take none.
func Width(s string) int {
	return ansi.StringWidth(s)
}

// Truncate shortens s to at most maxWidth cells and ends it with the
// configured ellipsis. Escape codes survive the cut, so highlighted filter
// matches in a card title keep their closing sequence. When not even the
// ellipsis fits, s is cut without one.
func Truncate(s string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	tail := cfg.Ellipsis
	if ansi.StringWidth(tail) >= maxWidth {
		tail = ""
	}
	return ansi.Truncate(s, maxWidth, tail)
}
