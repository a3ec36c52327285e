package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/nikbrunner/gifpick/internal/search"
	"github.com/nikbrunner/gifpick/internal/tui/layout"
)

// Mode tells which part of the screen receives key presses.
type Mode int

const (
	ModeSearch Mode = iota // typing in the search box
	ModeBrowse             // moving around the result grid
	ModeFilter             // typing a local filter over loaded results
	ModeHelp
)

// MessageType determines the styling of the status message.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageError
)

// SearchState holds the remote search box and the local filter.
type SearchState struct {
	Input textinput.Model // Query sent to the orchestrator

	FilterInput textinput.Model       // Filter over loaded results
	FilterQuery string                // Active filter (persists after closing filter)
	Matches     []search.SearchResult // Results matching FilterQuery
}

// NewSearchState creates a new SearchState with initialized inputs.
func NewSearchState(cfg layout.LayoutConfig) SearchState {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search for a GIF..."
	searchInput.Prompt = "> "
	searchInput.CharLimit = cfg.Input.SearchCharLimit
	searchInput.Width = cfg.Input.SearchWidth

	filterInput := textinput.New()
	filterInput.Placeholder = "Filter..."
	filterInput.Prompt = ""
	filterInput.CharLimit = cfg.Input.FilterCharLimit
	filterInput.Width = cfg.Input.FilterWidth

	return SearchState{
		Input:       searchInput,
		FilterInput: filterInput,
	}
}

// ResetFilter clears the local filter state.
func (s *SearchState) ResetFilter() {
	s.FilterInput.Reset()
	s.FilterQuery = ""
	s.Matches = nil
}

// Filtering reports whether a local filter narrows the grid.
func (s *SearchState) Filtering() bool {
	return s.FilterQuery != ""
}

// GridNav holds the grid cursor.
type GridNav struct {
	Cursor int // index into the displayed items
}

// Clamp keeps the cursor within [0, total).
func (g *GridNav) Clamp(total int) {
	if g.Cursor >= total {
		g.Cursor = total - 1
	}
	if g.Cursor < 0 {
		g.Cursor = 0
	}
}

// CopyState tracks the "Copied!" indicator on a single card.
type CopyState struct {
	ItemID string // card showing the indicator, "" for none
	Token  int    // bumped per copy so older reset ticks are ignored
}
