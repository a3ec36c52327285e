package tui

import (
	"strings"

	"github.com/nikbrunner/gifpick/internal/fetch"
)

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "copy")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for bottom bar: "j/k:move y:copy o:open"
func (a App) renderHints(hints HintSet) string {
	allHints := hints.All()
	if len(allHints) == 0 {
		return ""
	}

	parts := make([]string, len(allHints))
	for i, h := range allHints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (j/k, h/l, etc.)
	Action []Hint // Action hints (y, o, r, etc.)
	System []Hint // System hints (?, q, Esc)
}

// All returns all hints flattened in display order: Nav + Action + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeSearch:
		return a.getSearchModeHints()
	case ModeBrowse:
		return a.getBrowseModeHints()
	case ModeFilter:
		return a.getFilterModeHints()
	case ModeHelp:
		return HintSet{
			System: []Hint{{Key: "?/q/Esc", Desc: "close"}},
		}
	default:
		return HintSet{}
	}
}

// getSearchModeHints returns hints while typing a query.
func (a App) getSearchModeHints() HintSet {
	hints := HintSet{
		Nav: []Hint{
			{Key: "Enter", Desc: "results"},
		},
		System: []Hint{
			{Key: "ctrl+c", Desc: "quit"},
		},
	}
	if a.search.Input.Value() != "" {
		hints.Action = []Hint{{Key: "Esc", Desc: "clear"}}
	} else {
		hints.Action = []Hint{{Key: "Esc", Desc: "browse"}}
	}
	return hints
}

// getBrowseModeHints returns hints for the result grid.
func (a App) getBrowseModeHints() HintSet {
	hints := HintSet{
		Nav: []Hint{
			{Key: "h/j/k/l", Desc: "move"},
		},
		System: []Hint{
			{Key: "i", Desc: "search"},
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}

	if a.SelectedItem() != nil {
		hints.Action = append(hints.Action,
			Hint{Key: "y", Desc: "copy"},
			Hint{Key: "o", Desc: "open"},
		)
	}
	if a.fetcher.Mode() == fetch.ModeRecommended || a.fetcher.ShowRecommendedFallback() {
		hints.Action = append(hints.Action, Hint{Key: "r", Desc: "refresh"})
	}
	if a.fetcher.Len() > 0 {
		hints.Action = append(hints.Action, Hint{Key: "/", Desc: "filter"})
	}
	if a.search.Filtering() {
		hints.System = append([]Hint{{Key: "Esc", Desc: "unfilter"}}, hints.System...)
	}
	return hints
}

// getFilterModeHints returns hints for ModeFilter (local filter active).
func (a App) getFilterModeHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "type", Desc: "filter"},
		},
		Action: []Hint{
			{Key: "Enter", Desc: "apply"},
		},
		System: []Hint{
			{Key: "Esc", Desc: "cancel"},
		},
	}
}
