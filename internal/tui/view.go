package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/gifpick/internal/fetch"
	"github.com/nikbrunner/gifpick/internal/model"
	"github.com/nikbrunner/gifpick/internal/tui/layout"
)

const (
	appTitle          = "GIF Picker 3000"
	splashText        = "Loading GIF Picker 3000..."
	recommendedTitle  = "Recommended GIFs"
	fallbackTitle     = "Here are a few recommended GIFs..."
	loadingText       = "Loading..."
	loadingMoreText   = "Loading more..."
	noResultsText     = "No GIFs found."
	copyLabel         = "Copy URL"
	copiedLabel       = "✓ Copied!"
	highlightStart    = "\033[1;4m"
	highlightEnd      = "\033[22;24m"
	appHorizontalPads = 4
)

// gridSection describes one block of cards with its own status lines.
type gridSection struct {
	title   string
	items   []model.Item
	loading bool
	err     string
	focused bool
	matches map[string][]int // item id -> matched rune indexes in the title
}

// renderView creates the complete picker view.
func (a App) renderView() string {
	if !a.fetcher.InitialLoadComplete() {
		return a.renderSplash()
	}
	if a.mode == ModeHelp {
		return a.renderHelpOverlay()
	}

	var sections []string
	sections = append(sections, a.renderHeader(), a.renderSearchBox())
	if line := a.renderModeLine(); line != "" {
		sections = append(sections, line)
	}
	if line := a.renderFilterLine(); line != "" {
		sections = append(sections, line)
	}

	sections = append(sections, a.renderSection(a.mainSection()))

	if a.fetcher.Loading() && a.fetcher.Page() > 0 {
		sections = append(sections, a.styles.Status.Render(a.spinner.View()+loadingMoreText))
	}

	if a.fetcher.ShowRecommendedFallback() {
		sections = append(sections, a.renderSection(gridSection{
			title:   fallbackTitle,
			items:   a.recommender.Items(),
			loading: a.recommender.Loading(),
			err:     a.recommender.ErrorMessage(),
			focused: a.mode == ModeBrowse,
		}))
	}

	sections = append(sections, a.renderHelpBar())

	content := a.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

func (a App) renderSplash() string {
	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		a.styles.Title.Render(splashText),
	)
}

// renderHeader renders the app title and the shareable location.
func (a App) renderHeader() string {
	title := a.styles.Header.Render(appTitle)
	available := a.width - appHorizontalPads - lipgloss.Width(title) - 2
	location := layout.Truncate(a.Location(), available, a.layoutConfig.Text)
	return title + a.styles.Location.Render(location)
}

func (a App) renderSearchBox() string {
	if a.mode == ModeSearch {
		return a.styles.SearchActive.Render(a.search.Input.View())
	}
	return a.styles.SearchBox.Render(a.search.Input.View())
}

// renderModeLine renders the heading of the main grid. The recommended
// heading carries the refresh hint; errors are shown by the grid itself.
func (a App) renderModeLine() string {
	if a.fetcher.Err() != fetch.ErrorNone {
		return ""
	}
	if a.fetcher.Mode() == fetch.ModeRecommended {
		return a.styles.Title.Render(recommendedTitle) + "  " + a.renderHint(Hint{Key: "r", Desc: "refresh"})
	}
	if a.fetcher.Len() == 0 {
		return ""
	}
	return a.styles.Title.Render(fmt.Sprintf("Results for %q", a.fetcher.Query())) +
		a.styles.Status.Render(fmt.Sprintf("  (%d)", a.fetcher.Len()))
}

func (a App) renderFilterLine() string {
	if a.mode == ModeFilter {
		return "/" + a.search.FilterInput.View()
	}
	if a.search.Filtering() {
		return a.styles.Status.Render(fmt.Sprintf("/%s  (%d matches)", a.search.FilterQuery, len(a.DisplayItems())))
	}
	return ""
}

func (a App) mainSection() gridSection {
	section := gridSection{
		items:   a.fetcher.Results(),
		loading: a.fetcher.Loading() && a.fetcher.Page() == 0,
		err:     a.fetcher.ErrorMessage(),
		focused: a.mode == ModeBrowse && !a.fetcher.ShowRecommendedFallback(),
	}
	if a.search.Filtering() {
		matches := a.filterMatches()
		section.items = make([]model.Item, len(matches))
		section.matches = make(map[string][]int, len(matches))
		for i, m := range matches {
			section.items[i] = m.Item
			section.matches[m.Item.ID] = m.MatchedIndexes
		}
	}
	return section
}

// renderSection renders a heading, status lines and the visible card rows.
func (a App) renderSection(s gridSection) string {
	var lines []string
	if s.title != "" {
		lines = append(lines, a.styles.Title.Render(s.title))
	}
	if s.err != "" {
		lines = append(lines, a.styles.Error.Render(s.err))
	}
	if s.loading && len(s.items) == 0 {
		lines = append(lines, a.styles.Status.Render(a.spinner.View()+loadingText))
	}
	if !s.loading && len(s.items) == 0 && s.err == "" {
		lines = append(lines, a.styles.Empty.Render(noResultsText))
	}
	if len(s.items) > 0 {
		lines = append(lines, a.renderGrid(s))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderGrid(s gridSection) string {
	grid := a.gridLayout()
	rows := layout.RowCount(len(s.items), grid.Columns)

	cursor := -1
	if s.focused {
		cursor = a.grid.Cursor
	}
	offset := 0
	if cursor >= 0 {
		offset = layout.CalculateViewportOffset(cursor/grid.Columns, rows, grid.VisibleRows)
	}

	var rendered []string
	for row := offset; row < rows && row < offset+grid.VisibleRows; row++ {
		var cards []string
		for col := 0; col < grid.Columns; col++ {
			i := row*grid.Columns + col
			if i >= len(s.items) {
				break
			}
			if col > 0 {
				cards = append(cards, strings.Repeat(" ", a.layoutConfig.Grid.CardGap))
			}
			cards = append(cards, a.renderCard(s.items[i], i == cursor, grid.CardWidth, s.matches[s.items[i].ID]))
		}
		rendered = append(rendered, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

// renderCard renders one result: title, preview media URL and the copy
// affordance. The card is CardHeight lines tall including its border.
func (a App) renderCard(item model.Item, selected bool, width int, matched []int) string {
	contentWidth := layout.CalculateCardContentWidth(width, a.layoutConfig.Grid)

	title := layout.Truncate(highlightMatches(item.DisplayTitle(), matched), contentWidth, a.layoutConfig.Text)

	media := item.PreviewURL
	if media == "" {
		media = item.CanonicalURL
	}
	media = layout.Truncate(media, contentWidth, a.layoutConfig.Text)

	action := a.styles.HintKey.Render("[" + copyLabel + "]")
	if a.copied.ItemID == item.ID {
		action = a.styles.Copied.Render(copiedLabel)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		a.styles.CardTitle.Render(title),
		a.styles.URL.Render(media),
		action,
	)

	style := a.styles.Card
	if selected {
		style = a.styles.CardSelected
	}
	// lipgloss widths exclude the border
	return style.Width(width - 2).Render(body)
}

// highlightMatches marks fuzzy-matched characters bold and underlined.
func highlightMatches(title string, matched []int) string {
	if len(matched) == 0 {
		return title
	}
	matchSet := make(map[int]bool, len(matched))
	for _, idx := range matched {
		matchSet[idx] = true
	}

	var line strings.Builder
	for i, r := range title {
		if matchSet[i] {
			line.WriteString(highlightStart)
			line.WriteRune(r)
			line.WriteString(highlightEnd)
		} else {
			line.WriteRune(r)
		}
	}
	return line.String()
}

func (a App) renderHelpBar() string {
	var lines []string

	// Line 1: Empty spacer OR message (message replaces the gap)
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	lines = append(lines, a.renderHints(a.getContextualHints()))
	return strings.Join(lines, "\n")
}

// renderMessageLine renders the styled message with prefix icon based on type.
func (a App) renderMessageLine() string {
	switch a.messageType {
	case MessageError:
		return a.styles.Error.Render("✗ " + a.messageText)
	case MessageSuccess:
		return a.styles.Copied.Render("✓ " + a.messageText)
	default:
		return a.styles.Status.Render(a.messageText)
	}
}

// renderHelpOverlay renders the help overlay.
func (a App) renderHelpOverlay() string {
	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.DefaultWidthPercent, a.layoutConfig.Modal)
	keyCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpLeftColumnWidth)

	sections := []struct {
		title string
		keys  []Hint
	}{
		{"search", []Hint{
			{Key: "type", Desc: "search GIPHY"},
			{Key: "Esc", Desc: "clear query"},
			{Key: "Enter/Tab", Desc: "go to results"},
		}},
		{"results", []Hint{
			{Key: "h/j/k/l", Desc: "move"},
			{Key: "gg/G", Desc: "top/bottom"},
			{Key: "y/Enter", Desc: "copy URL"},
			{Key: "o", Desc: "open preview"},
			{Key: "r", Desc: "refresh recommended"},
			{Key: "/", Desc: "filter loaded"},
			{Key: "i", Desc: "back to search"},
		}},
	}

	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(a.styles.Title.Render(section.title) + "\n")
		for _, h := range section.keys {
			b.WriteString(keyCol.Render(h.Key) + h.Desc + "\n")
		}
	}
	b.WriteString(a.styles.Help.Render("[?/esc] close  [ctrl+c] quit"))

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Left,
		lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 2).Width(modalWidth).Render(b.String()),
	)
}
