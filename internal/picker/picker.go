// Package picker is the one-screen chooser behind "gifpick search". It
// lists a single page of results and copies the chosen GIF's URL.
package picker

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/gifpick/internal/model"
	"github.com/nikbrunner/gifpick/internal/tui"
	"github.com/nikbrunner/gifpick/internal/tui/layout"
)

// linesPerEntry is the height of one result: title, page URL, preview URL.
const linesPerEntry = 3

// chromeLines covers the header, its blank line, the status line and the hints.
const chromeLines = 4

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Copy   key.Binding
	Choose key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("k", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down")),
		Top:    key.NewBinding(key.WithKeys("g", "home")),
		Bottom: key.NewBinding(key.WithKeys("G", "end")),
		Copy:   key.NewBinding(key.WithKeys("y")),
		Choose: key.NewBinding(key.WithKeys("enter")),
		Cancel: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c")),
	}
}

// Params configures a Picker.
type Params struct {
	Items []model.Item
	Query string
	// Copy writes a URL to the clipboard. Defaults to clipboard.WriteAll.
	Copy func(string) error
}

// Picker lists one page of results. "y" copies the highlighted URL and
// stays open; Enter copies it and quits.
type Picker struct {
	items  []model.Item
	query  string
	copy   func(string) error
	keys   keyMap
	styles tui.Styles
	text   layout.TextConfig

	cursor    int
	copiedID  string
	chosen    *model.Item
	cancelled bool
	copyErr   error
	width     int
	height    int
}

// New creates a Picker over params.Items.
func New(params Params) Picker {
	copyFn := params.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	return Picker{
		items:  params.Items,
		query:  params.Query,
		copy:   copyFn,
		keys:   defaultKeyMap(),
		styles: tui.DefaultStyles(),
		text:   layout.DefaultConfig().Text,
		width:  80,
		height: 24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p Picker) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(p.items) - 1

	switch {
	case key.Matches(msg, p.keys.Cancel):
		p.cancelled = true
		return p, tea.Quit

	case key.Matches(msg, p.keys.Down):
		p.cursor = min(p.cursor+1, max(last, 0))

	case key.Matches(msg, p.keys.Up):
		p.cursor = max(p.cursor-1, 0)

	case key.Matches(msg, p.keys.Top):
		p.cursor = 0

	case key.Matches(msg, p.keys.Bottom):
		p.cursor = max(last, 0)

	case key.Matches(msg, p.keys.Copy):
		p.copyCurrent()

	case key.Matches(msg, p.keys.Choose):
		if p.copyCurrent() {
			item := p.items[p.cursor]
			p.chosen = &item
			return p, tea.Quit
		}
	}
	return p, nil
}

// copyCurrent copies the highlighted URL and reports whether it succeeded.
func (p *Picker) copyCurrent() bool {
	if p.cursor >= len(p.items) {
		return false
	}
	item := p.items[p.cursor]
	if err := p.copy(item.CanonicalURL); err != nil {
		p.copyErr = err
		p.copiedID = ""
		return false
	}
	p.copyErr = nil
	p.copiedID = item.ID
	return true
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(p.styles.Title.Render(fmt.Sprintf("Results for %q", p.query)))
	b.WriteString(p.styles.Status.Render(fmt.Sprintf("  (%d)", len(p.items))))
	b.WriteString("\n\n")

	contentWidth := p.width - 3
	visible := max((p.height-chromeLines)/linesPerEntry, 1)
	offset := layout.CalculateViewportOffset(p.cursor, len(p.items), visible)

	for i := offset; i < len(p.items) && i < offset+visible; i++ {
		b.WriteString(p.renderEntry(p.items[i], i == p.cursor, contentWidth))
	}

	b.WriteString("\n")
	switch {
	case p.copyErr != nil:
		b.WriteString(p.styles.Error.Render("✗ Copy failed: " + p.copyErr.Error()))
	case p.copiedID != "":
		b.WriteString(p.styles.Copied.Render("✓ Copied!"))
	}
	b.WriteString("\n")
	b.WriteString(p.renderHints())

	return b.String()
}

func (p Picker) renderEntry(item model.Item, selected bool, width int) string {
	marker := "  "
	title := p.styles.CardTitle
	if selected {
		marker = p.styles.Header.Render("> ")
		title = p.styles.Header
	}

	line := title.Render(layout.Truncate(item.DisplayTitle(), width, p.text))
	if item.ID == p.copiedID {
		line += "  " + p.styles.Copied.Render("✓ Copied!")
	}

	preview := item.PreviewURL
	if preview == "" {
		preview = "-"
	}

	var b strings.Builder
	b.WriteString(marker + line + "\n")
	b.WriteString("   " + p.styles.URL.Render(layout.Truncate(item.CanonicalURL, width, p.text)) + "\n")
	b.WriteString("   " + p.styles.Status.Render(layout.Truncate("preview "+preview, width, p.text)) + "\n")
	return b.String()
}

func (p Picker) renderHints() string {
	hints := []struct{ key, desc string }{
		{"j/k", "move"},
		{"y", "copy"},
		{"Enter", "copy+quit"},
		{"q/Esc", "cancel"},
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = p.styles.HintKey.Render(h.key) + ":" + p.styles.HintDesc.Render(h.desc)
	}
	return strings.Join(parts, " ")
}

// Chosen returns the item whose URL was copied with Enter, or nil.
func (p Picker) Chosen() *model.Item {
	return p.chosen
}

// CopiedID returns the ID of the last successfully copied item.
func (p Picker) CopiedID() string {
	return p.copiedID
}

// Cancelled reports whether the picker was closed without choosing.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
