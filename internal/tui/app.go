package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nikbrunner/gifpick/internal/fetch"
	"github.com/nikbrunner/gifpick/internal/model"
	"github.com/nikbrunner/gifpick/internal/route"
	"github.com/nikbrunner/gifpick/internal/search"
	"github.com/nikbrunner/gifpick/internal/tui/layout"
)

// DefaultCopyFeedback is how long a card shows "Copied!".
const DefaultCopyFeedback = 3 * time.Second

// copiedResetMsg clears the copied indicator set by the copy with token.
type copiedResetMsg struct{ token int }

// statusMsg reports the outcome of a side effect run as a command.
type statusMsg struct {
	text string
	kind MessageType
}

// App is the main bubbletea model for the GIF picker.
type App struct {
	fetcher     *fetch.Orchestrator
	recommender *fetch.Recommender
	router      *route.Router

	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig
	log          zerolog.Logger

	initialQuery string
	mode         Mode
	search       SearchState
	grid         GridNav
	copied       CopyState
	spinner      spinner.Model

	clipboard    func(string) error
	openURL      func(string) error
	copyFeedback time.Duration

	messageText string
	messageType MessageType

	// For gg command
	lastKeyWasG bool

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Source       fetch.Source
	Options      fetch.Options // Sink defaults to Router when unset
	Router       *route.Router // optional, supplies the initial query
	InitialQuery string        // used when Router is nil

	Clipboard    func(string) error // optional, defaults to the system clipboard
	OpenURL      func(string) error // optional, defaults to the system browser
	CopyFeedback time.Duration      // optional, defaults to DefaultCopyFeedback

	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
	Logger       *zerolog.Logger      // optional, discards if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	log := zerolog.Nop()
	if params.Logger != nil {
		log = *params.Logger
	}

	opts := params.Options
	if opts.Sink == nil && params.Router != nil {
		opts.Sink = params.Router
	}
	if opts.Logger == nil {
		opts.Logger = &log
	}

	initial := params.InitialQuery
	if params.Router != nil {
		initial = params.Router.Query()
	}

	copyClipboard := params.Clipboard
	if copyClipboard == nil {
		copyClipboard = clipboard.WriteAll
	}
	openURL := params.OpenURL
	if openURL == nil {
		openURL = OpenInBrowser
	}
	feedback := params.CopyFeedback
	if feedback <= 0 {
		feedback = DefaultCopyFeedback
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Status

	app := App{
		fetcher:      fetch.New(params.Source, opts),
		recommender:  fetch.NewRecommender(params.Source, opts.RecommendedCount, &log),
		router:       params.Router,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutCfg,
		log:          log.With().Str("component", "tui").Logger(),
		initialQuery: initial,
		mode:         ModeSearch,
		search:       NewSearchState(layoutCfg),
		spinner:      s,
		clipboard:    copyClipboard,
		openURL:      openURL,
		copyFeedback: feedback,
		width:        80,
		height:       24,
	}

	app.search.Input.SetValue(initial)
	app.search.Input.Focus()
	return app
}

// WithDimensions returns a copy of the app with the given terminal size.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Fetcher returns the fetch orchestrator driving the main grid.
func (a App) Fetcher() *fetch.Orchestrator {
	return a.fetcher
}

// Recommender returns the fallback panel's batch fetcher.
func (a App) Recommender() *fetch.Recommender {
	return a.recommender
}

// Mode returns the current input mode.
func (a App) Mode() Mode {
	return a.mode
}

// Cursor returns the grid cursor position.
func (a App) Cursor() int {
	return a.grid.Cursor
}

// SearchValue returns the raw text in the search box.
func (a App) SearchValue() string {
	return a.search.Input.Value()
}

// FilterQuery returns the active local filter.
func (a App) FilterQuery() string {
	return a.search.FilterQuery
}

// CopiedItemID returns the id of the card showing "Copied!", or "".
func (a App) CopiedItemID() string {
	return a.copied.ItemID
}

// Message returns the current status message.
func (a App) Message() string {
	return a.messageText
}

// Location returns the shareable location of the committed query.
func (a App) Location() string {
	if a.router != nil {
		return a.router.Location()
	}
	return route.Location(a.fetcher.Query())
}

// DisplayItems returns the items the grid currently shows: the fallback
// batch under a failed search, otherwise the results narrowed by the filter.
func (a App) DisplayItems() []model.Item {
	if a.fetcher.ShowRecommendedFallback() {
		return a.recommender.Items()
	}
	if a.search.Filtering() {
		return search.Items(a.filterMatches())
	}
	return a.fetcher.Results()
}

// SelectedItem returns the item under the cursor, or nil.
func (a App) SelectedItem() *model.Item {
	items := a.DisplayItems()
	if a.grid.Cursor < 0 || a.grid.Cursor >= len(items) {
		return nil
	}
	item := items[a.grid.Cursor]
	return &item
}

func (a App) filterMatches() []search.SearchResult {
	return search.FilterItems(a.fetcher.Results(), a.search.FilterQuery)
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.fetcher.Start(a.initialQuery),
		a.recommender.Fetch(),
		a.spinner.Tick,
		textinput.Blink,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tea.KeyMsg:
		var cmd tea.Cmd
		a, cmd = a.handleKey(msg)
		cmds = append(cmds, cmd)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case copiedResetMsg:
		if msg.token == a.copied.Token {
			a.copied.ItemID = ""
		}

	case statusMsg:
		a.setMessage(msg.kind, msg.text)

	default:
		cmds = append(cmds, a.fetcher.Update(msg), a.recommender.Update(msg))
		if a.mode == ModeSearch {
			var cmd tea.Cmd
			a.search.Input, cmd = a.search.Input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	a.grid.Clamp(len(a.DisplayItems()))
	cmds = append(cmds, a.maybeLoadMore())
	return a, tea.Batch(cmds...)
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}

func (a App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		return a, a.quit()
	}

	switch a.mode {
	case ModeHelp:
		if key.Matches(msg, a.keys.Help, a.keys.Quit, a.keys.Clear) {
			a.mode = ModeBrowse
		}
		return a, nil
	case ModeSearch:
		return a.handleSearchKey(msg)
	case ModeFilter:
		return a.handleFilterKey(msg)
	default:
		return a.handleBrowseKey(msg)
	}
}

func (a App) handleSearchKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Clear):
		if a.search.Input.Value() == "" {
			return a.blurSearch(), nil
		}
		a.search.Input.SetValue("")
		a.grid.Cursor = 0
		a.search.ResetFilter()
		return a, a.fetcher.ClearQuery()

	case key.Matches(msg, a.keys.Blur):
		return a.blurSearch(), nil
	}

	before := a.search.Input.Value()
	var cmd tea.Cmd
	a.search.Input, cmd = a.search.Input.Update(msg)
	if value := a.search.Input.Value(); value != before {
		a.grid.Cursor = 0
		a.search.ResetFilter()
		return a, tea.Batch(cmd, a.fetcher.SetQuery(value))
	}
	return a, cmd
}

func (a App) blurSearch() App {
	a.search.Input.Blur()
	a.mode = ModeBrowse
	return a
}

func (a App) handleFilterKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.search.ResetFilter()
		a.search.FilterInput.Blur()
		a.mode = ModeBrowse
		return a, nil
	case tea.KeyEnter:
		a.search.FilterInput.Blur()
		a.mode = ModeBrowse
		return a, nil
	}

	var cmd tea.Cmd
	a.search.FilterInput, cmd = a.search.FilterInput.Update(msg)
	a.search.FilterQuery = a.search.FilterInput.Value()
	a.grid.Cursor = 0
	return a, cmd
}

func (a App) handleBrowseKey(msg tea.KeyMsg) (App, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.grid.Cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	items := a.DisplayItems()
	columns := a.gridLayout().Columns

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, a.quit()

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp

	case key.Matches(msg, a.keys.Focus):
		a.mode = ModeSearch
		return a, a.search.Input.Focus()

	case key.Matches(msg, a.keys.Filter):
		if a.fetcher.Len() == 0 {
			return a, nil
		}
		a.mode = ModeFilter
		a.search.FilterInput.SetValue(a.search.FilterQuery)
		return a, a.search.FilterInput.Focus()

	case key.Matches(msg, a.keys.Clear):
		if a.search.Filtering() {
			a.search.ResetFilter()
			a.grid.Cursor = 0
		}

	case key.Matches(msg, a.keys.Down):
		if a.grid.Cursor+columns < len(items) {
			a.grid.Cursor += columns
		} else if len(items) > 0 {
			a.grid.Cursor = len(items) - 1
		}

	case key.Matches(msg, a.keys.Up):
		if a.grid.Cursor-columns >= 0 {
			a.grid.Cursor -= columns
		} else {
			a.mode = ModeSearch
			return a, a.search.Input.Focus()
		}

	case key.Matches(msg, a.keys.Right):
		if a.grid.Cursor < len(items)-1 {
			a.grid.Cursor++
		}

	case key.Matches(msg, a.keys.Left):
		if a.grid.Cursor > 0 {
			a.grid.Cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(items) > 0 {
			a.grid.Cursor = len(items) - 1
		}

	case key.Matches(msg, a.keys.Copy):
		return a.copySelected()

	case key.Matches(msg, a.keys.Open):
		if item := a.SelectedItem(); item != nil {
			return a, a.openPreview(*item)
		}

	case key.Matches(msg, a.keys.Refresh):
		return a.refresh()
	}

	return a, nil
}

// refresh re-issues whichever recommended batch is on screen.
func (a App) refresh() (App, tea.Cmd) {
	switch {
	case a.fetcher.ShowRecommendedFallback():
		if a.recommender.Loading() {
			return a, nil
		}
		a.grid.Cursor = 0
		return a, a.recommender.Fetch()
	case a.fetcher.Mode() == fetch.ModeRecommended:
		a.grid.Cursor = 0
		return a, a.fetcher.Refresh()
	}
	return a, nil
}

func (a App) copySelected() (App, tea.Cmd) {
	item := a.SelectedItem()
	if item == nil {
		return a, nil
	}
	if err := a.clipboard(item.CanonicalURL); err != nil {
		a.log.Warn().Err(err).Str("id", item.ID).Msg("clipboard write failed")
		a.setMessage(MessageError, "Copy failed: "+err.Error())
		return a, nil
	}

	a.log.Debug().Str("id", item.ID).Msg("copied url")
	a.copied.Token++
	a.copied.ItemID = item.ID
	token := a.copied.Token
	return a, tea.Tick(a.copyFeedback, func(time.Time) tea.Msg {
		return copiedResetMsg{token: token}
	})
}

func (a App) openPreview(item model.Item) tea.Cmd {
	open, log := a.openURL, a.log
	target := item.PreviewURL
	if target == "" {
		target = item.CanonicalURL
	}
	return func() tea.Msg {
		if err := open(target); err != nil {
			log.Warn().Err(err).Str("url", target).Msg("open failed")
			return statusMsg{kind: MessageError, text: "Could not open preview"}
		}
		return statusMsg{kind: MessageInfo, text: "Opened " + item.DisplayTitle()}
	}
}

// maybeLoadMore requests the next page once the end of the grid is on
// screen. Filtering suspends it because the grid no longer ends at the
// last loaded result.
func (a App) maybeLoadMore() tea.Cmd {
	if a.search.Filtering() || a.mode == ModeHelp {
		return nil
	}
	if !a.fetcher.CanLoadMore() || !a.sentinelVisible() {
		return nil
	}
	return a.fetcher.LoadMore()
}

func (a App) sentinelVisible() bool {
	grid := a.gridLayout()
	rows := layout.RowCount(len(a.DisplayItems()), grid.Columns)
	offset := layout.CalculateViewportOffset(a.grid.Cursor/grid.Columns, rows, grid.VisibleRows)
	return layout.SentinelVisible(offset, rows, grid.VisibleRows)
}

func (a App) gridLayout() layout.GridLayout {
	return layout.CalculateGrid(a.width, a.height, a.layoutConfig.Grid)
}

func (a *App) setMessage(kind MessageType, text string) {
	a.messageType = kind
	a.messageText = text
}

func (a App) quit() tea.Cmd {
	a.fetcher.Close()
	a.recommender.Close()
	return tea.Quit
}
