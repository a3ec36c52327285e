package fetch

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nikbrunner/gifpick/internal/model"
)

const (
	DefaultPageSize         = 9
	DefaultRecommendedCount = 3
	DefaultDebounce         = 500 * time.Millisecond

	// RateLimitSentinel forces a rate-limit error without contacting the
	// API. Matched case-insensitively.
	RateLimitSentinel = "simulate429"
)

// Source is the remote search API.
type Source interface {
	Search(ctx context.Context, query string, limit, offset int) ([]model.Item, error)
	Random(ctx context.Context) (model.Item, error)
}

// QuerySink receives every committed query so it can be reflected in a
// shareable location.
type QuerySink interface {
	PublishQuery(query string)
}

// Mode is selected by the query: empty means recommended, otherwise search.
type Mode int

const (
	ModeRecommended Mode = iota
	ModeSearch
)

// ModeFor returns the mode a query selects.
func ModeFor(query string) Mode {
	if strings.TrimSpace(query) == "" {
		return ModeRecommended
	}
	return ModeSearch
}

// Options configures an Orchestrator. Zero values fall back to defaults.
type Options struct {
	PageSize         int
	RecommendedCount int
	Debounce         time.Duration
	Sink             QuerySink
	Logger           *zerolog.Logger
}

// Messages produced by the orchestrator's commands. Each carries the
// generation that issued it.
type (
	queryInputMsg struct {
		seq   uint64
		query string
	}
	searchDueMsg struct {
		gen uint64
	}
	searchResultMsg struct {
		gen   uint64
		page  int
		items []model.Item
		err   error
	}
	recommendedResultMsg struct {
		gen   uint64
		items []model.Item
		err   error
	}
)

// Orchestrator owns the fetch state of the picker.
type Orchestrator struct {
	source           Source
	sink             QuerySink
	pageSize         int
	recommendedCount int
	debounce         time.Duration
	log              zerolog.Logger

	inputSeq uint64             // bumped on every keystroke
	gen      uint64             // bumped on every pipeline run
	cancel   context.CancelFunc // cancels the current run's request

	query        string
	page         int
	refreshToken int
	started      bool

	results             model.ResultSet
	loading             bool
	err                 ErrorKind
	cause               error
	hasMore             bool
	initialLoadComplete bool
}

// New creates an Orchestrator backed by source.
func New(source Source, opts Options) *Orchestrator {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.RecommendedCount <= 0 {
		opts.RecommendedCount = DefaultRecommendedCount
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &Orchestrator{
		source:           source,
		sink:             opts.Sink,
		pageSize:         opts.PageSize,
		recommendedCount: opts.RecommendedCount,
		debounce:         opts.Debounce,
		log:              log.With().Str("component", "fetch").Logger(),
		hasMore:          true,
	}
}

// Start commits the initial query and runs the pipeline once.
func (o *Orchestrator) Start(initialQuery string) tea.Cmd {
	o.started = true
	o.query = strings.TrimSpace(initialQuery)
	o.page = 0
	return o.run("start")
}

// SetQuery accepts raw user text. Keystrokes are coalesced: only the last
// value seen within the debounce window is committed.
func (o *Orchestrator) SetQuery(raw string) tea.Cmd {
	o.inputSeq++
	seq := o.inputSeq
	return tea.Tick(o.debounce, func(time.Time) tea.Msg {
		return queryInputMsg{seq: seq, query: raw}
	})
}

// ClearQuery commits the empty query immediately, dropping pending keystrokes.
func (o *Orchestrator) ClearQuery() tea.Cmd {
	o.inputSeq++
	return o.commitQuery("")
}

// LoadMore requests the next page. It is a no-op unless the orchestrator
// is idle in search mode with no error and more results available.
func (o *Orchestrator) LoadMore() tea.Cmd {
	if !o.CanLoadMore() {
		return nil
	}
	o.page++
	return o.run("load_more")
}

// Refresh re-runs the pipeline for the current query. In recommended mode
// this fetches a fresh random batch.
func (o *Orchestrator) Refresh() tea.Cmd {
	o.refreshToken++
	return o.run("refresh")
}

// Close cancels any request in flight.
func (o *Orchestrator) Close() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// Update applies orchestrator messages. Other messages are ignored.
func (o *Orchestrator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case queryInputMsg:
		if msg.seq != o.inputSeq {
			return nil
		}
		return o.commitQuery(msg.query)

	case searchDueMsg:
		if msg.gen != o.gen {
			return nil
		}
		return o.issueSearch(msg.gen)

	case searchResultMsg:
		if msg.gen != o.gen {
			o.log.Debug().Uint64("gen", msg.gen).Uint64("current", o.gen).Msg("dropping stale search result")
			return nil
		}
		o.applySearch(msg)

	case recommendedResultMsg:
		if msg.gen != o.gen {
			o.log.Debug().Uint64("gen", msg.gen).Uint64("current", o.gen).Msg("dropping stale recommended batch")
			return nil
		}
		o.applyRecommended(msg)
	}
	return nil
}

func (o *Orchestrator) commitQuery(raw string) tea.Cmd {
	query := strings.TrimSpace(raw)
	if o.started && query == o.query {
		return nil
	}
	o.started = true
	o.query = query
	o.page = 0
	if o.sink != nil {
		o.sink.PublishQuery(query)
	}
	return o.run("query")
}

// run starts a new pipeline generation, invalidating the previous one.
func (o *Orchestrator) run(reason string) tea.Cmd {
	o.gen++
	gen := o.gen
	o.Close()

	o.log.Debug().
		Str("reason", reason).
		Str("query", o.query).
		Int("page", o.page).
		Int("refresh", o.refreshToken).
		Uint64("gen", gen).
		Msg("pipeline run")

	if o.Mode() == ModeRecommended {
		o.loading = true
		ctx, cancel := context.WithCancel(context.Background())
		o.cancel = cancel
		source, count := o.source, o.recommendedCount
		return func() tea.Msg {
			items, err := CollectUnique(ctx, source, count)
			return recommendedResultMsg{gen: gen, items: items, err: err}
		}
	}

	if IsRateLimitSentinel(o.query) {
		o.fail(ErrorRateLimited, errSimulatedRateLimit)
		o.finish()
		return nil
	}

	o.loading = true
	return tea.Tick(o.debounce, func(time.Time) tea.Msg {
		return searchDueMsg{gen: gen}
	})
}

func (o *Orchestrator) issueSearch(gen uint64) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	source := o.source
	query, page, limit := o.query, o.page, o.pageSize
	return func() tea.Msg {
		items, err := source.Search(ctx, query, limit, page*limit)
		return searchResultMsg{gen: gen, page: page, items: items, err: err}
	}
}

func (o *Orchestrator) applySearch(msg searchResultMsg) {
	defer o.finish()

	if msg.err != nil {
		if isCancelled(msg.err) {
			return
		}
		kind := Classify(msg.err)
		o.fail(kind, msg.err)
		// A rate limit keeps what the user already sees; anything else
		// discards the whole list, earlier pages included.
		if kind != ErrorRateLimited {
			o.results.Clear()
		}
		return
	}

	o.hasMore = len(msg.items) == o.pageSize
	if msg.page == 0 {
		o.results.Replace(msg.items)
	} else {
		added := o.results.Append(msg.items)
		o.log.Debug().
			Int("page", msg.page).
			Int("received", len(msg.items)).
			Int("added", added).
			Msg("appended page")
	}
	o.err = ErrorNone
	o.cause = nil
}

func (o *Orchestrator) applyRecommended(msg recommendedResultMsg) {
	defer o.finish()

	if msg.err != nil {
		if isCancelled(msg.err) {
			return
		}
		o.fail(Classify(msg.err), msg.err)
		o.results.Clear()
		return
	}

	o.results.Replace(msg.items)
	o.err = ErrorNone
	o.cause = nil
	o.hasMore = false
}

func (o *Orchestrator) fail(kind ErrorKind, cause error) {
	o.err = kind
	o.cause = cause
	o.hasMore = false
	o.log.Warn().
		Err(cause).
		Str("kind", kind.String()).
		Str("query", o.query).
		Int("page", o.page).
		Msg("fetch failed")
}

func (o *Orchestrator) finish() {
	o.loading = false
	o.initialLoadComplete = true
	o.cancel = nil
}

// Query returns the committed query.
func (o *Orchestrator) Query() string { return o.query }

// Mode returns the mode selected by the committed query.
func (o *Orchestrator) Mode() Mode { return ModeFor(o.query) }

// Page returns the page cursor. Meaningless in recommended mode.
func (o *Orchestrator) Page() int { return o.page }

// RefreshToken returns how many times Refresh was called.
func (o *Orchestrator) RefreshToken() int { return o.refreshToken }

// Results returns the current result set in display order.
func (o *Orchestrator) Results() []model.Item { return o.results.Items() }

// Len returns the number of results.
func (o *Orchestrator) Len() int { return o.results.Len() }

// Loading reports whether a pipeline run is in progress.
func (o *Orchestrator) Loading() bool { return o.loading }

// Err returns the current error kind, or ErrorNone.
func (o *Orchestrator) Err() ErrorKind { return o.err }

// Cause returns the underlying error of the current failure, if any.
func (o *Orchestrator) Cause() error { return o.cause }

// ErrorMessage returns the user-visible error text, or "".
func (o *Orchestrator) ErrorMessage() string { return o.err.Message(o.Mode()) }

// HasMore reports whether another page may be available.
func (o *Orchestrator) HasMore() bool { return o.hasMore }

// InitialLoadComplete reports whether any pipeline run has finished.
func (o *Orchestrator) InitialLoadComplete() bool { return o.initialLoadComplete }

// SentinelActive reports whether scroll detection should be wired: search
// mode with no error and more results available.
func (o *Orchestrator) SentinelActive() bool {
	return o.Mode() == ModeSearch && o.err == ErrorNone && o.hasMore
}

// CanLoadMore reports whether LoadMore would start a fetch.
func (o *Orchestrator) CanLoadMore() bool {
	return !o.loading && o.SentinelActive()
}

// ShowRecommendedFallback reports whether the recommended panel should be
// shown alongside a failed search.
func (o *Orchestrator) ShowRecommendedFallback() bool {
	return !o.loading &&
		o.page == 0 &&
		o.results.Len() == 0 &&
		o.Mode() == ModeSearch &&
		o.err != ErrorNone &&
		o.err != ErrorRateLimited
}
