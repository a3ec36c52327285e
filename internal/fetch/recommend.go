package fetch

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nikbrunner/gifpick/internal/model"
)

// attemptsPerItem bounds how many random fetches CollectUnique may spend
// per wanted item before giving up on a source that repeats itself.
const attemptsPerItem = 10

// CollectUnique fetches random items one at a time until count items with
// distinct IDs are collected. Each fetch is awaited before the next is
// issued. The first error aborts the batch.
func CollectUnique(ctx context.Context, source Source, count int) ([]model.Item, error) {
	if count <= 0 {
		return nil, nil
	}

	var set model.ResultSet
	maxAttempts := count * attemptsPerItem
	for attempt := 0; set.Len() < count; attempt++ {
		if attempt >= maxAttempts {
			return nil, fmt.Errorf("%w: %d unique of %d after %d attempts",
				errNotEnoughUnique, set.Len(), count, attempt)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := source.Random(ctx)
		if err != nil {
			return nil, err
		}
		set.Add(item)
	}
	return set.Items(), nil
}

type panelResultMsg struct {
	gen   uint64
	items []model.Item
	err   error
}

// Recommender fetches a standalone batch of unique random items. It backs
// the "recommended" panel shown next to a failed search and is independent
// of the Orchestrator's own recommended mode.
type Recommender struct {
	source Source
	count  int
	log    zerolog.Logger

	gen    uint64
	cancel context.CancelFunc

	items   []model.Item
	loading bool
	err     ErrorKind
}

// NewRecommender creates a Recommender collecting count items per batch.
func NewRecommender(source Source, count int, logger *zerolog.Logger) *Recommender {
	if count <= 0 {
		count = DefaultRecommendedCount
	}
	log := zerolog.Nop()
	if logger != nil {
		log = *logger
	}
	return &Recommender{
		source: source,
		count:  count,
		log:    log.With().Str("component", "recommender").Logger(),
	}
}

// Fetch starts a new batch, superseding any batch still in flight.
func (r *Recommender) Fetch() tea.Cmd {
	r.gen++
	gen := r.gen
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.loading = true

	source, count := r.source, r.count
	return func() tea.Msg {
		items, err := CollectUnique(ctx, source, count)
		return panelResultMsg{gen: gen, items: items, err: err}
	}
}

// Update applies messages produced by Fetch. Other messages are ignored.
func (r *Recommender) Update(msg tea.Msg) tea.Cmd {
	res, ok := msg.(panelResultMsg)
	if !ok {
		return nil
	}
	if res.gen != r.gen {
		r.log.Debug().Uint64("gen", res.gen).Msg("dropping stale batch")
		return nil
	}

	r.loading = false
	r.cancel = nil
	if res.err != nil {
		r.err = Classify(res.err)
		r.items = nil
		r.log.Warn().Err(res.err).Msg("recommended batch failed")
		return nil
	}
	r.err = ErrorNone
	r.items = res.items
	return nil
}

// Close cancels any batch in flight.
func (r *Recommender) Close() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Items returns the current batch.
func (r *Recommender) Items() []model.Item { return r.items }

// Loading reports whether a batch is being fetched.
func (r *Recommender) Loading() bool { return r.loading }

// Err returns the kind of the last failure, or ErrorNone.
func (r *Recommender) Err() ErrorKind { return r.err }

// ErrorMessage returns the user-visible error text, or "".
func (r *Recommender) ErrorMessage() string { return r.err.Message(ModeRecommended) }
