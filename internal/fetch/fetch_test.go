package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/gifpick/internal/giphy"
	"github.com/nikbrunner/gifpick/internal/model"
)

type searchCall struct {
	Query  string
	Limit  int
	Offset int
}

// fakeSource is a scripted Source. Search answers come from searchFn;
// Random answers are popped from randoms in order.
type fakeSource struct {
	mu          sync.Mutex
	searches    []searchCall
	searchFn    func(query string, limit, offset int) ([]model.Item, error)
	randoms     []randomReply
	randomCalls int
}

type randomReply struct {
	item model.Item
	err  error
}

func (f *fakeSource) Search(ctx context.Context, query string, limit, offset int) ([]model.Item, error) {
	f.mu.Lock()
	f.searches = append(f.searches, searchCall{Query: query, Limit: limit, Offset: offset})
	fn := f.searchFn
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, nil
	}
	return fn(query, limit, offset)
}

func (f *fakeSource) Random(ctx context.Context) (model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.randomCalls++
	if len(f.randoms) == 0 {
		return model.Item{}, fmt.Errorf("%w: no more scripted randoms", giphy.ErrFetchFailed)
	}
	reply := f.randoms[0]
	f.randoms = f.randoms[1:]
	return reply.item, reply.err
}

func (f *fakeSource) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

type recordingSink struct{ published []string }

func (s *recordingSink) PublishQuery(query string) { s.published = append(s.published, query) }

func makeItems(prefix string, n int) []model.Item {
	out := make([]model.Item, n)
	for i := range out {
		id := fmt.Sprintf("%s%d", prefix, i)
		out[i] = model.Item{ID: id, CanonicalURL: "https://giphy.com/gifs/" + id}
	}
	return out
}

func randomsOf(ids ...string) []randomReply {
	out := make([]randomReply, len(ids))
	for i, id := range ids {
		out[i] = randomReply{item: model.Item{ID: id}}
	}
	return out
}

func resultIDs(o *Orchestrator) []string {
	var out []string
	for _, item := range o.Results() {
		out = append(out, item.ID)
	}
	return out
}

// drain executes cmd and feeds every resulting message back into the
// orchestrator until no further command is produced.
func drain(t *testing.T, o *Orchestrator, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 20 {
			t.Fatal("command chain did not settle")
		}
		cmd = o.Update(cmd())
	}
}

func newTestOrchestrator(src *fakeSource, sink QuerySink) *Orchestrator {
	return New(src, Options{Debounce: 0, Sink: sink})
}

// startSearch starts the orchestrator in recommended mode and then commits query.
func startSearch(t *testing.T, o *Orchestrator, src *fakeSource, query string) {
	t.Helper()
	src.randoms = append(src.randoms, randomsOf("r1", "r2", "r3")...)
	drain(t, o, o.Start(""))
	drain(t, o, o.SetQuery(query))
}

func TestOrchestrator_RecommendedModeCollectsThreeUnique(t *testing.T) {
	src := &fakeSource{randoms: randomsOf("a", "a", "b", "a", "c")}
	o := newTestOrchestrator(src, nil)

	cmd := o.Start("")
	assert.Assert(t, o.Loading())
	assert.Assert(t, !o.InitialLoadComplete())
	drain(t, o, cmd)

	assert.DeepEqual(t, resultIDs(o), []string{"a", "b", "c"})
	assert.Equal(t, src.randomCalls, 5)
	assert.Assert(t, !o.Loading())
	assert.Assert(t, !o.HasMore())
	assert.Equal(t, o.Err(), ErrorNone)
	assert.Assert(t, o.InitialLoadComplete())
	assert.Equal(t, src.searchCount(), 0)
}

func TestOrchestrator_RecommendedFailureClearsResults(t *testing.T) {
	src := &fakeSource{randoms: []randomReply{
		{item: model.Item{ID: "a"}},
		{err: fmt.Errorf("%w: status 429", giphy.ErrRateLimited)},
	}}
	o := newTestOrchestrator(src, nil)

	drain(t, o, o.Start(""))

	assert.Equal(t, o.Len(), 0)
	assert.Equal(t, o.Err(), ErrorRateLimited)
	assert.Equal(t, o.ErrorMessage(), "API limit reached. Try again later")
	assert.Assert(t, !o.Loading())
	assert.Assert(t, o.InitialLoadComplete())
}

func TestOrchestrator_RecommendedFetchFailedMessage(t *testing.T) {
	src := &fakeSource{}
	o := newTestOrchestrator(src, nil)

	drain(t, o, o.Start(""))

	assert.Equal(t, o.Err(), ErrorFetchFailed)
	assert.Equal(t, o.ErrorMessage(), "Failed to fetch recommended GIFs")
}

func TestOrchestrator_RefreshReissuesRecommendedBatch(t *testing.T) {
	src := &fakeSource{randoms: randomsOf("a", "b", "c", "d", "e", "f")}
	o := newTestOrchestrator(src, nil)

	drain(t, o, o.Start(""))
	assert.DeepEqual(t, resultIDs(o), []string{"a", "b", "c"})

	drain(t, o, o.Refresh())

	assert.Equal(t, o.RefreshToken(), 1)
	assert.DeepEqual(t, resultIDs(o), []string{"d", "e", "f"})
	assert.Equal(t, src.randomCalls, 6)
}

func TestOrchestrator_DebounceOnlyCommitsLastValue(t *testing.T) {
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		return makeItems(query, 2), nil
	}}
	sink := &recordingSink{}
	o := newTestOrchestrator(src, sink)
	src.randoms = randomsOf("r1", "r2", "r3")
	drain(t, o, o.Start(""))

	cmds := []tea.Cmd{o.SetQuery("c"), o.SetQuery("ca"), o.SetQuery("cat")}

	// Timers fire in order; only the last keystroke is still current.
	var next tea.Cmd
	for _, cmd := range cmds {
		if c := o.Update(cmd()); c != nil {
			assert.Assert(t, next == nil, "more than one keystroke committed")
			next = c
		}
	}
	drain(t, o, next)

	assert.Equal(t, src.searchCount(), 1)
	assert.Equal(t, src.searches[0].Query, "cat")
	assert.DeepEqual(t, sink.published, []string{"cat"})
	assert.Equal(t, o.Query(), "cat")
}

func TestOrchestrator_SameQueryDoesNotRefetch(t *testing.T) {
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		return makeItems("x", 9), nil
	}}
	o := newTestOrchestrator(src, nil)
	startSearch(t, o, src, "cats")

	drain(t, o, o.SetQuery("  cats "))

	assert.Equal(t, src.searchCount(), 1)
}

func TestOrchestrator_SearchRequestsPageSizeAndOffset(t *testing.T) {
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		return makeItems(fmt.Sprintf("p%d-", offset), limit), nil
	}}
	o := newTestOrchestrator(src, nil)
	startSearch(t, o, src, "cats")

	drain(t, o, o.LoadMore())
	drain(t, o, o.LoadMore())

	assert.Equal(t, src.searchCount(), 3)
	for i, call := range src.searches {
		assert.Equal(t, call.Limit, 9)
		assert.Equal(t, call.Offset, i*9)
	}
	assert.Equal(t, o.Page(), 2)
	assert.Equal(t, o.Len(), 27)
}

func TestOrchestrator_HasMoreFollowsPageFill(t *testing.T) {
	tests := []struct {
		name     string
		returned int
		want     bool
	}{
		{"full page", 9, true},
		{"short page", 8, false},
		{"empty page", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
				return makeItems("g", tt.returned), nil
			}}
			o := newTestOrchestrator(src, nil)
			startSearch(t, o, src, "dogs")

			assert.Equal(t, o.HasMore(), tt.want)
			assert.Equal(t, o.Len(), tt.returned)
			assert.Equal(t, o.Err(), ErrorNone)
		})
	}
}

func TestOrchestrator_CatsScenarioAppendsOnlyNewIDs(t *testing.T) {
	page0 := makeItems("c", 9)
	page1 := append([]model.Item{page0[2], page0[7]}, makeItems("n", 3)...)

	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		if offset == 0 {
			return page0, nil
		}
		return page1, nil
	}}
	o := newTestOrchestrator(src, nil)
	startSearch(t, o, src, "cats")

	assert.Assert(t, o.HasMore())
	assert.Equal(t, o.Len(), 9)

	drain(t, o, o.LoadMore())

	assert.Equal(t, o.Page(), 1)
	assert.Equal(t, o.Len(), 12)
	assert.Assert(t, !o.HasMore())

	seen := map[string]bool{}
	for _, id := range resultIDs(o) {
		assert.Assert(t, !seen[id], "duplicate id %q", id)
		seen[id] = true
	}
	assert.DeepEqual(t, resultIDs(o)[9:], []string{"n0", "n1", "n2"})
}

func TestOrchestrator_PageZeroDedupes(t *testing.T) {
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		items := makeItems("d", 9)
		items[8] = items[0]
		return items, nil
	}}
	o := newTestOrchestrator(src, nil)
	startSearch(t, o, src, "dup")

	assert.Equal(t, o.Len(), 8)
	assert.Assert(t, o.HasMore(), "hasMore counts returned items, not unique ones")
}

func TestOrchestrator_SimulateRateLimitSkipsNetwork(t *testing.T) {
	for _, q := range []string{"simulate429", "SIMULATE429", "Simulate429"} {
		t.Run(q, func(t *testing.T) {
			src := &fakeSource{}
			o := newTestOrchestrator(src, nil)
			src.randoms = randomsOf("r1", "r2", "r3")
			drain(t, o, o.Start(""))

			commit := o.Update(o.SetQuery(q)())

			assert.Assert(t, is.Nil(commit))
			assert.Equal(t, src.searchCount(), 0)
			assert.Equal(t, o.Err(), ErrorRateLimited)
			assert.ErrorIs(t, o.Cause(), giphy.ErrRateLimited)
			assert.Assert(t, !o.Loading())
			assert.Assert(t, !o.HasMore())
			assert.Assert(t, !o.ShowRecommendedFallback())
		})
	}
}

func TestOrchestrator_RateLimitOnLaterPagePreservesResults(t *testing.T) {
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		if offset >= 18 {
			return nil, fmt.Errorf("%w: status 429", giphy.ErrRateLimited)
		}
		return makeItems(fmt.Sprintf("o%d-", offset), 9), nil
	}}
	o := newTestOrchestrator(src, nil)
	startSearch(t, o, src, "cats")
	drain(t, o, o.LoadMore())
	before := resultIDs(o)
	assert.Equal(t, len(before), 18)

	drain(t, o, o.LoadMore())

	assert.Equal(t, o.Err(), ErrorRateLimited)
	assert.DeepEqual(t, resultIDs(o), before)
	assert.Assert(t, !o.HasMore())
	assert.Assert(t, !o.Loading())
}

func TestOrchestrator_OtherErrorsClearResults(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
		text string
	}{
		{"query too long", fmt.Errorf("%w: status 414", giphy.ErrQueryTooLong), ErrorQueryTooLong,
			"Search query too long. Please refine your search."},
		{"server error", fmt.Errorf("%w: status 500", giphy.ErrFetchFailed), ErrorFetchFailed,
			"Failed to fetch GIFs"},
		{"unclassified", errors.New("boom"), ErrorFetchFailed, "Failed to fetch GIFs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
				if offset > 0 {
					return nil, tt.err
				}
				return makeItems("k", 9), nil
			}}
			o := newTestOrchestrator(src, nil)
			startSearch(t, o, src, "cats")
			assert.Equal(t, o.Len(), 9)

			drain(t, o, o.LoadMore())

			assert.Equal(t, o.Len(), 0, "earlier pages are discarded too")
			assert.Equal(t, o.Err(), tt.kind)
			assert.Equal(t, o.ErrorMessage(), tt.text)
			assert.Assert(t, !o.HasMore())
			assert.Assert(t, !o.ShowRecommendedFallback(), "fallback only on page 0")
		})
	}
}

func TestOrchestrator_ShowRecommendedFallback(t *testing.T) {
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		return nil, fmt.Errorf("%w: status 500", giphy.ErrFetchFailed)
	}}
	o := newTestOrchestrator(src, nil)
	startSearch(t, o, src, "cats")

	assert.Assert(t, o.ShowRecommendedFallback())

	// An empty successful search is not a failure.
	src.searchFn = func(query string, limit, offset int) ([]model.Item, error) { return nil, nil }
	drain(t, o, o.SetQuery("dogs"))
	assert.Equal(t, o.Len(), 0)
	assert.Assert(t, !o.ShowRecommendedFallback())
}

func TestOrchestrator_LoadMorePreconditions(t *testing.T) {
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		return makeItems(fmt.Sprintf("o%d-", offset), 9), nil
	}}
	o := newTestOrchestrator(src, nil)

	// Recommended mode.
	src.randoms = randomsOf("r1", "r2", "r3")
	drain(t, o, o.Start(""))
	assert.Assert(t, is.Nil(o.LoadMore()))
	assert.Equal(t, o.Page(), 0)

	// Loading.
	drain(t, o, o.SetQuery("cats"))
	assert.Assert(t, o.LoadMore() != nil)
	assert.Assert(t, o.Loading())
	assert.Assert(t, is.Nil(o.LoadMore()))
	assert.Equal(t, o.Page(), 1)

	// No more results.
	src.searchFn = func(query string, limit, offset int) ([]model.Item, error) { return nil, nil }
	drain(t, o, o.Refresh())
	assert.Assert(t, !o.HasMore())
	assert.Assert(t, is.Nil(o.LoadMore()))

	// Error present.
	src.searchFn = func(query string, limit, offset int) ([]model.Item, error) {
		return nil, fmt.Errorf("%w: status 429", giphy.ErrRateLimited)
	}
	drain(t, o, o.SetQuery("dogs"))
	assert.Equal(t, o.Err(), ErrorRateLimited)
	assert.Assert(t, is.Nil(o.LoadMore()))
}

func TestOrchestrator_QueryChangeResetsPage(t *testing.T) {
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		return makeItems(query+"-", 9), nil
	}}
	o := newTestOrchestrator(src, nil)
	startSearch(t, o, src, "cats")
	drain(t, o, o.LoadMore())
	assert.Equal(t, o.Page(), 1)

	drain(t, o, o.SetQuery("dogs"))

	assert.Equal(t, o.Page(), 0)
	last := src.searches[len(src.searches)-1]
	assert.Equal(t, last.Query, "dogs")
	assert.Equal(t, last.Offset, 0)
	assert.Equal(t, o.Len(), 9)
	assert.Assert(t, strings.HasPrefix(o.Results()[0].ID, "dogs-"))
}

func TestOrchestrator_StaleDebounceTimerIsIgnored(t *testing.T) {
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		return makeItems(query+"-", 3), nil
	}}
	o := newTestOrchestrator(src, nil)
	src.randoms = randomsOf("r1", "r2", "r3")
	drain(t, o, o.Start(""))

	catsDue := o.Update(o.SetQuery("cats")())
	dogsDue := o.Update(o.SetQuery("dogs")())

	// The cats timer fires after dogs replaced it.
	assert.Assert(t, is.Nil(o.Update(catsDue())))
	drain(t, o, o.Update(dogsDue()))

	assert.Equal(t, src.searchCount(), 1)
	assert.Equal(t, src.searches[0].Query, "dogs")
}

func TestOrchestrator_StaleResponseDoesNotOverwriteNewerState(t *testing.T) {
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		return makeItems(query+"-", 9), nil
	}}
	o := newTestOrchestrator(src, nil)
	src.randoms = randomsOf("r1", "r2", "r3")
	drain(t, o, o.Start(""))

	// cats is in flight when dogs is committed.
	catsFetch := o.Update(o.Update(o.SetQuery("cats")())())
	assert.Assert(t, catsFetch != nil)
	drain(t, o, o.SetQuery("dogs"))

	// Run the cats request with a live context to simulate a late reply.
	late := searchResultMsg{gen: 1, page: 0, items: makeItems("cats-", 9)}
	if res, ok := catsFetch().(searchResultMsg); ok {
		late.gen = res.gen
	}
	o.Update(late)

	assert.Equal(t, o.Query(), "dogs")
	assert.Assert(t, strings.HasPrefix(o.Results()[0].ID, "dogs-"))
	assert.Assert(t, !o.Loading())
}

func TestOrchestrator_NewRunCancelsInFlightRequest(t *testing.T) {
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		return makeItems("x", 9), nil
	}}
	o := newTestOrchestrator(src, nil)
	src.randoms = randomsOf("r1", "r2", "r3")
	drain(t, o, o.Start(""))

	catsFetch := o.Update(o.Update(o.SetQuery("cats")())())
	o.SetQuery("dogs")
	o.Update(queryInputMsg{seq: o.inputSeq, query: "dogs"})

	res := catsFetch().(searchResultMsg)
	assert.ErrorIs(t, res.err, context.Canceled)

	o.Update(res)
	assert.Equal(t, o.Err(), ErrorNone)
	assert.Assert(t, o.Loading(), "dogs run is still pending")
}

func TestOrchestrator_ClearQueryReturnsToRecommended(t *testing.T) {
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		return makeItems("s", 9), nil
	}}
	sink := &recordingSink{}
	o := newTestOrchestrator(src, sink)
	startSearch(t, o, src, "cats")

	pending := o.SetQuery("catsss")
	src.randoms = randomsOf("x", "y", "z")
	drain(t, o, o.ClearQuery())

	assert.Equal(t, o.Mode(), ModeRecommended)
	assert.DeepEqual(t, resultIDs(o), []string{"x", "y", "z"})
	assert.Assert(t, is.Nil(o.Update(pending())), "keystroke before clear is dropped")
	assert.DeepEqual(t, sink.published, []string{"cats", ""})
}

func TestOrchestrator_StartWithInitialQuery(t *testing.T) {
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		return makeItems("s", 4), nil
	}}
	sink := &recordingSink{}
	o := newTestOrchestrator(src, sink)

	drain(t, o, o.Start("  party parrot "))

	assert.Equal(t, o.Query(), "party parrot")
	assert.Equal(t, o.Mode(), ModeSearch)
	assert.Equal(t, src.searches[0].Query, "party parrot")
	assert.Equal(t, o.Len(), 4)
	assert.Assert(t, o.InitialLoadComplete())
	assert.Assert(t, is.Len(sink.published, 0), "initial query comes from the route")
}

func TestCollectUnique_GivesUpOnRepeatingSource(t *testing.T) {
	var replies []randomReply
	for i := 0; i < 40; i++ {
		replies = append(replies, randomReply{item: model.Item{ID: "same"}})
	}
	src := &fakeSource{randoms: replies}

	_, err := CollectUnique(context.Background(), src, 3)

	assert.ErrorIs(t, err, errNotEnoughUnique)
	assert.Equal(t, Classify(err), ErrorFetchFailed)
	assert.Equal(t, src.randomCalls, 30)
}

func TestCollectUnique_StopsOnCancelledContext(t *testing.T) {
	src := &fakeSource{randoms: randomsOf("a", "b", "c")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CollectUnique(ctx, src, 3)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, src.randomCalls, 0)
}

func TestRecommender_FetchAndStaleBatch(t *testing.T) {
	src := &fakeSource{randoms: randomsOf("a", "b", "c", "d", "e", "f")}
	r := NewRecommender(src, 3, nil)

	first := r.Fetch()
	second := r.Fetch()
	assert.Assert(t, r.Loading())

	// first was cancelled by second; its batch must not land.
	r.Update(first())
	assert.Assert(t, r.Loading())
	assert.Assert(t, is.Len(r.Items(), 0))

	r.Update(second())
	assert.Assert(t, !r.Loading())
	assert.Equal(t, len(r.Items()), 3)
	assert.Equal(t, r.Err(), ErrorNone)
}

func TestRecommender_Failure(t *testing.T) {
	src := &fakeSource{}
	r := NewRecommender(src, 3, nil)

	r.Update(r.Fetch()())

	assert.Equal(t, r.Err(), ErrorFetchFailed)
	assert.Equal(t, r.ErrorMessage(), "Failed to fetch recommended GIFs")
	assert.Assert(t, is.Len(r.Items(), 0))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Classify(nil), ErrorNone)
	assert.Equal(t, Classify(fmt.Errorf("wrap: %w", giphy.ErrRateLimited)), ErrorRateLimited)
	assert.Equal(t, Classify(fmt.Errorf("wrap: %w", giphy.ErrQueryTooLong)), ErrorQueryTooLong)
	assert.Equal(t, Classify(giphy.ErrFetchFailed), ErrorFetchFailed)
	assert.Equal(t, Classify(errors.New("dial tcp: no such host")), ErrorFetchFailed)
}

func TestFirstPage_SearchDedupesPageZero(t *testing.T) {
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		items := makeItems("c", 4)
		return append(items, items[1], items[3]), nil
	}}

	items, err := FirstPage(context.Background(), src, "  cats ", 0, 0)

	assert.NilError(t, err)
	assert.Equal(t, len(items), 4)
	assert.DeepEqual(t, src.searches, []searchCall{{Query: "cats", Limit: DefaultPageSize, Offset: 0}})
}

func TestFirstPage_RateLimitSentinelSkipsSource(t *testing.T) {
	for _, q := range []string{"simulate429", "SIMULATE429", " Simulate429 "} {
		t.Run(q, func(t *testing.T) {
			src := &fakeSource{}

			items, err := FirstPage(context.Background(), src, q, 9, 3)

			assert.ErrorIs(t, err, giphy.ErrRateLimited)
			assert.Equal(t, Classify(err), ErrorRateLimited)
			assert.Assert(t, is.Len(items, 0))
			assert.Equal(t, src.searchCount(), 0)
			assert.Equal(t, src.randomCalls, 0)
		})
	}
}

func TestFirstPage_EmptyQueryCollectsRecommended(t *testing.T) {
	src := &fakeSource{randoms: randomsOf("r1", "r1", "r2", "r3")}

	items, err := FirstPage(context.Background(), src, "", 9, 3)

	assert.NilError(t, err)
	assert.Equal(t, len(items), 3)
	assert.Equal(t, src.searchCount(), 0)
}

func TestFirstPage_SearchErrorPassesThrough(t *testing.T) {
	src := &fakeSource{searchFn: func(string, int, int) ([]model.Item, error) {
		return nil, fmt.Errorf("%w: status 414", giphy.ErrQueryTooLong)
	}}

	_, err := FirstPage(context.Background(), src, "long", 9, 3)

	assert.Equal(t, Classify(err), ErrorQueryTooLong)
}

func TestOrchestrator_RetypingFailedQueryDoesNotRetry(t *testing.T) {
	fail := true
	src := &fakeSource{searchFn: func(query string, limit, offset int) ([]model.Item, error) {
		if fail {
			return nil, fmt.Errorf("%w: status 500", giphy.ErrFetchFailed)
		}
		return makeItems("ok", 3), nil
	}}
	o := newTestOrchestrator(src, nil)
	startSearch(t, o, src, "cats")
	assert.Equal(t, o.Err(), ErrorFetchFailed)

	fail = false
	drain(t, o, o.SetQuery("cats"))
	assert.Equal(t, src.searchCount(), 1)
	assert.Equal(t, o.Err(), ErrorFetchFailed)

	drain(t, o, o.SetQuery("cat"))
	drain(t, o, o.SetQuery("cats"))
	assert.Equal(t, src.searchCount(), 3)
	assert.Equal(t, o.Err(), ErrorNone)
	assert.Equal(t, o.Len(), 3)
}
