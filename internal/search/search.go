package search

import (
	"github.com/nikbrunner/gifpick/internal/model"
	"github.com/sahilm/fuzzy"
)

// SearchResult represents a fuzzy match against a loaded item.
type SearchResult struct {
	Item           model.Item
	MatchedIndexes []int
	Score          int
}

// itemTitles implements fuzzy.Source for an item slice.
type itemTitles []model.Item

func (it itemTitles) String(i int) string {
	return it[i].DisplayTitle()
}

func (it itemTitles) Len() int {
	return len(it)
}

// FilterItems matches items by title using fuzzy matching.
// Returns results sorted by match score (best first). An empty query
// matches nothing; callers show the unfiltered list instead.
func FilterItems(items []model.Item, query string) []SearchResult {
	if query == "" || len(items) == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(query, itemTitles(items))

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Item:           items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// Items returns the matched items in result order.
func Items(results []SearchResult) []model.Item {
	out := make([]model.Item, len(results))
	for i, r := range results {
		out[i] = r.Item
	}
	return out
}
