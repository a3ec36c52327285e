package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikbrunner/gifpick/internal/giphy"
	"github.com/nikbrunner/gifpick/internal/model"
)

var errSimulatedRateLimit = fmt.Errorf("%w: simulated by %q", giphy.ErrRateLimited, RateLimitSentinel)

// IsRateLimitSentinel reports whether query asks for a simulated rate limit.
func IsRateLimitSentinel(query string) bool {
	return strings.EqualFold(strings.TrimSpace(query), RateLimitSentinel)
}

// FirstPage fetches what the picker shows first for query, outside of any
// interactive session. The empty query yields a batch of recommendedCount
// unique random items. Any other query yields page 0 of the search with
// duplicate IDs removed. The rate-limit sentinel fails with
// giphy.ErrRateLimited and never reaches source.
func FirstPage(ctx context.Context, source Source, query string, pageSize, recommendedCount int) ([]model.Item, error) {
	query = strings.TrimSpace(query)
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if recommendedCount <= 0 {
		recommendedCount = DefaultRecommendedCount
	}

	if ModeFor(query) == ModeRecommended {
		return CollectUnique(ctx, source, recommendedCount)
	}
	if IsRateLimitSentinel(query) {
		return nil, errSimulatedRateLimit
	}

	items, err := source.Search(ctx, query, pageSize, 0)
	if err != nil {
		return nil, err
	}
	return model.NewResultSet(items).Items(), nil
}
