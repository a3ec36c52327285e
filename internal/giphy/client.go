package giphy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nikbrunner/gifpick/internal/model"
)

const (
	DefaultBaseURL  = "https://api.giphy.com"
	defaultTimeout  = 10 * time.Second
	userAgent       = "gifpick/0.1"
	searchPath      = "/v1/gifs/search"
	randomPath      = "/v1/gifs/random"
	maxErrorBodyLen = 512
)

var (
	ErrNoAPIKey     = errors.New("GIPHY_API_KEY environment variable not set")
	ErrRateLimited  = errors.New("rate limited")
	ErrQueryTooLong = errors.New("query too long")
	ErrFetchFailed  = errors.New("fetch failed")
)

// Client talks to the GIPHY HTTP API.
type Client struct {
	apiKey   string
	baseURL  *url.URL
	rating   string
	lang     string
	randomID string
	http     *http.Client
	log      zerolog.Logger
}

// ClientParams holds parameters for creating a new Client.
type ClientParams struct {
	APIKey   string
	BaseURL  string        // optional, defaults to DefaultBaseURL
	Rating   string        // optional content rating filter (g, pg, pg-13, r)
	Lang     string        // optional search language
	RandomID string        // optional session id sent as random_id
	Timeout  time.Duration // optional, defaults to 10s
	Logger   *zerolog.Logger
}

// NewClient creates a new Client.
// Returns ErrNoAPIKey if no API key was provided.
func NewClient(params ClientParams) (*Client, error) {
	apiKey := strings.TrimSpace(params.APIKey)
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	base, err := parseBaseURL(params.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := zerolog.Nop()
	if params.Logger != nil {
		logger = *params.Logger
	}

	return &Client{
		apiKey:   apiKey,
		baseURL:  base,
		rating:   strings.TrimSpace(params.Rating),
		lang:     strings.TrimSpace(params.Lang),
		randomID: strings.TrimSpace(params.RandomID),
		http:     &http.Client{Timeout: timeout},
		log:      logger.With().Str("component", "giphy").Logger(),
	}, nil
}

// Search returns up to limit items matching query, starting at offset.
// An empty page is a valid result, not an error.
func (c *Client) Search(ctx context.Context, query string, limit, offset int) ([]model.Item, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}

	values := c.baseValues()
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(limit))
	values.Set("offset", strconv.Itoa(offset))
	if c.lang != "" {
		values.Set("lang", c.lang)
	}

	var payload searchResponse
	if err := c.get(ctx, searchPath, values, &payload); err != nil {
		return nil, err
	}

	items := make([]model.Item, 0, len(payload.Data))
	for _, gif := range payload.Data {
		items = append(items, gif.toItem())
	}
	c.log.Debug().
		Str("query", query).
		Int("offset", offset).
		Int("count", len(items)).
		Msg("search completed")
	return items, nil
}

// Random returns a single random item.
func (c *Client) Random(ctx context.Context) (model.Item, error) {
	if c == nil {
		return model.Item{}, fmt.Errorf("client is nil")
	}

	var payload randomResponse
	if err := c.get(ctx, randomPath, c.baseValues(), &payload); err != nil {
		return model.Item{}, err
	}

	raw := strings.TrimSpace(string(payload.Data))
	if !strings.HasPrefix(raw, "{") {
		return model.Item{}, fmt.Errorf("%w: random returned no item", ErrFetchFailed)
	}

	var gif gifObject
	if err := json.Unmarshal(payload.Data, &gif); err != nil {
		return model.Item{}, fmt.Errorf("%w: decode random item: %v", ErrFetchFailed, err)
	}
	if gif.ID == "" {
		return model.Item{}, fmt.Errorf("%w: random item has no id", ErrFetchFailed)
	}
	return gif.toItem(), nil
}

func (c *Client) baseValues() url.Values {
	values := url.Values{}
	values.Set("api_key", c.apiKey)
	if c.rating != "" {
		values.Set("rating", c.rating)
	}
	if c.randomID != "" {
		values.Set("random_id", c.randomID)
	}
	return values
}

func (c *Client) get(ctx context.Context, path string, values url.Values, dest any) error {
	rel := &url.URL{Path: path, RawQuery: values.Encode()}
	reqURL := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		// Cancellation belongs to the caller, not the API.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		c.log.Warn().
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("request failed")
		return statusError(resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrFetchFailed, err)
	}
	return nil
}

// statusError maps a non-2xx status code to one of the package sentinel errors.
func statusError(code int, body string) error {
	body = strings.TrimSpace(body)
	switch code {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, code)
	case http.StatusRequestURITooLong:
		return fmt.Errorf("%w: status %d", ErrQueryTooLong, code)
	default:
		if body == "" {
			return fmt.Errorf("%w: status %d", ErrFetchFailed, code)
		}
		return fmt.Errorf("%w: status %d: %s", ErrFetchFailed, code, body)
	}
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
