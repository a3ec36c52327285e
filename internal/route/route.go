// Package route reflects the committed query into a shareable location
// and parses such locations back into an initial query.
//
// Two forms are understood: "/?search=<query>" and the rewrite form
// "/search/<query>". The canonical form produced is the former.
package route

import (
	"net/url"
	"strings"
	"sync"
)

const (
	searchParam  = "search"
	searchPrefix = "/search/"
)

// Location renders the shareable location for a query.
// The empty query maps to "/".
func Location(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return "/"
	}
	return "/?" + url.Values{searchParam: []string{query}}.Encode()
}

// ParseLocation extracts the query from a location. Unknown forms yield "".
func ParseLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return ""
	}

	u, err := url.Parse(location)
	if err != nil {
		return ""
	}

	if strings.HasPrefix(u.Path, searchPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(u.Path, searchPrefix))
	}
	return strings.TrimSpace(u.Query().Get(searchParam))
}

// Router holds the current location. It implements fetch.QuerySink.
type Router struct {
	mu        sync.Mutex
	location  string
	listeners []func(location string)
}

// NewRouter creates a Router starting at location.
func NewRouter(location string) *Router {
	return &Router{location: Location(ParseLocation(location))}
}

// PublishQuery records query as the current location and notifies listeners.
func (r *Router) PublishQuery(query string) {
	loc := Location(query)

	r.mu.Lock()
	r.location = loc
	listeners := append([]func(string){}, r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(loc)
	}
}

// OnChange registers fn to be called after every published query.
func (r *Router) OnChange(fn func(location string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Location returns the current location.
func (r *Router) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// Query returns the query encoded in the current location.
func (r *Router) Query() string {
	return ParseLocation(r.Location())
}
