// Package fetch coordinates all data fetching for the picker.
//
// The Orchestrator owns the result list, loading flag, error, page cursor
// and "has more" flag. Every state change that requires remote work
// (query, page, refresh) starts a new pipeline run tagged with a
// generation number; messages from older runs are dropped on arrival and
// their in-flight requests are cancelled. Work is expressed as bubbletea
// commands so the presentation layer drives the orchestrator from Update.
package fetch
