package fetch

import (
	"context"
	"errors"

	"github.com/nikbrunner/gifpick/internal/giphy"
)

// ErrorKind classifies a failed fetch. The zero value means no error.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	ErrorRateLimited
	ErrorQueryTooLong
	ErrorFetchFailed
)

var errNotEnoughUnique = errors.New("random source kept returning known items")

// Classify maps an error returned by a Source to an ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorNone
	case errors.Is(err, giphy.ErrRateLimited):
		return ErrorRateLimited
	case errors.Is(err, giphy.ErrQueryTooLong):
		return ErrorQueryTooLong
	default:
		return ErrorFetchFailed
	}
}

// isCancelled reports whether err only signals that the caller gave up.
func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Message returns the user-visible text for the error in the given mode.
func (k ErrorKind) Message(mode Mode) string {
	switch k {
	case ErrorRateLimited:
		return "API limit reached. Try again later"
	case ErrorQueryTooLong:
		return "Search query too long. Please refine your search."
	case ErrorFetchFailed:
		if mode == ModeRecommended {
			return "Failed to fetch recommended GIFs"
		}
		return "Failed to fetch GIFs"
	default:
		return ""
	}
}

func (k ErrorKind) String() string {
	switch k {
	case ErrorNone:
		return "none"
	case ErrorRateLimited:
		return "rate_limited"
	case ErrorQueryTooLong:
		return "query_too_long"
	case ErrorFetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}
