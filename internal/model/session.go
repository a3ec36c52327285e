package model

import "github.com/google/uuid"

// NewSessionID creates an identifier for one picker session.
// It is sent to the search provider as its random_id parameter so
// random results are varied across a session.
func NewSessionID() string {
	return uuid.New().String()
}
