// Package domain defines the recommendation service contract.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Entry is one recommended item. Score is 0.0 for popularity-sourced
// entries and a model similarity score for CF-sourced entries; the two
// do not share a scale.
type Entry struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
	Price float64 `json:"price"`
}

// StateKind describes the model lifecycle state.
type StateKind string

const (
	StateUntrained StateKind = "untrained"
	StateTrained   StateKind = "trained"
	StateFailed    StateKind = "failed"
)

// State reports the current model state. A Failed or Untrained state
// forces fallback-only behavior; the reason is inspectable but never
// surfaces to recommendation callers.
type State struct {
	Kind      StateKind `json:"kind"`
	Reason    string    `json:"reason,omitempty"`
	TrainedAt time.Time `json:"trained_at,omitempty"`
	Users     int       `json:"users,omitempty"`
	Items     int       `json:"items,omitempty"`
}

type Service interface {
	// Recommend returns up to n entries, model-ranked first, popularity
	// top-up after, never containing already-ordered or duplicate items.
	Recommend(ctx context.Context, userID snowflake.ID, n int) ([]Entry, error)

	// GetPersonalised is an alias for Recommend kept for API
	// compatibility; output is identical for identical input.
	GetPersonalised(ctx context.Context, userID snowflake.ID, n int) ([]Entry, error)

	// Train rebuilds the interaction matrix and retrains the model,
	// publishing the new snapshot atomically. Blocking; must only run
	// outside the request path.
	Train(ctx context.Context) error

	State() State
}
