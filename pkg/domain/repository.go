package domain

import (
	"context"
)

// LikedEventRepository persists the per-session liked set. Add is
// idempotent: re-adding an existing (session, event) pair returns the
// stored record rather than creating a duplicate.
type LikedEventRepository interface {
	List(ctx context.Context, sessionID string) ([]LikedEvent, error)
	Add(ctx context.Context, sessionID string, event Event) (*LikedEvent, error)
	Remove(ctx context.Context, sessionID string, eventID string) error
}
