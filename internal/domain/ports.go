package domain

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNetworkFailure wraps every failed call to the remote service.
var ErrNetworkFailure = errors.New("network failure")

// LocalStore is the local snapshot of the remote restaurant list plus the pending-review slot.
type LocalStore interface {
	// Insert upserts restaurants by id; records absent from rs are left alone.
	Insert(ctx context.Context, rs []Restaurant) error
	// SelectAll returns every cached restaurant ordered by id.
	SelectAll(ctx context.Context) ([]Restaurant, error)

	// PutPending overwrites the pending slot.
	PutPending(ctx context.Context, review json.RawMessage) error
	// GetPending returns nil when the slot is empty.
	GetPending(ctx context.Context) (json.RawMessage, error)
	// RemoveKey clears PendingSlot, or deletes the cached restaurant with that id.
	RemoveKey(ctx context.Context, key string) error
}

type RemoteClient interface {
	GetRestaurants(ctx context.Context) ([]json.RawMessage, error)
	PostReview(ctx context.Context, review json.RawMessage) (json.RawMessage, error)
}

// Notifier is the user-visible toast channel.
type Notifier interface {
	Error(msg string)
	Warning(msg string)
	Success(msg string)
}
