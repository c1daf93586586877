// Package storage defines the player registry store and its backends.
package storage

import (
	"context"

	"github.com/triviad/triviad/internal/model"
)

// Registry is the shared concurrent store of all currently connected players.
//
// All operations are linearizable per session: concurrent Register calls
// racing on the same nickname resolve with exactly one winner, Update applies
// its mutation atomically with no intermediate state visible to readers, and
// Snapshot returns a state that existed at some instant.
type Registry interface {
	// Register atomically checks nickname uniqueness and inserts a new
	// player with zeroed scores. Returns model.ErrNicknameTaken if another
	// registered player holds the nickname.
	Register(ctx context.Context, id model.SessionID, nickname string) (*model.Player, error)

	// Get returns a copy of the player, or model.ErrPlayerNotFound
	Get(ctx context.Context, id model.SessionID) (*model.Player, error)

	// Update applies fn atomically to the player's state.
	// Returns model.ErrPlayerNotFound if the session is not registered.
	Update(ctx context.Context, id model.SessionID, fn func(*model.Player)) error

	// Remove deletes the player. Idempotent: removing an absent session is
	// not an error.
	Remove(ctx context.Context, id model.SessionID) error

	// Snapshot returns a consistent point-in-time copy of all players,
	// ordered by registration sequence.
	Snapshot(ctx context.Context) ([]model.Player, error)

	// Sessions lists the identities of all registered players
	Sessions(ctx context.Context) ([]model.SessionID, error)
}
