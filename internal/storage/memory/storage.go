// Package memory provides the in-memory registry backend.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/triviad/triviad/internal/dependencies/clock"
	"github.com/triviad/triviad/internal/model"
	"github.com/triviad/triviad/internal/storage"
)

// Registry is an in-memory implementation of the registry interface.
// The mutex is held only for the duration of map access, never across I/O.
type Registry struct {
	clock clock.Clock

	mu sync.RWMutex

	players       map[model.SessionID]*model.Player
	nicknameIndex map[string]model.SessionID
	seq           uint64
}

// New creates a new in-memory registry
func New() *Registry {
	return NewWithClock(clock.New())
}

// NewWithClock creates a registry with an injected clock (useful for testing)
func NewWithClock(clk clock.Clock) *Registry {
	return &Registry{
		clock:         clk,
		players:       make(map[model.SessionID]*model.Player),
		nicknameIndex: make(map[string]model.SessionID),
	}
}

// Ensure Registry implements the interface
var _ storage.Registry = (*Registry)(nil)

func (r *Registry) Register(ctx context.Context, id model.SessionID, nickname string) (*model.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.nicknameIndex[nickname]; taken {
		return nil, model.ErrNicknameTaken
	}

	r.seq++
	player := &model.Player{
		SessionID: id,
		Nickname:  nickname,
		JoinedSeq: r.seq,
		JoinedAt:  r.clock.Now(),
	}

	r.players[id] = player
	r.nicknameIndex[nickname] = id

	copied := *player
	return &copied, nil
}

func (r *Registry) Get(ctx context.Context, id model.SessionID) (*model.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	player, ok := r.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}

	copied := *player
	return &copied, nil
}

func (r *Registry) Update(ctx context.Context, id model.SessionID, fn func(*model.Player)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}

	fn(player)
	return nil
}

func (r *Registry) Remove(ctx context.Context, id model.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.players[id]
	if !ok {
		return nil
	}

	delete(r.nicknameIndex, player.Nickname)
	delete(r.players, id)
	return nil
}

func (r *Registry) Snapshot(ctx context.Context) ([]model.Player, error) {
	r.mu.RLock()
	players := make([]model.Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, *p)
	}
	r.mu.RUnlock()

	sort.Slice(players, func(i, j int) bool {
		return players[i].JoinedSeq < players[j].JoinedSeq
	})
	return players, nil
}

func (r *Registry) Sessions(ctx context.Context) ([]model.SessionID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]model.SessionID, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	return ids, nil
}
