// Package redis provides the Redis-backed registry backend.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/triviad/triviad/internal/model"
	"github.com/triviad/triviad/internal/storage"
)

// Registry is a Redis-backed implementation of the registry interface.
// Nickname uniqueness is enforced with SETNX on the nickname index; player
// mutation uses optimistic WATCH transactions.
type Registry struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis registry
func New(cfg Config) (*Registry, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Registry{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis registry with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Registry {
	return &Registry{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (r *Registry) Close() error {
	return r.client.Close()
}

// Ensure Registry implements the interface
var _ storage.Registry = (*Registry)(nil)

func (r *Registry) Register(ctx context.Context, id model.SessionID, nickname string) (*model.Player, error) {
	// SETNX on the nickname index is the winner gate for concurrent
	// registrations racing on the same nickname.
	set, err := r.client.SetNX(ctx, nicknameIndexKey(nickname), string(id), 0).Result()
	if err != nil {
		return nil, err
	}
	if !set {
		return nil, model.ErrNicknameTaken
	}

	// Any failure past the gate must release it: the player key was never
	// written, so Remove cannot resolve the nickname later.
	seq, err := r.client.Incr(ctx, seqKey()).Result()
	if err != nil {
		r.releaseNickname(nickname)
		return nil, err
	}

	player := &model.Player{
		SessionID: id,
		Nickname:  nickname,
		JoinedSeq: uint64(seq),
		JoinedAt:  time.Now(),
	}

	data, err := json.Marshal(player)
	if err != nil {
		r.releaseNickname(nickname)
		return nil, err
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, playerKey(id), data, 0)
	pipe.ZAdd(ctx, sessionsKey(), redis.Z{Score: float64(seq), Member: string(id)})
	if _, err := pipe.Exec(ctx); err != nil {
		r.releaseNickname(nickname)
		return nil, err
	}

	copied := *player
	return &copied, nil
}

// releaseNickname undoes the SETNX winner gate after a failed registration.
// Best effort on a fresh context, since the caller's context may itself be
// why the registration failed.
func (r *Registry) releaseNickname(nickname string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = r.client.Del(ctx, nicknameIndexKey(nickname)).Err()
}

func (r *Registry) Get(ctx context.Context, id model.SessionID) (*model.Player, error) {
	data, err := r.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *Registry) Update(ctx context.Context, id model.SessionID, fn func(*model.Player)) error {
	key := playerKey(id)

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPlayerNotFound
			}
			return err
		}

		var player model.Player
		if err := json.Unmarshal(data, &player); err != nil {
			return err
		}

		fn(&player)

		updated, err := json.Marshal(&player)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	// Retry on WATCH conflicts
	for {
		err := r.client.Watch(ctx, txn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
}

func (r *Registry) Remove(ctx context.Context, id model.SessionID) error {
	player, err := r.Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil
		}
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, playerKey(id))
	pipe.Del(ctx, nicknameIndexKey(player.Nickname))
	pipe.ZRem(ctx, sessionsKey(), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Registry) Snapshot(ctx context.Context) ([]model.Player, error) {
	ids, err := r.client.ZRange(ctx, sessionsKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(model.SessionID(id))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]model.Player, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Session removed between ZRANGE and MGET
			continue
		}
		var player model.Player
		if err := json.Unmarshal([]byte(raw), &player); err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	sort.Slice(players, func(i, j int) bool {
		return players[i].JoinedSeq < players[j].JoinedSeq
	})
	return players, nil
}

func (r *Registry) Sessions(ctx context.Context) ([]model.SessionID, error) {
	ids, err := r.client.ZRange(ctx, sessionsKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]model.SessionID, len(ids))
	for i, id := range ids {
		sessions[i] = model.SessionID(id)
	}
	return sessions, nil
}
