package redis

import (
	"fmt"

	"github.com/triviad/triviad/internal/model"
)

// Key prefix for all registry data
const keyPrefix = "triviad"

// playerKey returns the Redis key for a Player
func playerKey(id model.SessionID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// nicknameIndexKey returns the Redis key for the nickname -> session index
func nicknameIndexKey(nickname string) string {
	return fmt.Sprintf("%s:idx:nickname:%s", keyPrefix, nickname)
}

// sessionsKey returns the Redis key for the ZSET of registered sessions,
// scored by registration sequence
func sessionsKey() string {
	return fmt.Sprintf("%s:sessions", keyPrefix)
}

// seqKey returns the Redis key for the registration sequence counter
func seqKey() string {
	return fmt.Sprintf("%s:seq", keyPrefix)
}
