package redis

import (
	"fmt"

	"github.com/mcoot/duckrace/internal/model"
)

// Key prefix for all room data
const keyPrefix = "duckrace"

// roomKey returns the Redis key for a Room
func roomKey(namespace string, code model.RoomCode) string {
	return fmt.Sprintf("%s:%s:room:%s", keyPrefix, namespace, code)
}

// roomIndexKey returns the Redis key for the SET of live room codes
func roomIndexKey(namespace string) string {
	return fmt.Sprintf("%s:%s:idx:rooms", keyPrefix, namespace)
}
