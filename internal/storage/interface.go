package storage

import (
	"context"

	"github.com/mcoot/duckrace/internal/model"
)

// Storage defines the interface for room persistence.
// Implementations hand out independent copies: a room returned by GetRoom
// may be mutated freely and only becomes visible after SaveRoom.
type Storage interface {
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)

	Close() error
}
