package session

import (
	"sync"

	"github.com/mcoot/duckrace/internal/model"
)

// Index maps each live connection to the room it belongs to
type Index struct {
	mu    sync.RWMutex
	rooms map[model.PlayerID]model.RoomCode
}

// NewIndex creates an empty connection index
func NewIndex() *Index {
	return &Index{rooms: make(map[model.PlayerID]model.RoomCode)}
}

// Bind records that the connection belongs to the room, replacing any previous binding
func (i *Index) Bind(connID model.PlayerID, code model.RoomCode) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.rooms[connID] = code
}

// Lookup returns the room the connection belongs to
func (i *Index) Lookup(connID model.PlayerID) (model.RoomCode, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	code, ok := i.rooms[connID]
	return code, ok
}

// Unbind removes the connection's binding if it still points at code
func (i *Index) Unbind(connID model.PlayerID, code model.RoomCode) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.rooms[connID] == code {
		delete(i.rooms, connID)
	}
}

// Len returns the number of bound connections
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.rooms)
}
