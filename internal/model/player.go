package model

// PlayerID identifies a player. It is the id of the connection the player
// arrived on, so a player never outlives its connection.
type PlayerID string

// Player is a member of a room
type Player struct {
	ID       PlayerID `json:"id"`
	SocketID PlayerID `json:"socketId"`
	Name     string   `json:"name"`
	IsHost   bool     `json:"isHost"`
	Position float64  `json:"position"`
}

// NewPlayer creates a player bound to the given connection id
func NewPlayer(id PlayerID, name string, isHost bool) Player {
	return Player{
		ID:       id,
		SocketID: id,
		Name:     name,
		IsHost:   isHost,
	}
}
