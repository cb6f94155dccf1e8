package protocol

import (
	"encoding/json"

	"github.com/mcoot/duckrace/internal/model"
)

// CreateRoomRequest is the payload of createRoom
type CreateRoomRequest struct {
	HostName string `json:"hostName"`
}

// JoinRoomRequest is the payload of joinRoom
type JoinRoomRequest struct {
	RoomCode   model.RoomCode `json:"roomCode"`
	PlayerName string         `json:"playerName"`
}

// LeaveRoomRequest is the payload of leaveRoom. Both fields are optional.
type LeaveRoomRequest struct {
	RoomCode model.RoomCode `json:"roomCode,omitempty"`
	PlayerID string         `json:"playerId,omitempty"`
}

// UpdateStudentsRequest is the payload of updateStudents
type UpdateStudentsRequest struct {
	RoomCode model.RoomCode `json:"roomCode"`
	Students []string       `json:"students"`
}

// StartGameRequest is the payload of startGame. Settings fields are loosely
// typed on the wire; values of the wrong type fall back to defaults.
type StartGameRequest struct {
	RoomCode       model.RoomCode `json:"roomCode"`
	Students       []string       `json:"students,omitempty"`
	GameMode       any            `json:"gameMode,omitempty"`
	Palette        any            `json:"palette,omitempty"`
	UniqueColors   any            `json:"uniqueColors,omitempty"`
	UseAccessories any            `json:"useAccessories,omitempty"`
}

// Settings converts the loose wire settings into a SettingsInput
func (r StartGameRequest) Settings() model.SettingsInput {
	var in model.SettingsInput
	if s, ok := r.GameMode.(string); ok {
		in.GameMode = s
	}
	if s, ok := r.Palette.(string); ok {
		in.Palette = s
	}
	if b, ok := r.UniqueColors.(bool); ok {
		in.UniqueColors = &b
	}
	if b, ok := r.UseAccessories.(bool); ok {
		in.UseAccessories = &b
	}
	return in
}

// GameUpdateRequest is the payload of an inbound gameUpdate
type GameUpdateRequest struct {
	RoomCode  model.RoomCode  `json:"roomCode"`
	PlayerID  string          `json:"playerId"`
	Positions json.RawMessage `json:"positions"`
}

// GameEndRequest is the payload of gameEnd
type GameEndRequest struct {
	RoomCode model.RoomCode  `json:"roomCode"`
	PlayerID string          `json:"playerId"`
	Winner   json.RawMessage `json:"winner"`
	Ranking  json.RawMessage `json:"ranking"`
}

// RoomCreated confirms a new room to its creator
type RoomCreated struct {
	RoomCode model.RoomCode `json:"roomCode"`
	PlayerID model.PlayerID `json:"playerId"`
	Players  []model.Player `json:"players"`
}

// PlayerJoined announces a new member to the whole room
type PlayerJoined struct {
	Players   []model.Player `json:"players"`
	NewPlayer model.Player   `json:"newPlayer"`
}

// RoomJoined confirms a join to the joiner
type RoomJoined struct {
	RoomCode model.RoomCode `json:"roomCode"`
	PlayerID model.PlayerID `json:"playerId"`
	Players  []model.Player `json:"players"`
}

// PlayerLeft announces a departure to the remaining members
type PlayerLeft struct {
	Players    []model.Player `json:"players"`
	LeftPlayer model.Player   `json:"leftPlayer"`
}

// StudentsUpdated carries a new roster
type StudentsUpdated struct {
	Students []string `json:"students"`
}

// GameStarted announces a race and its settings
type GameStarted struct {
	Students       []string `json:"students"`
	GameMode       string   `json:"gameMode"`
	Palette        string   `json:"palette"`
	UniqueColors   bool     `json:"uniqueColors"`
	UseAccessories bool     `json:"useAccessories"`
}

// NewGameStarted builds the gameStarted payload from race participants and settings
func NewGameStarted(students []string, s model.Settings) GameStarted {
	return GameStarted{
		Students:       students,
		GameMode:       s.GameMode,
		Palette:        s.Palette,
		UniqueColors:   s.UniqueColors,
		UseAccessories: s.UseAccessories,
	}
}

// GameUpdate relays positions from one member to the others
type GameUpdate struct {
	Positions  json.RawMessage `json:"positions"`
	FromPlayer string          `json:"fromPlayer"`
}

// GameEnded announces the result of a race
type GameEnded struct {
	Winner  json.RawMessage `json:"winner"`
	Ranking json.RawMessage `json:"ranking"`
	EndedBy string          `json:"endedBy"`
}

// RoomError reports a rejected request to the requester only
type RoomError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
