package response

import (
	"github.com/mcoot/duckrace/internal/model"
)

// RoomStats is one room in the stats response
type RoomStats struct {
	Code        string `json:"code"`
	Players     int    `json:"players"`
	GameStarted bool   `json:"gameStarted"`
	GameRunning bool   `json:"gameRunning"`
}

// Stats is the response for GET /api/stats
type Stats struct {
	TotalRooms   int         `json:"totalRooms"`
	TotalPlayers int         `json:"totalPlayers"`
	Rooms        []RoomStats `json:"rooms"`
}

// StatsFromModel converts a model.Stats snapshot
func StatsFromModel(s *model.Stats) Stats {
	rooms := make([]RoomStats, len(s.Rooms))
	for i, r := range s.Rooms {
		rooms[i] = RoomStats{
			Code:        string(r.Code),
			Players:     r.Players,
			GameStarted: r.GameStarted,
			GameRunning: r.GameRunning,
		}
	}
	return Stats{
		TotalRooms:   s.TotalRooms,
		TotalPlayers: s.TotalPlayers,
		Rooms:        rooms,
	}
}

// Health is the response for GET /api/health
type Health struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
}
