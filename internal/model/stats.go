package model

// RoomStats is the per-room line of a stats snapshot
type RoomStats struct {
	Code        RoomCode `json:"code"`
	Players     int      `json:"players"`
	GameStarted bool     `json:"gameStarted"`
	GameRunning bool     `json:"gameRunning"`
}

// Stats is a read-only snapshot of all live rooms
type Stats struct {
	TotalRooms   int         `json:"totalRooms"`
	TotalPlayers int         `json:"totalPlayers"`
	Rooms        []RoomStats `json:"rooms"`
}

// StatsFor builds the snapshot line for a room
func StatsFor(r *Room) RoomStats {
	return RoomStats{
		Code:        r.Code,
		Players:     len(r.Members),
		GameStarted: r.Phase != PhaseLobby,
		GameRunning: r.Phase == PhaseRacing,
	}
}
