package model

import "time"

// RoomCode is the short human-readable identifier players type to join
type RoomCode string

// Phase is the stage a room's race is in
type Phase string

const (
	PhaseLobby  Phase = "lobby"  // Accepting joins, waiting for the host to start
	PhaseRacing Phase = "racing" // Race running, relaying position updates
	PhaseEnded  Phase = "ended"  // Results shown, reverts to lobby after the grace period
)

// MaxRoomMembers is the member cap; the next join is rejected
const MaxRoomMembers = 35

// Room is a lobby/session instance
type Room struct {
	Code     RoomCode  `json:"code"`
	HostID   PlayerID  `json:"hostId"`
	Members  []Player  `json:"members"` // Join order, determines host succession
	Roster   []string  `json:"roster"`  // Externally supplied participant names
	Phase    Phase     `json:"phase"`
	Settings Settings  `json:"settings"`
	Race     int       `json:"race"` // Incremented on every start
	Created  time.Time `json:"createdAt"`
	Updated  time.Time `json:"updatedAt"`
}

// GetHost returns the current host, or nil if the room is empty
func (r *Room) GetHost() *Player {
	for i := range r.Members {
		if r.Members[i].IsHost {
			return &r.Members[i]
		}
	}
	return nil
}

// GetMember returns the member with the given id, or nil if not found
func (r *Room) GetMember(id PlayerID) *Player {
	for i := range r.Members {
		if r.Members[i].ID == id {
			return &r.Members[i]
		}
	}
	return nil
}

// HasName reports whether a member already uses the name (case-sensitive)
func (r *Room) HasName(name string) bool {
	for _, m := range r.Members {
		if m.Name == name {
			return true
		}
	}
	return false
}

// IsHost reports whether the given player currently holds host authority
func (r *Room) IsHost(id PlayerID) bool {
	host := r.GetHost()
	return host != nil && host.ID == id && r.HostID == id
}

// MemberIDs returns the ids of all members in join order
func (r *Room) MemberIDs() []PlayerID {
	ids := make([]PlayerID, len(r.Members))
	for i, m := range r.Members {
		ids[i] = m.ID
	}
	return ids
}

// MemberNames returns the names of all members in join order
func (r *Room) MemberNames() []string {
	names := make([]string, len(r.Members))
	for i, m := range r.Members {
		names[i] = m.Name
	}
	return names
}

// ResetPositions zeroes every member's race progress
func (r *Room) ResetPositions() {
	for i := range r.Members {
		r.Members[i].Position = 0
	}
}

// Clone returns a deep copy so callers can mutate without touching stored state.
// An empty roster stays a non-nil empty slice so it encodes as [].
func (r *Room) Clone() *Room {
	c := *r
	c.Members = append([]Player(nil), r.Members...)
	if r.Roster != nil {
		c.Roster = append([]string{}, r.Roster...)
	}
	return &c
}
