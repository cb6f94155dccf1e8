package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestSettingsInputNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    SettingsInput
		expected Settings
	}{
		{
			name:     "nothing supplied",
			input:    SettingsInput{},
			expected: Settings{GameMode: "normal", Palette: "rainbow", UniqueColors: true, UseAccessories: false},
		},
		{
			name:     "explicit values kept",
			input:    SettingsInput{GameMode: "relay", Palette: "pastel", UniqueColors: boolPtr(false), UseAccessories: boolPtr(true)},
			expected: Settings{GameMode: "relay", Palette: "pastel", UniqueColors: false, UseAccessories: true},
		},
		{
			name:     "uniqueColors true stays true",
			input:    SettingsInput{UniqueColors: boolPtr(true)},
			expected: Settings{GameMode: "normal", Palette: "rainbow", UniqueColors: true},
		},
		{
			name:     "useAccessories false stays false",
			input:    SettingsInput{UseAccessories: boolPtr(false)},
			expected: Settings{GameMode: "normal", Palette: "rainbow", UniqueColors: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.Normalize())
		})
	}
}

func TestRoomCloneIsIndependent(t *testing.T) {
	room := &Room{
		Code:    "ABC123",
		Members: []Player{NewPlayer("p1", "Alice", true)},
		Roster:  []string{"Ann"},
	}

	c := room.Clone()
	c.Members[0].Position = 4
	c.Roster[0] = "Bea"
	c.Members = append(c.Members, NewPlayer("p2", "Bob", false))

	assert.Len(t, room.Members, 1)
	assert.Zero(t, room.Members[0].Position)
	assert.Equal(t, "Ann", room.Roster[0])
}

func TestRoomCloneKeepsEmptyRoster(t *testing.T) {
	c := (&Room{Code: "ABC123", Roster: []string{}}).Clone()
	assert.NotNil(t, c.Roster)
	assert.Empty(t, c.Roster)

	c = (&Room{Code: "ABC123"}).Clone()
	assert.Nil(t, c.Roster)
}

func TestStatsFor(t *testing.T) {
	room := &Room{Code: "ABC123", Phase: PhaseEnded, Members: []Player{NewPlayer("p1", "Alice", true)}}

	s := StatsFor(room)
	assert.Equal(t, RoomStats{Code: "ABC123", Players: 1, GameStarted: true, GameRunning: false}, s)
}
