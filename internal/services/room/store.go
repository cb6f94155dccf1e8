package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/duckrace/internal/dependencies/clock"
	"github.com/mcoot/duckrace/internal/dependencies/random"
	"github.com/mcoot/duckrace/internal/model"
	"github.com/mcoot/duckrace/internal/storage"
)

// Config holds timing settings for the room lifecycle
type Config struct {
	// ResetDelay is the grace period between a race ending and the room
	// returning to the lobby
	ResetDelay time.Duration
	// SweepInterval is how often the idle sweep looks for empty rooms
	SweepInterval time.Duration
}

// DefaultConfig returns the standard lifecycle timings
func DefaultConfig() Config {
	return Config{
		ResetDelay:    5 * time.Second,
		SweepInterval: 5 * time.Minute,
	}
}

// LeaveResult describes the effect of a member leaving
type LeaveResult struct {
	Room    *model.Room   // Room after removal, nil when it was deleted
	Left    model.Player  // The member that left
	NewHost *model.Player // Set when host authority moved to another member
	Deleted bool
}

// StartResult describes a started race
type StartResult struct {
	Room     *model.Room
	Students []string // Participant names for this race
}

// Store owns all room state and enforces membership and phase invariants.
// Every operation holds the store lock for its whole read-validate-write
// cycle, so operations never observe each other half-done.
type Store struct {
	mu sync.Mutex

	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	cfg     Config
	logger  *slog.Logger
}

// NewStore creates a new room Store
func NewStore(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	cfg Config,
	logger *slog.Logger,
) *Store {
	return &Store{
		storage: storage,
		clock:   clock,
		random:  random,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "room-store")),
	}
}

// Create makes a new room with the creator as its only member and host
func (s *Store) Create(ctx context.Context, hostID model.PlayerID, hostName string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, err := s.generateCode(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	room := &model.Room{
		Code:     code,
		HostID:   hostID,
		Members:  []model.Player{model.NewPlayer(hostID, hostName, true)},
		Roster:   []string{},
		Phase:    model.PhaseLobby,
		Settings: model.DefaultSettings(),
		Created:  now,
		Updated:  now,
	}

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		slog.String("room", string(code)),
		slog.String("host", hostName))
	return room, nil
}

// Get retrieves a room by code
func (s *Store) Get(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.GetRoom(ctx, code)
}

// Join appends a new non-host member to a room in the lobby
func (s *Store) Join(ctx context.Context, code model.RoomCode, playerID model.PlayerID, name string) (*model.Room, *model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case room.Phase != model.PhaseLobby:
		return nil, nil, model.ErrAlreadyStarted
	case len(room.Members) >= model.MaxRoomMembers:
		return nil, nil, model.ErrRoomFull
	case room.GetMember(playerID) != nil:
		return nil, nil, model.ErrAlreadyInRoom
	case room.HasName(name):
		return nil, nil, model.ErrDuplicateName
	}

	player := model.NewPlayer(playerID, name, false)
	room.Members = append(room.Members, player)
	room.Updated = s.clock.Now()

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, nil, err
	}

	s.logger.Info("player joined",
		slog.String("room", string(code)),
		slog.String("player", name),
		slog.Int("members", len(room.Members)))
	return room, &player, nil
}

// UpdateRoster replaces the room's externally supplied participant list
func (s *Store) UpdateRoster(ctx context.Context, code model.RoomCode, requester model.PlayerID, names []string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if !room.IsHost(requester) {
		return nil, model.ErrNotHost
	}

	room.Roster = append([]string{}, names...)
	room.Updated = s.clock.Now()

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("roster updated",
		slog.String("room", string(code)),
		slog.Int("students", len(names)))
	return room, nil
}

// Start moves a lobby into a race. Participants are the supplied students,
// else the stored roster, else the member names (which needs two members).
func (s *Store) Start(ctx context.Context, code model.RoomCode, requester model.PlayerID, students []string, settings model.SettingsInput) (*StartResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if !room.IsHost(requester) {
		return nil, model.ErrNotHost
	}

	if room.Phase != model.PhaseLobby {
		return nil, model.ErrAlreadyStarted
	}

	var participants []string
	switch {
	case len(students) > 0:
		participants = append([]string(nil), students...)
	case len(room.Roster) > 0:
		participants = append([]string(nil), room.Roster...)
	case len(room.Members) >= 2:
		participants = room.MemberNames()
	default:
		return nil, model.ErrInsufficientPlayers
	}

	room.Phase = model.PhaseRacing
	room.Race++
	room.Settings = settings.Normalize()
	room.ResetPositions()
	room.Updated = s.clock.Now()

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("race started",
		slog.String("room", string(code)),
		slog.Int("race", room.Race),
		slog.Int("participants", len(participants)),
		slog.String("game_mode", room.Settings.GameMode))
	return &StartResult{Room: room, Students: participants}, nil
}

// ApplyUpdate checks whether a position update from sender may be relayed.
// It returns the room only while a race is running and sender is a member;
// positions are not stored.
func (s *Store) ApplyUpdate(ctx context.Context, code model.RoomCode, sender model.PlayerID) (*model.Room, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if room.Phase != model.PhaseRacing || room.GetMember(sender) == nil {
		return nil, false, nil
	}
	return room, true, nil
}

// End finishes a running race and schedules the return to the lobby.
// It reports false without error when no race is running or requester
// is not a member.
func (s *Store) End(ctx context.Context, code model.RoomCode, requester model.PlayerID) (*model.Room, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if room.Phase != model.PhaseRacing || room.GetMember(requester) == nil {
		return nil, false, nil
	}

	room.Phase = model.PhaseEnded
	room.Updated = s.clock.Now()

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, false, err
	}

	race := room.Race
	s.clock.AfterFunc(s.cfg.ResetDelay, func() {
		s.resetAfterRace(context.Background(), code, race)
	})

	s.logger.Info("race ended",
		slog.String("room", string(code)),
		slog.Int("race", race))
	return room, true, nil
}

// resetAfterRace returns an ended room to the lobby. The room may have been
// deleted, or even recreated under the same code, since the timer was set.
func (s *Store) resetAfterRace(ctx context.Context, code model.RoomCode, race int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		if !errors.Is(err, model.ErrRoomNotFound) {
			s.logger.Error("race reset failed",
				slog.String("room", string(code)),
				slog.Any("error", err))
		}
		return
	}

	if room.Phase != model.PhaseEnded || room.Race != race {
		return
	}

	room.Phase = model.PhaseLobby
	room.ResetPositions()
	room.Updated = s.clock.Now()

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		s.logger.Error("race reset failed",
			slog.String("room", string(code)),
			slog.Any("error", err))
		return
	}

	s.logger.Info("room back in lobby",
		slog.String("room", string(code)),
		slog.Int("race", race))
}

// Leave removes a member. The earliest-joined remaining member inherits
// host authority; the room is deleted once nobody is left.
func (s *Store) Leave(ctx context.Context, code model.RoomCode, playerID model.PlayerID) (*LeaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, m := range room.Members {
		if m.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, model.ErrNotInRoom
	}

	left := room.Members[idx]
	room.Members = append(room.Members[:idx], room.Members[idx+1:]...)

	if len(room.Members) == 0 {
		if err := s.storage.DeleteRoom(ctx, code); err != nil {
			return nil, err
		}
		s.logger.Info("room deleted",
			slog.String("room", string(code)),
			slog.String("reason", "last member left"))
		return &LeaveResult{Left: left, Deleted: true}, nil
	}

	result := &LeaveResult{Left: left}
	if left.IsHost || room.HostID == left.ID {
		room.Members[0].IsHost = true
		room.HostID = room.Members[0].ID
		promoted := room.Members[0]
		result.NewHost = &promoted
	}
	room.Updated = s.clock.Now()

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	result.Room = room

	s.logger.Info("player left",
		slog.String("room", string(code)),
		slog.String("player", left.Name),
		slog.Int("members", len(room.Members)))
	if result.NewHost != nil {
		s.logger.Info("host promoted",
			slog.String("room", string(code)),
			slog.String("host", result.NewHost.Name))
	}
	return result, nil
}

// Snapshot returns the read-only stats view of all live rooms
func (s *Store) Snapshot(ctx context.Context) (*model.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.Stats{
		TotalRooms: len(rooms),
		Rooms:      make([]model.RoomStats, len(rooms)),
	}
	for i, room := range rooms {
		stats.Rooms[i] = model.StatsFor(room)
		stats.TotalPlayers += len(room.Members)
	}
	return stats, nil
}

// Sweep deletes every room that has no members, returning how many went
func (s *Store) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.storage.ListRooms(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, room := range rooms {
		if len(room.Members) > 0 {
			continue
		}
		if err := s.storage.DeleteRoom(ctx, room.Code); err != nil {
			return removed, err
		}
		removed++
		s.logger.Info("room deleted",
			slog.String("room", string(room.Code)),
			slog.String("reason", "empty"))
	}
	return removed, nil
}
