package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/mcoot/duckrace/internal/model"
	"github.com/mcoot/duckrace/internal/protocol"
	"github.com/mcoot/duckrace/internal/services/room"
)

// errInternal is reported to a connection whose message caused a panic
var errInternal = errors.New("internal error")

// Handler validates inbound protocol messages against the room store and
// fans out the results. Messages from all connections are handled one at
// a time, each running to completion together with its broadcasts.
type Handler struct {
	mu sync.Mutex

	store    *room.Store
	index    *Index
	notifier Notifier
	logger   *slog.Logger
}

// NewHandler creates a new session Handler
func NewHandler(store *room.Store, index *Index, notifier Notifier, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		index:    index,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "session")),
	}
}

// Handle decodes a raw frame and dispatches it
func (h *Handler) Handle(ctx context.Context, connID model.PlayerID, raw []byte) {
	env, err := protocol.DecodeEnvelope(raw)
	if err != nil {
		h.logger.Debug("rejected frame",
			slog.String("conn", string(connID)),
			slog.Any("error", err))
		h.notifier.Error(connID, err)
		return
	}
	h.Dispatch(ctx, connID, env)
}

// Dispatch handles one inbound message. Validation failures are reported
// to the sender only; panics are recovered and reported as internal errors.
func (h *Handler) Dispatch(ctx context.Context, connID model.PlayerID, env protocol.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("panic handling message",
				slog.String("conn", string(connID)),
				slog.String("type", string(env.Type)),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			h.notifier.Error(connID, errInternal)
		}
	}()

	h.logger.Debug("message received",
		slog.String("conn", string(connID)),
		slog.String("type", string(env.Type)))

	if !env.Type.IsInbound() {
		h.reject(connID, env.Type, fmt.Errorf("%w: %q is not a client message type", model.ErrInvalidRequest, env.Type))
		return
	}

	var err error
	switch env.Type {
	case protocol.TypeCreateRoom:
		err = h.createRoom(ctx, connID, env)
	case protocol.TypeJoinRoom:
		err = h.joinRoom(ctx, connID, env)
	case protocol.TypeLeaveRoom:
		err = h.leaveRoom(ctx, connID, env)
	case protocol.TypeUpdateStudents:
		err = h.updateStudents(ctx, connID, env)
	case protocol.TypeStartGame:
		err = h.startGame(ctx, connID, env)
	case protocol.TypeGameUpdate:
		err = h.gameUpdate(ctx, connID, env)
	case protocol.TypeGameEnd:
		err = h.gameEnd(ctx, connID, env)
	}

	if err != nil {
		h.reject(connID, env.Type, err)
	}
}

// Disconnect removes a closed connection from its room, exactly as an
// explicit leave would
func (h *Handler) Disconnect(ctx context.Context, connID model.PlayerID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	code, ok := h.index.Lookup(connID)
	if !ok {
		return
	}
	if err := h.leave(ctx, connID, code); err != nil {
		h.logger.Error("leave on disconnect failed",
			slog.String("conn", string(connID)),
			slog.String("room", string(code)),
			slog.Any("error", err))
	}
}

func (h *Handler) reject(connID model.PlayerID, t protocol.MessageType, err error) {
	if isValidationError(err) {
		h.logger.Debug("request rejected",
			slog.String("conn", string(connID)),
			slog.String("type", string(t)),
			slog.Any("error", err))
	} else {
		h.logger.Error("request failed",
			slog.String("conn", string(connID)),
			slog.String("type", string(t)),
			slog.Any("error", err))
	}
	h.notifier.Error(connID, err)
}

func isValidationError(err error) bool {
	for _, target := range []error{
		model.ErrRoomNotFound,
		model.ErrAlreadyStarted,
		model.ErrRoomFull,
		model.ErrDuplicateName,
		model.ErrNotHost,
		model.ErrInsufficientPlayers,
		model.ErrAlreadyInRoom,
		model.ErrInvalidRequest,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", model.ErrInvalidRequest)
	}
	return nil
}

func (h *Handler) createRoom(ctx context.Context, connID model.PlayerID, env protocol.Envelope) error {
	var req protocol.CreateRoomRequest
	if err := env.Decode(&req); err != nil {
		return err
	}
	if err := requireName(req.HostName); err != nil {
		return err
	}

	r, err := h.store.Create(ctx, connID, req.HostName)
	if err != nil {
		return err
	}
	h.moveTo(ctx, connID, r.Code)

	h.notifier.Unicast(connID, protocol.TypeRoomCreated, protocol.RoomCreated{
		RoomCode: r.Code,
		PlayerID: connID,
		Players:  r.Members,
	})
	return nil
}

func (h *Handler) joinRoom(ctx context.Context, connID model.PlayerID, env protocol.Envelope) error {
	var req protocol.JoinRoomRequest
	if err := env.Decode(&req); err != nil {
		return err
	}
	if err := requireName(req.PlayerName); err != nil {
		return err
	}
	if current, ok := h.index.Lookup(connID); ok && current == req.RoomCode {
		return model.ErrAlreadyInRoom
	}

	r, player, err := h.store.Join(ctx, req.RoomCode, connID, req.PlayerName)
	if err != nil {
		return err
	}
	h.moveTo(ctx, connID, r.Code)

	h.notifier.Broadcast(r.MemberIDs(), "", protocol.TypePlayerJoined, protocol.PlayerJoined{
		Players:   r.Members,
		NewPlayer: *player,
	})
	h.notifier.Unicast(connID, protocol.TypeRoomJoined, protocol.RoomJoined{
		RoomCode: r.Code,
		PlayerID: connID,
		Players:  r.Members,
	})
	return nil
}

// moveTo binds the connection to code, first leaving whatever room it was in
func (h *Handler) moveTo(ctx context.Context, connID model.PlayerID, code model.RoomCode) {
	if prev, ok := h.index.Lookup(connID); ok && prev != code {
		if err := h.leave(ctx, connID, prev); err != nil {
			h.logger.Error("leaving previous room failed",
				slog.String("conn", string(connID)),
				slog.String("room", string(prev)),
				slog.Any("error", err))
		}
	}
	h.index.Bind(connID, code)
}

func (h *Handler) leaveRoom(ctx context.Context, connID model.PlayerID, env protocol.Envelope) error {
	var req protocol.LeaveRoomRequest
	if err := env.Decode(&req); err != nil {
		return err
	}

	code := req.RoomCode
	if code == "" {
		bound, ok := h.index.Lookup(connID)
		if !ok {
			return nil
		}
		code = bound
	}
	return h.leave(ctx, connID, code)
}

// leave removes the connection from a room and tells the remaining members.
// Leaving a room the connection is not in is a no-op.
func (h *Handler) leave(ctx context.Context, connID model.PlayerID, code model.RoomCode) error {
	result, err := h.store.Leave(ctx, code, connID)
	h.index.Unbind(connID, code)
	if errors.Is(err, model.ErrNotInRoom) || errors.Is(err, model.ErrRoomNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if result.Deleted {
		return nil
	}
	h.notifier.Broadcast(result.Room.MemberIDs(), "", protocol.TypePlayerLeft, protocol.PlayerLeft{
		Players:    result.Room.Members,
		LeftPlayer: result.Left,
	})
	return nil
}

func (h *Handler) updateStudents(ctx context.Context, connID model.PlayerID, env protocol.Envelope) error {
	var req protocol.UpdateStudentsRequest
	if err := env.Decode(&req); err != nil {
		return err
	}

	r, err := h.store.UpdateRoster(ctx, req.RoomCode, connID, req.Students)
	if err != nil {
		return err
	}

	h.notifier.Broadcast(r.MemberIDs(), connID, protocol.TypeStudentsUpdated, protocol.StudentsUpdated{
		Students: r.Roster,
	})
	return nil
}

func (h *Handler) startGame(ctx context.Context, connID model.PlayerID, env protocol.Envelope) error {
	var req protocol.StartGameRequest
	if err := env.Decode(&req); err != nil {
		return err
	}

	result, err := h.store.Start(ctx, req.RoomCode, connID, req.Students, req.Settings())
	if err != nil {
		return err
	}

	h.notifier.Broadcast(result.Room.MemberIDs(), "", protocol.TypeGameStarted,
		protocol.NewGameStarted(result.Students, result.Room.Settings))
	return nil
}

// gameUpdate relays positions to the rest of the room. Updates outside a
// race or from non-members are dropped without an error.
func (h *Handler) gameUpdate(ctx context.Context, connID model.PlayerID, env protocol.Envelope) error {
	var req protocol.GameUpdateRequest
	if err := env.Decode(&req); err != nil {
		return err
	}

	r, ok, err := h.store.ApplyUpdate(ctx, req.RoomCode, connID)
	if err != nil {
		return err
	}
	if !ok {
		h.logger.Debug("relay dropped",
			slog.String("conn", string(connID)),
			slog.String("type", string(protocol.TypeGameUpdate)),
			slog.String("room", string(req.RoomCode)))
		return nil
	}

	h.notifier.Broadcast(r.MemberIDs(), connID, protocol.TypeGameUpdate, protocol.GameUpdate{
		Positions:  req.Positions,
		FromPlayer: senderID(req.PlayerID, connID),
	})
	return nil
}

func (h *Handler) gameEnd(ctx context.Context, connID model.PlayerID, env protocol.Envelope) error {
	var req protocol.GameEndRequest
	if err := env.Decode(&req); err != nil {
		return err
	}

	r, ok, err := h.store.End(ctx, req.RoomCode, connID)
	if err != nil {
		return err
	}
	if !ok {
		h.logger.Debug("relay dropped",
			slog.String("conn", string(connID)),
			slog.String("type", string(protocol.TypeGameEnd)),
			slog.String("room", string(req.RoomCode)))
		return nil
	}

	h.notifier.Broadcast(r.MemberIDs(), "", protocol.TypeGameEnded, protocol.GameEnded{
		Winner:  req.Winner,
		Ranking: req.Ranking,
		EndedBy: senderID(req.PlayerID, connID),
	})
	return nil
}

func senderID(claimed string, connID model.PlayerID) string {
	if claimed != "" {
		return claimed
	}
	return string(connID)
}
