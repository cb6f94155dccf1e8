package ws

import (
	"log/slog"

	"github.com/mcoot/duckrace/internal/api/apierr"
	"github.com/mcoot/duckrace/internal/model"
	"github.com/mcoot/duckrace/internal/protocol"
	"github.com/mcoot/duckrace/internal/services/session"
)

// Broadcaster encodes outbound messages and routes them through the hub
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

// Ensure Broadcaster implements session.Notifier
var _ session.Notifier = (*Broadcaster)(nil)

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "ws-broadcaster")),
	}
}

// Unicast sends a message to one connection
func (b *Broadcaster) Unicast(to model.PlayerID, t protocol.MessageType, payload any) {
	frame, ok := b.encode(t, payload)
	if !ok {
		return
	}
	b.hub.Send(to, frame)
}

// Broadcast sends a message to the listed members, skipping except
func (b *Broadcaster) Broadcast(members []model.PlayerID, except model.PlayerID, t protocol.MessageType, payload any) {
	frame, ok := b.encode(t, payload)
	if !ok {
		return
	}

	sent, dropped := 0, 0
	for _, id := range members {
		if id == except {
			continue
		}
		if b.hub.Send(id, frame) {
			sent++
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		b.logger.Warn("ws broadcast partial failure",
			slog.String("type", string(t)),
			slog.Int("sent", sent),
			slog.Int("dropped", dropped))
	}
}

// Error sends a roomError describing err to one connection
func (b *Broadcaster) Error(to model.PlayerID, err error) {
	apiErr := apierr.FromError(err)
	b.Unicast(to, protocol.TypeRoomError, protocol.RoomError{
		Message: apiErr.Message,
		Code:    apiErr.Code,
	})
}

func (b *Broadcaster) encode(t protocol.MessageType, payload any) ([]byte, bool) {
	frame, err := protocol.Encode(t, payload)
	if err != nil {
		b.logger.Error("ws failed to encode message",
			slog.String("type", string(t)),
			slog.Any("error", err))
		return nil, false
	}
	return frame, true
}
