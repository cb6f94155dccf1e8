package session

import (
	"github.com/mcoot/duckrace/internal/model"
	"github.com/mcoot/duckrace/internal/protocol"
)

// Notifier delivers outbound messages. Implementations must not block;
// the handler calls them while holding its lock.
type Notifier interface {
	// Unicast sends to a single connection
	Unicast(to model.PlayerID, t protocol.MessageType, payload any)
	// Broadcast sends to every listed member except one. An empty except
	// includes everyone.
	Broadcast(members []model.PlayerID, except model.PlayerID, t protocol.MessageType, payload any)
	// Error reports a failed request to the requester only
	Error(to model.PlayerID, err error)
}
