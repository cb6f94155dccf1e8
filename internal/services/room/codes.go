package room

import (
	"context"

	"github.com/mcoot/duckrace/internal/model"
)

const (
	// CodeLength is the length of generated room codes
	CodeLength = 6
	// CodeAlphabet is the characters used in room codes
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// MaxCodeAttempts bounds retries when a generated code is already live
	MaxCodeAttempts = 100
)

// generateCode draws codes until one is not held by a live room.
// Codes of deleted rooms may be handed out again.
func (s *Store) generateCode(ctx context.Context) (model.RoomCode, error) {
	for attempt := 0; attempt < MaxCodeAttempts; attempt++ {
		code := model.RoomCode(s.random.String(CodeLength, CodeAlphabet))
		exists, err := s.storage.RoomExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", model.ErrCodeSpaceExhausted
}
