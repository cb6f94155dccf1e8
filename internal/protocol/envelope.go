package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mcoot/duckrace/internal/model"
)

// Envelope is the JSON frame exchanged in both directions
type Envelope struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode builds a text frame for the given type and payload
func Encode(t MessageType, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", t, err)
	}
	return json.Marshal(Envelope{Type: t, Data: data})
}

// DecodeEnvelope parses a raw frame. A frame without a type is rejected.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: malformed frame: %v", model.ErrInvalidRequest, err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("%w: missing message type", model.ErrInvalidRequest)
	}
	return env, nil
}

// Decode unmarshals the payload into v. An absent or null payload leaves v untouched.
func (e Envelope) Decode(v any) error {
	trimmed := bytes.TrimSpace(e.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: bad %s payload: %v", model.ErrInvalidRequest, e.Type, err)
	}
	return nil
}
