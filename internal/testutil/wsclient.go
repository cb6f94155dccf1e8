package testutil

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/duckrace/internal/protocol"
)

// WSClient is a websocket peer for end-to-end tests
type WSClient struct {
	t    *testing.T
	conn *websocket.Conn
}

// DialWS connects to the /ws endpoint of a test server. The connection is
// closed when the test ends.
func DialWS(t *testing.T, server *httptest.Server) *WSClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &WSClient{t: t, conn: conn}
}

// Send writes one envelope
func (c *WSClient) Send(t protocol.MessageType, data any) {
	c.t.Helper()
	frame, err := protocol.Encode(t, data)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, frame))
}

// Expect reads the next envelope, which must have the given type, and
// decodes its payload into v (if non-nil)
func (c *WSClient) Expect(t protocol.MessageType, v any) {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := c.conn.ReadMessage()
	require.NoError(c.t, err, "waiting for %s", t)

	var env protocol.Envelope
	require.NoError(c.t, json.Unmarshal(raw, &env))
	require.Equal(c.t, t, env.Type, "unexpected frame %s", string(raw))
	if v != nil {
		require.NoError(c.t, env.Decode(v))
	}
}

// ExpectNothing asserts no frame arrives within d. The connection must
// not be read from afterwards, since gorilla fails reads after a timeout.
func (c *WSClient) ExpectNothing(d time.Duration) {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(d))
	_, raw, err := c.conn.ReadMessage()
	require.Error(c.t, err, "unexpected frame %s", string(raw))
}

// Close closes the connection without a close handshake
func (c *WSClient) Close() {
	_ = c.conn.Close()
}
