package cli

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/duckrace/internal/model"
	"github.com/mcoot/duckrace/internal/protocol"
)

func newHostCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "host <name>",
		Short: "Create a room and stream its events",
		Long: `Create a room as host and print every event received.

Press Ctrl+C to disconnect, which leaves the room.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamSession(cmd, protocol.TypeCreateRoom, protocol.CreateRoomRequest{HostName: args[0]}, count)
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Exit after this many events (0 streams until interrupted)")
	return cmd
}

func newJoinCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "join <code> <name>",
		Short: "Join a room and stream its events",
		Long: `Join an existing room and print every event received.

Press Ctrl+C to disconnect, which leaves the room.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := protocol.JoinRoomRequest{RoomCode: model.RoomCode(args[0]), PlayerName: args[1]}
			return streamSession(cmd, protocol.TypeJoinRoom, req, count)
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Exit after this many events (0 streams until interrupted)")
	return cmd
}

// streamSession sends one request and prints received envelopes until
// interrupted, the server closes the connection, or count events arrived
func streamSession(cmd *cobra.Command, t protocol.MessageType, payload any, count int) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conn, err := client.Dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	// Unblock the read loop on interrupt
	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	frame, err := protocol.Encode(t, payload)
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	out := NewOutput(cfg.Output, cmd.OutOrStdout())
	for received := 0; count == 0 || received < count; received++ {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		var env protocol.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("bad frame from server: %w", err)
		}
		out.Print(Event{Time: time.Now(), Type: string(env.Type), Data: env.Data})
	}
	return nil
}
