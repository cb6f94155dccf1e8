package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mcoot/duckrace/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	if _, isEvent := data.(Event); !isEvent {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Stats:
		o.printStats(v)
	case response.Health:
		o.printHealth(v)
	case Event:
		o.printEvent(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Event is one received websocket message
type Event struct {
	Time time.Time       `json:"time"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func (o *Output) printStats(s response.Stats) {
	_, _ = fmt.Fprintf(o.w, "Rooms: %d  Players: %d\n", s.TotalRooms, s.TotalPlayers)
	if len(s.Rooms) == 0 {
		return
	}
	_, _ = fmt.Fprintf(o.w, "%-8s %-8s %s\n", "CODE", "PLAYERS", "STATE")
	for _, r := range s.Rooms {
		_, _ = fmt.Fprintf(o.w, "%-8s %-8d %s\n", r.Code, r.Players, roomState(r))
	}
}

func roomState(r response.RoomStats) string {
	switch {
	case r.GameRunning:
		return "racing"
	case r.GameStarted:
		return "ended"
	default:
		return "lobby"
	}
}

func (o *Output) printHealth(h response.Health) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\nConnections: %d\n", h.Status, h.Connections)
}

func (o *Output) printEvent(e Event) {
	timestamp := e.Time.Format("2006-01-02 15:04:05")
	// Truncate data if it's too long for display
	displayData := string(e.Data)
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	displayData = strings.ReplaceAll(displayData, "\n", " ")
	_, _ = fmt.Fprintf(o.w, "[%s] %s: %s\n", timestamp, e.Type, displayData)
}
