package e2e_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/duckrace/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	binaryPath := filepath.Join(t.TempDir(), "duckctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/duckctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) command(args ...string) *exec.Cmd {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)
	return exec.Command(r.binaryPath, fullArgs...)
}

func (r *cliRunner) run(args ...string) (string, error) {
	output, err := r.command(args...).CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app      *factory.TestApp
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	app := factory.NewTestApp()

	server := &http.Server{
		Addr:    addr,
		Handler: app.Router(""),
	}
	server.RegisterOnShutdown(app.Hub.CloseAll)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/health")

	return &testServer{
		app:  app,
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type healthResponse struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
}

type statsResponse struct {
	TotalRooms   int `json:"totalRooms"`
	TotalPlayers int `json:"totalPlayers"`
	Rooms        []struct {
		Code    string `json:"code"`
		Players int    `json:"players"`
	} `json:"rooms"`
}

type eventLine struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func parseEvents(t *testing.T, output string) []eventLine {
	t.Helper()

	var events []eventLine
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e eventLine
		require.NoError(t, json.Unmarshal([]byte(line), &e), "line: %s", line)
		events = append(events, e)
	}
	return events
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Connections)
}

func TestCLI_StatsEmpty(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("stats")
	require.NoError(t, err, "output: %s", output)

	var resp statsResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, 0, resp.TotalRooms)
	assert.Equal(t, 0, resp.TotalPlayers)
	assert.NotNil(t, resp.Rooms)
}

func TestCLI_HostAndJoin(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()
	ts.app.MockRandom.QueueString("DUCK01")

	cli := newCLIRunner(t, ts.addr)

	// Host waits for roomCreated and playerJoined
	var hostOut bytes.Buffer
	host := cli.command("host", "Alice", "--count", "2")
	host.Stdout = &hostOut
	host.Stderr = &hostOut
	require.NoError(t, host.Start())

	require.Eventually(t, func() bool {
		output, err := cli.run("stats")
		if err != nil {
			return false
		}
		var resp statsResponse
		if json.Unmarshal([]byte(output), &resp) != nil {
			return false
		}
		return resp.TotalRooms == 1
	}, 5*time.Second, 50*time.Millisecond)

	// The joiner sees the room-wide playerJoined before its own roomJoined
	output, err := cli.run("join", "DUCK01", "Bob", "--count", "2")
	require.NoError(t, err, "output: %s", output)

	joinEvents := parseEvents(t, output)
	require.Len(t, joinEvents, 2)
	assert.Equal(t, "playerJoined", joinEvents[0].Type)
	assert.Equal(t, "roomJoined", joinEvents[1].Type)
	assert.Contains(t, string(joinEvents[1].Data), "DUCK01")

	require.NoError(t, host.Wait(), "output: %s", hostOut.String())

	hostEvents := parseEvents(t, hostOut.String())
	require.Len(t, hostEvents, 2)
	assert.Equal(t, "roomCreated", hostEvents[0].Type)
	assert.Equal(t, "playerJoined", hostEvents[1].Type)
	assert.Contains(t, string(hostEvents[0].Data), "DUCK01")
	assert.Contains(t, string(hostEvents[1].Data), "Bob")

	// Both sessions exited, so the room is gone
	require.Eventually(t, func() bool {
		output, err := cli.run("stats")
		if err != nil {
			return false
		}
		var resp statsResponse
		if json.Unmarshal([]byte(output), &resp) != nil {
			return false
		}
		return resp.TotalRooms == 0
	}, 5*time.Second, 50*time.Millisecond)
}

func TestCLI_JoinUnknownRoom(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("join", "NOPE00", "Bob", "--count", "1")
	require.NoError(t, err, "output: %s", output)

	events := parseEvents(t, output)
	require.Len(t, events, 1)
	assert.Equal(t, "roomError", events[0].Type)
	assert.Contains(t, string(events[0].Data), "ROOM_NOT_FOUND")
}
