package factory

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/duckrace/internal/model"
	"github.com/mcoot/duckrace/internal/protocol"
	"github.com/mcoot/duckrace/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app    *TestApp
	server *httptest.Server
	ctx    context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.app.MockRandom.QueueString("DUCK01", "DUCK02")
	s.server = httptest.NewServer(s.app.Router(""))
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.app.Hub.CloseAll()
	s.server.Close()
}

// hostAndJoin has a host create a room and a guest join it
func (s *IntegrationSuite) hostAndJoin() (*testutil.WSClient, *testutil.WSClient, model.RoomCode) {
	t := s.T()
	a := testutil.DialWS(t, s.server)
	b := testutil.DialWS(t, s.server)

	var created protocol.RoomCreated
	a.Send(protocol.TypeCreateRoom, protocol.CreateRoomRequest{HostName: "Alice"})
	a.Expect(protocol.TypeRoomCreated, &created)

	b.Send(protocol.TypeJoinRoom, protocol.JoinRoomRequest{RoomCode: created.RoomCode, PlayerName: "Bob"})
	b.Expect(protocol.TypePlayerJoined, nil)
	b.Expect(protocol.TypeRoomJoined, nil)
	a.Expect(protocol.TypePlayerJoined, nil)

	return a, b, created.RoomCode
}

// Test: a full race from room creation back to a fresh lobby
func (s *IntegrationSuite) TestCompleteRaceFlow() {
	t := s.T()
	a := testutil.DialWS(t, s.server)
	b := testutil.DialWS(t, s.server)

	// Step 1: A creates a room
	var created protocol.RoomCreated
	a.Send(protocol.TypeCreateRoom, protocol.CreateRoomRequest{HostName: "Alice"})
	a.Expect(protocol.TypeRoomCreated, &created)
	s.Len(string(created.RoomCode), 6)
	s.Equal(model.RoomCode("DUCK01"), created.RoomCode)

	// Step 2: B joins; both see two members
	var joinedB, joinedA protocol.PlayerJoined
	var confirm protocol.RoomJoined
	b.Send(protocol.TypeJoinRoom, protocol.JoinRoomRequest{RoomCode: created.RoomCode, PlayerName: "Bob"})
	b.Expect(protocol.TypePlayerJoined, &joinedB)
	b.Expect(protocol.TypeRoomJoined, &confirm)
	a.Expect(protocol.TypePlayerJoined, &joinedA)
	s.Len(joinedA.Players, 2)
	s.Len(joinedB.Players, 2)
	s.Len(confirm.Players, 2)

	// Step 3: A starts without a roster; everyone is told
	var startedA, startedB protocol.GameStarted
	a.Send(protocol.TypeStartGame, protocol.StartGameRequest{RoomCode: created.RoomCode})
	a.Expect(protocol.TypeGameStarted, &startedA)
	b.Expect(protocol.TypeGameStarted, &startedB)
	s.Equal([]string{"Alice", "Bob"}, startedA.Students)
	s.Equal(startedA, startedB)

	// Step 4: B moves; only A hears about it
	var update protocol.GameUpdate
	b.Send(protocol.TypeGameUpdate, map[string]any{
		"roomCode":  created.RoomCode,
		"playerId":  confirm.PlayerID,
		"positions": map[string]float64{"Bob": 4.5},
	})
	a.Expect(protocol.TypeGameUpdate, &update)
	s.Equal(string(confirm.PlayerID), update.FromPlayer)
	s.JSONEq(`{"Bob":4.5}`, string(update.Positions))

	// Step 5: A ends the race; B's next frame is the result, not its own update
	var endedA, endedB protocol.GameEnded
	a.Send(protocol.TypeGameEnd, map[string]any{
		"roomCode": created.RoomCode,
		"playerId": created.PlayerID,
		"winner":   map[string]string{"name": "Bob"},
		"ranking":  []string{"Bob", "Alice"},
	})
	a.Expect(protocol.TypeGameEnded, &endedA)
	b.Expect(protocol.TypeGameEnded, &endedB)
	s.Equal(string(created.PlayerID), endedB.EndedBy)
	s.JSONEq(`{"name":"Bob"}`, string(endedB.Winner))

	// Step 6: during the grace period the room refuses a new race
	a.Send(protocol.TypeStartGame, protocol.StartGameRequest{RoomCode: created.RoomCode})
	var rejected protocol.RoomError
	a.Expect(protocol.TypeRoomError, &rejected)
	s.Equal("ALREADY_STARTED", rejected.Code)

	// Step 7: after the grace period it accepts one
	s.app.MockClock.Advance(5 * time.Second)
	r, err := s.app.RoomStore.Get(s.ctx, created.RoomCode)
	s.Require().NoError(err)
	s.Equal(model.PhaseLobby, r.Phase)

	a.Send(protocol.TypeStartGame, protocol.StartGameRequest{RoomCode: created.RoomCode})
	a.Expect(protocol.TypeGameStarted, nil)
	b.Expect(protocol.TypeGameStarted, nil)
}

func (s *IntegrationSuite) TestUpdateInLobbyIsNotRelayed() {
	a, b, code := s.hostAndJoin()

	b.Send(protocol.TypeGameUpdate, map[string]any{"roomCode": code, "positions": []int{1}})
	// B's roster push is rejected; being handled after the update, its
	// error proves the update was processed
	b.Send(protocol.TypeUpdateStudents, protocol.UpdateStudentsRequest{RoomCode: code, Students: []string{"Ann"}})
	b.Expect(protocol.TypeRoomError, nil)

	a.Send(protocol.TypeUpdateStudents, protocol.UpdateStudentsRequest{RoomCode: code, Students: []string{"Ann"}})
	var roster protocol.StudentsUpdated
	b.Expect(protocol.TypeStudentsUpdated, &roster)
	s.Equal([]string{"Ann"}, roster.Students)

	a.ExpectNothing(100 * time.Millisecond)
}

func (s *IntegrationSuite) TestDisconnectPromotesHostAndDeletesEmptyRoom() {
	a, b, code := s.hostAndJoin()

	a.Close()

	var left protocol.PlayerLeft
	b.Expect(protocol.TypePlayerLeft, &left)
	s.Equal("Alice", left.LeftPlayer.Name)
	s.Require().Len(left.Players, 1)
	s.True(left.Players[0].IsHost)

	b.Close()
	s.Eventually(func() bool {
		_, err := s.app.RoomStore.Get(s.ctx, code)
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)
	s.Eventually(func() bool { return s.app.Hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func (s *IntegrationSuite) TestJoinErrorsOnlyReachRequester() {
	a, _, code := s.hostAndJoin()
	c := testutil.DialWS(s.T(), s.server)

	var rejected protocol.RoomError
	c.Send(protocol.TypeJoinRoom, protocol.JoinRoomRequest{RoomCode: code, PlayerName: "Bob"})
	c.Expect(protocol.TypeRoomError, &rejected)
	s.Equal("DUPLICATE_NAME", rejected.Code)

	c.Send(protocol.TypeJoinRoom, protocol.JoinRoomRequest{RoomCode: "ZZZZZZ", PlayerName: "Cat"})
	c.Expect(protocol.TypeRoomError, &rejected)
	s.Equal("ROOM_NOT_FOUND", rejected.Code)

	a.ExpectNothing(100 * time.Millisecond)
}

func (s *IntegrationSuite) TestSweeperRemovesOrphanedRooms() {
	s.Require().NoError(s.app.Storage.SaveRoom(s.ctx, &model.Room{Code: "ORPHAN", Phase: model.PhaseLobby}))

	s.Equal(1, s.app.Sweeper.SweepOnce(s.ctx))

	stats, err := s.app.RoomStore.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, stats.TotalRooms)
}
