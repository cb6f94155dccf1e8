package protocol

// MessageType names an event carried in an Envelope
type MessageType string

// Inbound message types (client to server)
const (
	TypeCreateRoom     MessageType = "createRoom"
	TypeJoinRoom       MessageType = "joinRoom"
	TypeLeaveRoom      MessageType = "leaveRoom"
	TypeUpdateStudents MessageType = "updateStudents"
	TypeStartGame      MessageType = "startGame"
	TypeGameUpdate     MessageType = "gameUpdate"
	TypeGameEnd        MessageType = "gameEnd"
)

// Outbound message types (server to client). gameUpdate is relayed under
// the same name it arrives with.
const (
	TypeRoomCreated     MessageType = "roomCreated"
	TypePlayerJoined    MessageType = "playerJoined"
	TypeRoomJoined      MessageType = "roomJoined"
	TypePlayerLeft      MessageType = "playerLeft"
	TypeStudentsUpdated MessageType = "studentsUpdated"
	TypeGameStarted     MessageType = "gameStarted"
	TypeGameEnded       MessageType = "gameEnded"
	TypeRoomError       MessageType = "roomError"
)

// IsInbound reports whether clients may send this message type
func (t MessageType) IsInbound() bool {
	switch t {
	case TypeCreateRoom, TypeJoinRoom, TypeLeaveRoom, TypeUpdateStudents,
		TypeStartGame, TypeGameUpdate, TypeGameEnd:
		return true
	}
	return false
}
