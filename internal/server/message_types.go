package server

// Note: session events (session_created, number_drawn, etc.) originate in
// internal/game/events.go and are forwarded as WebSocket messages

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypeAuth          MessageType = "auth"
	MessageTypeCreateSession MessageType = "create_session"
	MessageTypeJoinSession   MessageType = "join_session"
	MessageTypeCancelSession MessageType = "cancel_session"
	MessageTypeDrawNumber    MessageType = "draw_number"
	MessageTypeShoutBingo    MessageType = "shout_bingo"
	MessageTypeGetBoard      MessageType = "get_board"
	MessageTypeListSessions  MessageType = "list_sessions"
	MessageTypeWatchSession  MessageType = "watch_session"
	MessageTypeSetConfig     MessageType = "set_config"

	// Server to client messages
	MessageTypeAuthResponse     MessageType = "auth_response"
	MessageTypeError            MessageType = "error"
	MessageTypeSessionCreated   MessageType = "session_created"
	MessageTypeSessionJoined    MessageType = "session_joined"
	MessageTypeParticipantJoin  MessageType = "participant_joined"
	MessageTypeNumberDrawn      MessageType = "number_drawn"
	MessageTypeSessionEnded     MessageType = "session_ended"
	MessageTypeSessionCancelled MessageType = "session_cancelled"
	MessageTypeBoard            MessageType = "board"
	MessageTypeSessionList      MessageType = "session_list"
	MessageTypeConfigUpdated    MessageType = "config_updated"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
