package server

import (
	"encoding/json"
	"time"

	"github.com/lox/bingohall/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type AuthData struct {
	PlayerName string `json:"playerName"`
}

type JoinSessionData struct {
	SessionID uint64 `json:"sessionId"`
}

type CancelSessionData struct {
	SessionID uint64 `json:"sessionId"`
}

type DrawNumberData struct {
	SessionID uint64 `json:"sessionId"`
}

type ShoutBingoData struct {
	SessionID uint64 `json:"sessionId"`
}

type GetBoardData struct {
	SessionID uint64 `json:"sessionId"`
	// Participant defaults to the authenticated player when empty.
	Participant string `json:"participant,omitempty"`
}

type ListSessionsData struct {
	PageSize  int `json:"pageSize"`
	PageIndex int `json:"pageIndex"`
}

type WatchSessionData struct {
	SessionID uint64 `json:"sessionId"`
}

// SetConfigData updates the global session configuration. Nil fields are
// left unchanged. Requires the administrator capability.
type SetConfigData struct {
	EntryFee    *int64 `json:"entryFee,omitempty"`
	JoinSeconds *int   `json:"joinSeconds,omitempty"`
	TurnSeconds *int   `json:"turnSeconds,omitempty"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SessionCreatedData struct {
	SessionID   uint64    `json:"sessionId"`
	Creator     string    `json:"creator"`
	EntryFee    int64     `json:"entryFee"`
	JoinSeconds int       `json:"joinSeconds"`
	TurnSeconds int       `json:"turnSeconds"`
	StartTime   time.Time `json:"startTime"`
}

// SessionJoinedData is the direct reply to a create or join, carrying the
// caller's freshly generated board.
type SessionJoinedData struct {
	SessionID uint64   `json:"sessionId"`
	Board     [][]byte `json:"board"`
}

type ParticipantJoinedData struct {
	SessionID   uint64 `json:"sessionId"`
	Participant string `json:"participant"`
	Pot         int64  `json:"pot"`
}

type NumberDrawnData struct {
	SessionID uint64 `json:"sessionId"`
	Number    byte   `json:"number"`
}

type SessionEndedData struct {
	SessionID uint64 `json:"sessionId"`
	Winner    string `json:"winner"`
	Pot       int64  `json:"pot"`
}

type SessionCancelledData struct {
	SessionID uint64 `json:"sessionId"`
}

type BoardData struct {
	SessionID   uint64   `json:"sessionId"`
	Participant string   `json:"participant"`
	Board       [][]byte `json:"board,omitempty"`
	Found       bool     `json:"found"`
	Drawn       []byte   `json:"drawn,omitempty"`
}

type SessionListData struct {
	Sessions  []game.Summary `json:"sessions"`
	PageSize  int            `json:"pageSize"`
	PageIndex int            `json:"pageIndex"`
	Total     int            `json:"total"`
}

type ConfigUpdatedData struct {
	EntryFee    int64 `json:"entryFee"`
	JoinSeconds int   `json:"joinSeconds"`
	TurnSeconds int   `json:"turnSeconds"`
}
