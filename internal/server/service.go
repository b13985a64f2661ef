package server

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/bingohall/internal/game"
)

// Service routes client requests to the session registry and forwards
// session events back out to watching connections.
type Service struct {
	registry *game.Registry
	server   *Server
	logger   *log.Logger
}

// NewService wires a registry to a WebSocket server and subscribes to the
// registry's event bus.
func NewService(registry *game.Registry, server *Server, logger *log.Logger) *Service {
	s := &Service{
		registry: registry,
		server:   server,
		logger:   logger.WithPrefix("game-service"),
	}
	registry.Events().Subscribe(&sessionEventSubscriber{service: s, logger: s.logger.WithPrefix("events")})
	return s
}

// sessionEventSubscriber converts session events into WebSocket broadcasts.
// Events are published while the session lock is held, so delivery only
// enqueues onto connection send buffers.
type sessionEventSubscriber struct {
	service *Service
	logger  *log.Logger
}

// OnEvent implements game.Subscriber
func (es *sessionEventSubscriber) OnEvent(event game.Event) {
	es.logger.Debug("Processing session event", "type", event.EventType(), "session", event.SessionID())

	switch e := event.(type) {
	case game.SessionCreatedEvent:
		msg, err := NewMessage(MessageTypeSessionCreated, SessionCreatedData{
			SessionID:   e.ID,
			Creator:     e.Creator,
			EntryFee:    e.EntryFee,
			JoinSeconds: int(e.JoinDuration / time.Second),
			TurnSeconds: int(e.TurnDuration / time.Second),
			StartTime:   e.StartTime,
		})
		if err != nil {
			es.logger.Error("Failed to create session created message", "error", err)
			return
		}
		// New sessions are announced to everyone so clients can join.
		es.service.server.Broadcast(msg)

	case game.ParticipantJoinedEvent:
		es.broadcast(e.ID, MessageTypeParticipantJoin, ParticipantJoinedData{
			SessionID:   e.ID,
			Participant: e.Participant,
			Pot:         e.Pot,
		})

	case game.NumberDrawnEvent:
		es.broadcast(e.ID, MessageTypeNumberDrawn, NumberDrawnData{
			SessionID: e.ID,
			Number:    e.Number,
		})

	case game.SessionEndedEvent:
		es.broadcast(e.ID, MessageTypeSessionEnded, SessionEndedData{
			SessionID: e.ID,
			Winner:    e.Winner,
			Pot:       e.Pot,
		})

	case game.SessionCancelledEvent:
		es.broadcast(e.ID, MessageTypeSessionCancelled, SessionCancelledData{
			SessionID: e.ID,
		})
	}
}

func (es *sessionEventSubscriber) broadcast(sessionID uint64, mt MessageType, data interface{}) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		es.logger.Error("Failed to create event message", "error", err, "type", mt)
		return
	}
	es.service.server.BroadcastToSession(sessionID, msg)
}

// HandleCreateSession creates a session with the player as creator and
// returns their board.
func (s *Service) HandleCreateSession(conn *Connection, player string) (*Message, error) {
	id, err := s.registry.CreateSession(player)
	if err != nil {
		return nil, err
	}
	conn.Watch(id)

	board, _ := s.registry.GetBoard(id, player)
	return NewMessage(MessageTypeSessionJoined, SessionJoinedData{
		SessionID: id,
		Board:     board.Rows(),
	})
}

// HandleJoinSession joins the player to a session and returns their board.
func (s *Service) HandleJoinSession(conn *Connection, player string, data JoinSessionData) (*Message, error) {
	if err := s.registry.JoinSession(data.SessionID, player); err != nil {
		return nil, err
	}
	conn.Watch(data.SessionID)

	board, _ := s.registry.GetBoard(data.SessionID, player)
	return NewMessage(MessageTypeSessionJoined, SessionJoinedData{
		SessionID: data.SessionID,
		Board:     board.Rows(),
	})
}

// HandleCancelSession forwards a cancel request. A silent no-op produces no
// reply; clients observe outcome via the session_cancelled broadcast or by
// re-reading session state.
func (s *Service) HandleCancelSession(player string, data CancelSessionData) (*Message, error) {
	return nil, s.registry.CancelSession(data.SessionID, player)
}

// HandleDrawNumber draws the next number; the value reaches the caller via
// the number_drawn broadcast.
func (s *Service) HandleDrawNumber(player string, data DrawNumberData) (*Message, error) {
	_, err := s.registry.DrawNumber(data.SessionID, player)
	return nil, err
}

// HandleShoutBingo evaluates a claim; a win is announced via the
// session_ended broadcast.
func (s *Service) HandleShoutBingo(player string, data ShoutBingoData) (*Message, error) {
	return nil, s.registry.ShoutBingo(data.SessionID, player)
}

// HandleGetBoard returns a stored board, or found=false when the participant
// never joined.
func (s *Service) HandleGetBoard(player string, data GetBoardData) (*Message, error) {
	participant := data.Participant
	if participant == "" {
		participant = player
	}

	board, found := s.registry.GetBoard(data.SessionID, participant)
	reply := BoardData{
		SessionID:   data.SessionID,
		Participant: participant,
		Found:       found,
	}
	if found {
		reply.Board = board.Rows()
		if drawn, err := s.registry.DrawnNumbers(data.SessionID); err == nil {
			reply.Drawn = drawn
		}
	}
	return NewMessage(MessageTypeBoard, reply)
}

// HandleListSessions returns a page of session summaries.
func (s *Service) HandleListSessions(data ListSessionsData) (*Message, error) {
	pageSize := data.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	return NewMessage(MessageTypeSessionList, SessionListData{
		Sessions:  s.registry.ListSessions(pageSize, data.PageIndex),
		PageSize:  pageSize,
		PageIndex: data.PageIndex,
		Total:     s.registry.SessionCount(),
	})
}

// HandleSetConfig applies admin configuration updates. Fields are applied in
// order; the first failure aborts the rest.
func (s *Service) HandleSetConfig(player string, data SetConfigData) (*Message, error) {
	if data.EntryFee != nil {
		if err := s.registry.SetEntryFee(player, *data.EntryFee); err != nil {
			return nil, err
		}
	}
	if data.JoinSeconds != nil {
		if err := s.registry.SetJoinDuration(player, time.Duration(*data.JoinSeconds)*time.Second); err != nil {
			return nil, err
		}
	}
	if data.TurnSeconds != nil {
		if err := s.registry.SetTurnDuration(player, time.Duration(*data.TurnSeconds)*time.Second); err != nil {
			return nil, err
		}
	}

	cfg := s.registry.ConfigSnapshot()
	return NewMessage(MessageTypeConfigUpdated, ConfigUpdatedData{
		EntryFee:    cfg.EntryFee,
		JoinSeconds: int(cfg.JoinDuration / time.Second),
		TurnSeconds: int(cfg.TurnDuration / time.Second),
	})
}
