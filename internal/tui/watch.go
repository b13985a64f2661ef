// Package tui implements the terminal watch client: it subscribes to a
// session over the server's WebSocket protocol and renders the participant's
// board as numbers are drawn.
package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/bingohall/internal/server"
)

// Config describes the session to watch.
type Config struct {
	ServerURL string
	Name      string
	SessionID uint64
}

// serverMsg wraps an incoming wire message as a bubbletea message.
type serverMsg struct {
	msg *server.Message
}

// disconnectMsg signals that the read loop exited.
type disconnectMsg struct {
	err error
}

// WatchModel is the Bubble Tea model for watching a session
type WatchModel struct {
	cfg    Config
	conn   *websocket.Conn
	logger *log.Logger

	spinner spinner.Model

	board    [][]byte
	drawn    map[byte]struct{}
	pot      int64
	winner   string
	ended    bool
	eventLog []string
	errText  string
	quitting bool
}

// Run connects to the server, subscribes to the configured session and runs
// the watch UI until the session ends or the user quits.
func Run(cfg Config, logger *log.Logger) error {
	conn, _, err := websocket.DefaultDialer.Dial(cfg.ServerURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", cfg.ServerURL, err)
	}
	defer func() { _ = conn.Close() }()

	for _, m := range []struct {
		mt   server.MessageType
		data interface{}
	}{
		{server.MessageTypeAuth, server.AuthData{PlayerName: cfg.Name}},
		{server.MessageTypeWatchSession, server.WatchSessionData{SessionID: cfg.SessionID}},
		{server.MessageTypeGetBoard, server.GetBoardData{SessionID: cfg.SessionID}},
	} {
		msg, err := server.NewMessage(m.mt, m.data)
		if err != nil {
			return err
		}
		if err := conn.WriteJSON(msg); err != nil {
			return err
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	model := &WatchModel{
		cfg:     cfg,
		conn:    conn,
		logger:  logger.WithPrefix("tui"),
		spinner: sp,
		drawn:   make(map[byte]struct{}),
	}

	_, err = tea.NewProgram(model).Run()
	return err
}

// Init starts the spinner and the read loop.
func (m *WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.readNext())
}

// readNext returns a command that delivers the next wire message.
func (m *WatchModel) readNext() tea.Cmd {
	return func() tea.Msg {
		var msg server.Message
		if err := m.conn.ReadJSON(&msg); err != nil {
			return disconnectMsg{err: err}
		}
		return serverMsg{msg: &msg}
	}
}

// Update handles messages in the watch UI
func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case disconnectMsg:
		if !m.ended {
			m.errText = "disconnected from server"
		}
		return m, tea.Quit

	case serverMsg:
		m.apply(msg.msg)
		if m.ended {
			return m, nil
		}
		return m, m.readNext()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// apply folds one wire message into the display state.
func (m *WatchModel) apply(msg *server.Message) {
	switch msg.Type {
	case server.MessageTypeBoard:
		var data server.BoardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		if !data.Found {
			m.errText = "no board: participant never joined this session"
			return
		}
		m.board = data.Board
		for _, n := range data.Drawn {
			m.drawn[n] = struct{}{}
		}

	case server.MessageTypeNumberDrawn:
		var data server.NumberDrawnData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		m.drawn[data.Number] = struct{}{}
		m.logEvent(fmt.Sprintf("number drawn: %d", data.Number))

	case server.MessageTypeParticipantJoin:
		var data server.ParticipantJoinedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		m.pot = data.Pot
		m.logEvent(fmt.Sprintf("%s joined, pot is now %d", data.Participant, data.Pot))

	case server.MessageTypeSessionEnded:
		var data server.SessionEndedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		m.ended = true
		m.winner = data.Winner
		m.pot = data.Pot
		m.logEvent(fmt.Sprintf("BINGO! %s wins %d", data.Winner, data.Pot))

	case server.MessageTypeSessionCancelled:
		m.ended = true
		m.logEvent("session cancelled")

	case server.MessageTypeError:
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		m.errText = data.Message
	}
}

const maxEventLog = 8

func (m *WatchModel) logEvent(line string) {
	m.eventLog = append(m.eventLog, line)
	if len(m.eventLog) > maxEventLog {
		m.eventLog = m.eventLog[len(m.eventLog)-maxEventLog:]
	}
}

// View renders the watch UI
func (m *WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("bingohall session %d (%s)", m.cfg.SessionID, m.cfg.Name)))
	b.WriteString("\n\n")

	if m.board == nil {
		b.WriteString(m.spinner.View() + " waiting for board...\n")
	} else {
		b.WriteString(BoardBorderStyle.Render(m.renderBoard()))
		b.WriteString("\n")
		b.WriteString(PotStyle.Render(fmt.Sprintf("pot: %d", m.pot)))
		b.WriteString(fmt.Sprintf("  drawn: %d\n", len(m.drawn)))
	}

	if len(m.eventLog) > 0 {
		b.WriteString("\n")
		for _, line := range m.eventLog {
			b.WriteString(EventLogStyle.Render(line) + "\n")
		}
	}

	if m.winner != "" {
		b.WriteString("\n" + SuccessStyle.Render(fmt.Sprintf("winner: %s", m.winner)) + "\n")
	}
	if m.errText != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.errText) + "\n")
	}

	b.WriteString(EventLogStyle.Render("\nq to quit"))
	return b.String()
}

// renderBoard draws the 5x5 grid, highlighting drawn numbers.
func (m *WatchModel) renderBoard() string {
	rows := make([]string, 0, len(m.board))
	for _, row := range m.board {
		cells := make([]string, 0, len(row))
		for _, n := range row {
			text := fmt.Sprintf(" %3d ", n)
			if _, ok := m.drawn[n]; ok {
				cells = append(cells, DrawnCellStyle.Render(text))
			} else {
				cells = append(cells, CellStyle.Render(text))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}
