package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/bingohall/internal/tui"
)

type WatchCmd struct {
	Server  string `kong:"default='ws://localhost:8080/ws',help='WebSocket server URL'"`
	Name    string `kong:"default='',help='Participant name (defaults to $USER)'"`
	Session uint64 `kong:"arg,help='Session id to watch'"`
}

func (c *WatchCmd) Run() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "observer"
	}

	// The TUI owns the terminal; keep logs out of the way.
	logger := log.New(os.Stderr)
	logger.SetLevel(log.ErrorLevel)

	return tui.Run(tui.Config{
		ServerURL: strings.TrimSpace(c.Server),
		Name:      name,
		SessionID: c.Session,
	}, logger)
}
