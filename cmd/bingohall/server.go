package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/bingohall/internal/game"
	"github.com/lox/bingohall/internal/ledger"
	"github.com/lox/bingohall/internal/server"
)

// ServerCmd contains core server configuration
type ServerCmd struct {
	Config string `kong:"default='bingohall.hcl',help='Path to HCL config file'"`
	Addr   string `kong:"help='Override listen address from config'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed for draws and boards (optional)'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := setupLogger(cfg.Server.LogLevel, c.Debug)

	var seed int64
	switch {
	case c.Seed != nil:
		seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
	case cfg.Server.Seed != 0:
		seed = cfg.Server.Seed
		logger.Info("Using configured seed", "seed", seed)
	default:
		seed = time.Now().UnixNano()
		logger.Info("Using random seed", "seed", seed)
	}

	bank := ledger.NewMemory()
	for _, account := range cfg.Accounts {
		bank.Credit(account.Name, account.Balance)
	}

	registry, err := game.NewRegistry(
		cfg.GameConfig(),
		cfg.Admins,
		bank,
		game.NewSeededProvider(seed),
		quartz.NewReal(),
		logger,
	)
	if err != nil {
		return err
	}

	addr := c.Addr
	if addr == "" {
		addr = cfg.GetServerAddress()
	}

	srv := server.NewServer(addr, logger)
	srv.SetService(server.NewService(registry, srv, logger))

	logger.Info("Starting bingohall server",
		"address", addr,
		"entry_fee", cfg.Game.EntryFee,
		"join_seconds", cfg.Game.JoinSeconds,
		"turn_seconds", cfg.Game.TurnSeconds,
		"accounts", len(cfg.Accounts),
		"admins", len(cfg.Admins),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		return srv.Stop()
	})

	return g.Wait()
}

func setupLogger(level string, debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	if debug {
		logger.SetLevel(log.DebugLevel)
		return logger
	}
	if parsed, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	}
	return logger
}
