// Package game implements the core bingo session logic.
//
// The main types are Session, which manages a single game's state machine
// (join window, draw turns, claims, pot escrow), and Registry, which owns
// every session, hands out sequential identifiers and serves paginated
// reads.
//
// # Basic Usage
//
// Create a registry and drive a session through its lifecycle:
//
//	reg, _ := game.NewRegistry(cfg, admins, ledger, provider, quartz.NewReal(), logger)
//	id, _ := reg.CreateSession("alice")
//	_ = reg.JoinSession(id, "bob")
//	// ...after the join window closes...
//	n, _ := reg.DrawNumber(id, "alice")
//	err := reg.ShoutBingo(id, "bob")
//
// # Deterministic Testing
//
// Time gates are evaluated against an injected quartz.Clock, and randomness
// comes through the Provider interface, so tests drive the full lifecycle
// with a quartz.Mock and a fixed byte sequence:
//
//	clock := quartz.NewMock(t)
//	clock.Advance(cfg.JoinDuration) // close the join window
//
// # Architecture
//
// Session delegates to specialized pieces:
//   - Wins: pure row/column/diagonal evaluation against the drawn set
//   - GenerateBoard: one-shot per-participant board derivation
//   - Ledger: external escrow; calls complete before counters change
//   - Bus: fan-out of typed session events to subscribers
//
// Sessions are independent and internally serialized by their own mutex, so
// many sessions can be driven concurrently without cross-session ordering.
package game
