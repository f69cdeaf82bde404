// Package storage defines the persistence interfaces for the Cointrail
// world: cache mementos, player state, and gameplay telemetry.
//
// Each persisted concern (mementos, carried coins, path, location) is an
// independent entry: a corrupt record surfaces as an error on its own
// load path without poisoning the siblings.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/driftmark/cointrail/internal/game/cache"
	"github.com/driftmark/cointrail/internal/game/grid"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate a legitimate "never generated" cell
// from transport or data corruption failures.
var ErrNotFound = errors.New("record not found")

// MementoRecord pairs a cell key with its serialized cache snapshot.
type MementoRecord struct {
	CellKey string
	Payload string
}

// MementoStore is the authoritative persisted source of truth for every
// cache ever generated. Keys are exact-match canonical "x,y" cell keys.
type MementoStore interface {
	PutMemento(ctx context.Context, cellKey, payload string) error
	GetMemento(ctx context.Context, cellKey string) (string, error)
	HasMemento(ctx context.Context, cellKey string) (bool, error)
	ListMementos(ctx context.Context) ([]MementoRecord, error)
	ClearMementos(ctx context.Context) error
}

// PlayerStore persists the player's location, carried coin stack, and
// visited path as three independent entries.
type PlayerStore interface {
	PutLocation(ctx context.Context, pos grid.Position) error
	GetLocation(ctx context.Context) (grid.Position, error)
	ReplaceCoins(ctx context.Context, coins []cache.Coin) error
	ListCoins(ctx context.Context) ([]cache.Coin, error)
	AppendPath(ctx context.Context, pos grid.Position) error
	ListPath(ctx context.Context) ([]grid.Position, error)
	ClearPlayer(ctx context.Context) error
}

// TelemetryEvent captures one operational gameplay event.
type TelemetryEvent struct {
	Timestamp time.Time
	Severity  string
	Kind      string
	Message   string
}

// TelemetryStore appends operational telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}

// GameStore is the full persistence surface the session depends on.
type GameStore interface {
	MementoStore
	PlayerStore
}
