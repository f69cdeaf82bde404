// Package telemetry records operational gameplay events.
package telemetry

import (
	"context"
	"time"

	"github.com/driftmark/cointrail/internal/storage"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Gameplay event kinds.
const (
	KindPlayerMoved   = "player.moved"
	KindCoinCollected = "coin.collected"
	KindCoinDeposited = "coin.deposited"
	KindGameReset     = "game.reset"
)

// Emitter records operational telemetry events.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, severity Severity, kind, message string) error {
	if e == nil || e.store == nil {
		return nil
	}
	clock := e.clock
	if clock == nil {
		clock = time.Now
	}
	return e.store.AppendTelemetryEvent(ctx, storage.TelemetryEvent{
		Timestamp: clock().UTC(),
		Severity:  string(severity),
		Kind:      kind,
		Message:   message,
	})
}
