package sqlite

import (
	"context"
	"fmt"

	"github.com/driftmark/cointrail/internal/storage"
)

// AppendTelemetryEvent records one telemetry event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	if _, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO telemetry_events (timestamp, severity, kind, message) VALUES (?, ?, ?, ?)",
		evt.Timestamp.UTC().UnixMilli(), evt.Severity, evt.Kind, evt.Message); err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}
