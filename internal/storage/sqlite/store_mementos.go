package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/driftmark/cointrail/internal/storage"
)

// PutMemento stores a serialized cache snapshot under its cell key,
// replacing any previous snapshot for the cell.
func (s *Store) PutMemento(ctx context.Context, cellKey, payload string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(cellKey) == "" {
		return fmt.Errorf("cell key is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO mementos (cell_key, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT(cell_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		cellKey, payload, nowMillis())
	if err != nil {
		return fmt.Errorf("put memento: %w", err)
	}
	return nil
}

// GetMemento fetches a cache snapshot by cell key.
func (s *Store) GetMemento(ctx context.Context, cellKey string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.ready(); err != nil {
		return "", err
	}
	if strings.TrimSpace(cellKey) == "" {
		return "", fmt.Errorf("cell key is required")
	}

	var payload string
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT payload FROM mementos WHERE cell_key = ?", cellKey).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("get memento: %w", err)
	}
	return payload, nil
}

// HasMemento reports whether a cell key has a stored snapshot.
func (s *Store) HasMemento(ctx context.Context, cellKey string) (bool, error) {
	_, err := s.GetMemento(ctx, cellKey)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListMementos returns all stored snapshots ordered by cell key.
func (s *Store) ListMementos(ctx context.Context) ([]storage.MementoRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT cell_key, payload FROM mementos ORDER BY cell_key")
	if err != nil {
		return nil, fmt.Errorf("list mementos: %w", err)
	}
	defer rows.Close()

	var records []storage.MementoRecord
	for rows.Next() {
		var rec storage.MementoRecord
		if err := rows.Scan(&rec.CellKey, &rec.Payload); err != nil {
			return nil, fmt.Errorf("scan memento row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memento rows: %w", err)
	}
	return records, nil
}

// ClearMementos drops every stored snapshot.
func (s *Store) ClearMementos(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM mementos"); err != nil {
		return fmt.Errorf("clear mementos: %w", err)
	}
	return nil
}
