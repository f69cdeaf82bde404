// Package memory provides an in-memory implementation of the storage
// interfaces. State does not survive a restart; it backs tests and
// ephemeral demo runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/driftmark/cointrail/internal/game/cache"
	"github.com/driftmark/cointrail/internal/game/grid"
	"github.com/driftmark/cointrail/internal/storage"
)

// Store keeps all persisted entries in process memory.
type Store struct {
	mu        sync.RWMutex
	mementos  map[string]string
	coins     []cache.Coin
	path      []grid.Position
	location  *grid.Position
	telemetry []storage.TelemetryEvent
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{mementos: make(map[string]string)}
}

// PutMemento stores a serialized cache snapshot under its cell key.
func (s *Store) PutMemento(ctx context.Context, cellKey, payload string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mementos[cellKey] = payload
	return nil
}

// GetMemento fetches a cache snapshot by cell key.
func (s *Store) GetMemento(ctx context.Context, cellKey string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.mementos[cellKey]
	if !ok {
		return "", storage.ErrNotFound
	}
	return payload, nil
}

// HasMemento reports whether a cell key has a stored snapshot.
func (s *Store) HasMemento(ctx context.Context, cellKey string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.mementos[cellKey]
	return ok, nil
}

// ListMementos returns all stored snapshots ordered by cell key.
func (s *Store) ListMementos(ctx context.Context) ([]storage.MementoRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]storage.MementoRecord, 0, len(s.mementos))
	for key, payload := range s.mementos {
		records = append(records, storage.MementoRecord{CellKey: key, Payload: payload})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].CellKey < records[j].CellKey })
	return records, nil
}

// ClearMementos drops every stored snapshot.
func (s *Store) ClearMementos(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mementos = make(map[string]string)
	return nil
}

// PutLocation stores the player's current position.
func (s *Store) PutLocation(ctx context.Context, pos grid.Position) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = &pos
	return nil
}

// GetLocation fetches the player's stored position.
func (s *Store) GetLocation(ctx context.Context) (grid.Position, error) {
	if err := ctx.Err(); err != nil {
		return grid.Position{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.location == nil {
		return grid.Position{}, storage.ErrNotFound
	}
	return *s.location, nil
}

// ReplaceCoins overwrites the stored coin stack, preserving order.
func (s *Store) ReplaceCoins(ctx context.Context, coins []cache.Coin) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coins = append(s.coins[:0:0], coins...)
	return nil
}

// ListCoins returns the stored coin stack in collection order.
func (s *Store) ListCoins(ctx context.Context) ([]cache.Coin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(s.coins[:0:0], s.coins...), nil
}

// AppendPath appends one visited position to the stored path.
func (s *Store) AppendPath(ctx context.Context, pos grid.Position) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = append(s.path, pos)
	return nil
}

// ListPath returns the visited path in visit order.
func (s *Store) ListPath(ctx context.Context) ([]grid.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(s.path[:0:0], s.path...), nil
}

// ClearPlayer drops the stored location, coins, and path.
func (s *Store) ClearPlayer(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = nil
	s.coins = nil
	s.path = nil
	return nil
}

// AppendTelemetryEvent records a telemetry event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.telemetry = append(s.telemetry, evt)
	return nil
}

// TelemetryEvents returns a copy of the recorded telemetry events.
func (s *Store) TelemetryEvents() []storage.TelemetryEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(s.telemetry[:0:0], s.telemetry...)
}
