// Package session owns all mutable game state for one player: the
// world field, the player's inventory and path, and the write-through
// persistence discipline.
//
// Every operation is serialized by an internal mutex. Manual moves and
// geolocation updates enter the same queue and apply in arrival order,
// so the last applied location wins; nothing is merged.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/driftmark/cointrail/internal/game/cache"
	"github.com/driftmark/cointrail/internal/game/grid"
	"github.com/driftmark/cointrail/internal/game/player"
	"github.com/driftmark/cointrail/internal/game/world"
	"github.com/driftmark/cointrail/internal/storage"
	"github.com/driftmark/cointrail/internal/telemetry"
)

// MoveSource identifies what produced a movement event.
type MoveSource string

const (
	// MoveSourceManual marks movement from on-screen controls.
	MoveSourceManual MoveSource = "manual"
	// MoveSourceGeolocation marks movement from the device location stream.
	MoveSourceGeolocation MoveSource = "geolocation"
)

// Session is the single owner of a player's game state.
type Session struct {
	mu      sync.Mutex
	field   *world.Field
	store   storage.GameStore
	emitter *telemetry.Emitter
	start   grid.Position
	player  player.State
	sites   []grid.Cell
}

// New loads persisted state and returns a ready session.
//
// A player with no stored location starts at start; the stored coin
// stack and path are restored verbatim so play resumes exactly where it
// left off.
func New(ctx context.Context, field *world.Field, store storage.GameStore, emitter *telemetry.Emitter, start grid.Position) (*Session, error) {
	if field == nil {
		return nil, errors.New("world field is required")
	}
	if store == nil {
		return nil, errors.New("game store is required")
	}

	s := &Session{field: field, store: store, emitter: emitter, start: start}

	loc, err := store.GetLocation(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		loc = start
	case err != nil:
		return nil, fmt.Errorf("load player location: %w", err)
	}
	coins, err := store.ListCoins(ctx)
	if err != nil {
		return nil, fmt.Errorf("load player coins: %w", err)
	}
	path, err := store.ListPath(ctx)
	if err != nil {
		return nil, fmt.Errorf("load player path: %w", err)
	}

	s.player = player.State{Location: loc, Coins: coins, Path: path}
	s.sites = field.SpawnSites(loc)
	return s, nil
}

// MovePlayer applies a movement event: the location changes, the path
// grows, both are flushed, and the spawn sites around the new location
// replace the previous generation pass.
func (s *Session) MovePlayer(ctx context.Context, pos grid.Position, source MoveSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.player.MoveTo(pos)
	if err := s.store.PutLocation(ctx, pos); err != nil {
		return fmt.Errorf("persist player location: %w", err)
	}
	if err := s.store.AppendPath(ctx, pos); err != nil {
		return fmt.Errorf("persist player path: %w", err)
	}
	s.sites = s.field.SpawnSites(pos)

	_ = s.emitter.Emit(ctx, telemetry.SeverityInfo, telemetry.KindPlayerMoved,
		fmt.Sprintf("player moved to %.5f,%.5f (%s)", pos.Lat, pos.Lng, source))
	return nil
}

// Location returns the player's current position.
func (s *Session) Location() grid.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Location
}

// Coins returns the carried coin stack, bottom first.
func (s *Session) Coins() []cache.Coin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(s.player.Coins[:0:0], s.player.Coins...)
}

// Path returns the visited positions in visit order.
func (s *Session) Path() []grid.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(s.player.Path[:0:0], s.player.Path...)
}

// CellSize returns the lattice pitch of the underlying field.
func (s *Session) CellSize() float64 {
	return s.field.CellSize()
}

// SpawnSites returns the cache sites from the latest generation pass.
func (s *Session) SpawnSites() []grid.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(s.sites[:0:0], s.sites...)
}

// CacheView restores a fresh view of the cache for a cell key, creating
// and persisting the cache on first visit.
func (s *Session) CacheView(ctx context.Context, cellKey string) (cache.Cache, error) {
	cell, err := grid.ParseKey(cellKey)
	if err != nil {
		return cache.Cache{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.field.GetOrCreate(ctx, cell)
}

// Collect takes a coin from the cache at cellKey and pushes it onto the
// player's stack. An exhausted cache reports ok=false with no state
// change anywhere.
func (s *Session) Collect(ctx context.Context, cellKey string) (cache.Coin, bool, error) {
	cell, err := grid.ParseKey(cellKey)
	if err != nil {
		return cache.Coin{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	view, err := s.field.GetOrCreate(ctx, cell)
	if err != nil {
		return cache.Coin{}, false, err
	}
	coin, ok := view.TakeCoin()
	if !ok {
		return cache.Coin{}, false, nil
	}
	if err := s.field.Save(ctx, view); err != nil {
		return cache.Coin{}, false, err
	}

	s.player.PushCoin(coin)
	if err := s.store.ReplaceCoins(ctx, s.player.Coins); err != nil {
		return cache.Coin{}, false, fmt.Errorf("persist player coins: %w", err)
	}

	_ = s.emitter.Emit(ctx, telemetry.SeverityInfo, telemetry.KindCoinCollected,
		fmt.Sprintf("coin %s collected from %s", coin.ID(), cellKey))
	return coin, true, nil
}

// Deposit pops the player's most recently collected coin and leaves it
// in the cache at cellKey. An empty inventory is a no-op (ok=false).
func (s *Session) Deposit(ctx context.Context, cellKey string) (cache.Coin, bool, error) {
	cell, err := grid.ParseKey(cellKey)
	if err != nil {
		return cache.Coin{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coin, ok := s.player.PopCoin()
	if !ok {
		return cache.Coin{}, false, nil
	}

	view, err := s.field.GetOrCreate(ctx, cell)
	if err != nil {
		s.player.PushCoin(coin)
		return cache.Coin{}, false, err
	}
	view.LeaveCoin(coin)
	if err := s.field.Save(ctx, view); err != nil {
		s.player.PushCoin(coin)
		return cache.Coin{}, false, err
	}
	if err := s.store.ReplaceCoins(ctx, s.player.Coins); err != nil {
		return cache.Coin{}, false, fmt.Errorf("persist player coins: %w", err)
	}

	_ = s.emitter.Emit(ctx, telemetry.SeverityInfo, telemetry.KindCoinDeposited,
		fmt.Sprintf("coin %s deposited into %s", coin.ID(), cellKey))
	return coin, true, nil
}

// Reset clears every persisted entry and returns the player to the
// start location. Callers must obtain explicit user confirmation before
// invoking it.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearMementos(ctx); err != nil {
		return fmt.Errorf("clear mementos: %w", err)
	}
	if err := s.store.ClearPlayer(ctx); err != nil {
		return fmt.Errorf("clear player state: %w", err)
	}

	s.player.Clear(s.start)
	s.sites = s.field.SpawnSites(s.start)

	_ = s.emitter.Emit(ctx, telemetry.SeverityWarn, telemetry.KindGameReset, "all game state cleared")
	return nil
}
