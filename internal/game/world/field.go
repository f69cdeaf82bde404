// Package world owns cache generation: which cells host a cache, and
// how live cache views are restored from and written through to the
// memento store.
package world

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/driftmark/cointrail/internal/game/cache"
	"github.com/driftmark/cointrail/internal/game/grid"
	"github.com/driftmark/cointrail/internal/game/luck"
	"github.com/driftmark/cointrail/internal/storage"
)

// Config holds the world generation rules.
type Config struct {
	// CellSize is the lattice pitch in degrees.
	CellSize float64
	// NeighborhoodHalfWidth bounds the square of candidate cells around
	// the player's cell.
	NeighborhoodHalfWidth int
	// SpawnProbability is the luck threshold below which a cell hosts a
	// cache.
	SpawnProbability float64
	// MintCap scales the luck value into an initial minting allowance.
	MintCap int
	// Luck decides spawn sites and initial mint counts. Defaults to
	// luck.Hash.
	Luck luck.Func
}

// Field evaluates the generation rules against the memento store.
//
// The store is the single source of truth: Field never holds live cache
// views between operations. Every mutation a caller makes must be
// followed by Save.
type Field struct {
	cfg   Config
	luck  luck.Func
	store storage.MementoStore
}

// NewField builds a field over the given memento store.
func NewField(cfg Config, store storage.MementoStore) (*Field, error) {
	if store == nil {
		return nil, errors.New("memento store is required")
	}
	if cfg.CellSize <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %v", cfg.CellSize)
	}
	if cfg.NeighborhoodHalfWidth < 0 {
		return nil, fmt.Errorf("neighborhood half-width must be non-negative, got %d", cfg.NeighborhoodHalfWidth)
	}
	if cfg.SpawnProbability < 0 || cfg.SpawnProbability > 1 {
		return nil, fmt.Errorf("spawn probability must be in [0,1], got %v", cfg.SpawnProbability)
	}
	if cfg.MintCap <= 0 {
		return nil, fmt.Errorf("mint cap must be positive, got %d", cfg.MintCap)
	}
	lk := cfg.Luck
	if lk == nil {
		lk = luck.Hash
	}
	return &Field{cfg: cfg, luck: lk, store: store}, nil
}

// CellSize returns the lattice pitch the field was configured with.
func (f *Field) CellSize() float64 {
	return f.cfg.CellSize
}

// CellAt maps a position onto the field's lattice.
func (f *Field) CellAt(pos grid.Position) grid.Cell {
	return grid.CellAt(pos, f.cfg.CellSize)
}

// Spawns reports whether a cell hosts a cache. Pure recompute: absence
// is never persisted, it is re-derived from the luck function on demand.
func (f *Field) Spawns(cell grid.Cell) bool {
	return f.luck(cell.Key()) < f.cfg.SpawnProbability
}

// SpawnSites returns the cache sites in the neighborhood around pos.
//
// Re-running it for the same position always yields the same set; cache
// content is unaffected because it lives in the memento store, not in
// the generation pass.
func (f *Field) SpawnSites(pos grid.Position) []grid.Cell {
	var sites []grid.Cell
	for _, cell := range grid.Neighborhood(f.CellAt(pos), f.cfg.NeighborhoodHalfWidth) {
		if f.Spawns(cell) {
			sites = append(sites, cell)
		}
	}
	return sites
}

// GetOrCreate returns a fresh cache view for the cell.
//
// The first visit seeds the cell with an empty inventory and a minting
// allowance of floor(luck(key) * MintCap), persists the memento, and
// returns a view restored from what was stored. Later visits restore
// whatever state the store holds.
func (f *Field) GetOrCreate(ctx context.Context, cell grid.Cell) (cache.Cache, error) {
	key := cell.Key()
	payload, err := f.store.GetMemento(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		seeded := cache.New(cell, int(math.Floor(f.luck(key)*float64(f.cfg.MintCap))))
		payload, err = seeded.Memento()
		if err != nil {
			return cache.Cache{}, err
		}
		if err := f.store.PutMemento(ctx, key, payload); err != nil {
			return cache.Cache{}, fmt.Errorf("seed cache %s: %w", key, err)
		}
	} else if err != nil {
		return cache.Cache{}, fmt.Errorf("load cache %s: %w", key, err)
	}
	return cache.Restore(payload)
}

// Save writes a mutated cache view through to the store. The view should
// be discarded afterwards; the next access restores a fresh one.
func (f *Field) Save(ctx context.Context, c cache.Cache) error {
	payload, err := c.Memento()
	if err != nil {
		return err
	}
	if err := f.store.PutMemento(ctx, c.Cell.Key(), payload); err != nil {
		return fmt.Errorf("save cache %s: %w", c.Cell.Key(), err)
	}
	return nil
}
