package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/driftmark/cointrail/internal/game/cache"
	"github.com/driftmark/cointrail/internal/game/grid"
	"github.com/driftmark/cointrail/internal/storage"
)

// PutLocation stores the player's current position.
func (s *Store) PutLocation(ctx context.Context, pos grid.Position) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO player_location (id, lat, lng, updated_at) VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET lat = excluded.lat, lng = excluded.lng, updated_at = excluded.updated_at`,
		pos.Lat, pos.Lng, nowMillis())
	if err != nil {
		return fmt.Errorf("put player location: %w", err)
	}
	return nil
}

// GetLocation fetches the player's stored position.
func (s *Store) GetLocation(ctx context.Context) (grid.Position, error) {
	if err := ctx.Err(); err != nil {
		return grid.Position{}, err
	}
	if err := s.ready(); err != nil {
		return grid.Position{}, err
	}

	var pos grid.Position
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT lat, lng FROM player_location WHERE id = 1").Scan(&pos.Lat, &pos.Lng)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return grid.Position{}, storage.ErrNotFound
		}
		return grid.Position{}, fmt.Errorf("get player location: %w", err)
	}
	return pos, nil
}

// ReplaceCoins overwrites the stored coin stack with the given one,
// preserving collection order. The stack is small and rewritten on
// every collect/deposit, matching the write-through discipline.
func (s *Store) ReplaceCoins(ctx context.Context, coins []cache.Coin) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace coins: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM player_coins"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear player coins: %w", err)
	}
	for _, coin := range coins {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO player_coins (origin_x, origin_y, coin_number) VALUES (?, ?, ?)",
			coin.Origin.X, coin.Origin.Y, coin.Number); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert player coin: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace coins: %w", err)
	}
	return nil
}

// ListCoins returns the stored coin stack in collection order.
func (s *Store) ListCoins(ctx context.Context) ([]cache.Coin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT origin_x, origin_y, coin_number FROM player_coins ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("list player coins: %w", err)
	}
	defer rows.Close()

	var coins []cache.Coin
	for rows.Next() {
		var coin cache.Coin
		if err := rows.Scan(&coin.Origin.X, &coin.Origin.Y, &coin.Number); err != nil {
			return nil, fmt.Errorf("scan player coin row: %w", err)
		}
		coins = append(coins, coin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player coin rows: %w", err)
	}
	return coins, nil
}

// AppendPath appends one visited position to the stored path.
func (s *Store) AppendPath(ctx context.Context, pos grid.Position) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	if _, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO player_path (lat, lng) VALUES (?, ?)", pos.Lat, pos.Lng); err != nil {
		return fmt.Errorf("append player path: %w", err)
	}
	return nil
}

// ListPath returns the visited path in visit order.
func (s *Store) ListPath(ctx context.Context) ([]grid.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT lat, lng FROM player_path ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("list player path: %w", err)
	}
	defer rows.Close()

	var path []grid.Position
	for rows.Next() {
		var pos grid.Position
		if err := rows.Scan(&pos.Lat, &pos.Lng); err != nil {
			return nil, fmt.Errorf("scan player path row: %w", err)
		}
		path = append(path, pos)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player path rows: %w", err)
	}
	return path, nil
}

// ClearPlayer drops the stored location, coins, and path in one
// transaction.
func (s *Store) ClearPlayer(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear player: %w", err)
	}
	for _, stmt := range []string{
		"DELETE FROM player_location",
		"DELETE FROM player_coins",
		"DELETE FROM player_path",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("clear player state: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear player: %w", err)
	}
	return nil
}
