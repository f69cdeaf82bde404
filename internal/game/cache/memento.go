package cache

import (
	"encoding/json"
	"fmt"

	"github.com/driftmark/cointrail/internal/game/grid"
)

func gridCell(p cellPayload) grid.Cell {
	return grid.Cell{X: p.X, Y: p.Y}
}

// memento is the persisted JSON shape of a cache. The string form is
// opaque to callers; only this package reads or writes it.
type memento struct {
	Cell           cellPayload   `json:"cell"`
	Coins          []coinPayload `json:"coins"`
	LastCoin       int           `json:"last_coin"`
	MintsRemaining int           `json:"mints_remaining"`
}

type cellPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type coinPayload struct {
	OriginX int `json:"origin_x"`
	OriginY int `json:"origin_y"`
	Number  int `json:"number"`
}

// Memento serializes the cache's full state to its persisted string
// form. Restore inverts it losslessly.
func (c Cache) Memento() (string, error) {
	m := memento{
		Cell:           cellPayload{X: c.Cell.X, Y: c.Cell.Y},
		Coins:          make([]coinPayload, 0, len(c.Coins)),
		LastCoin:       c.LastCoin,
		MintsRemaining: c.MintsRemaining,
	}
	for _, coin := range c.Coins {
		m.Coins = append(m.Coins, coinPayload{
			OriginX: coin.Origin.X,
			OriginY: coin.Origin.Y,
			Number:  coin.Number,
		})
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal cache memento: %w", err)
	}
	return string(payload), nil
}

// Restore reconstructs a cache view from a memento produced by Memento.
func Restore(payload string) (Cache, error) {
	var m memento
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return Cache{}, fmt.Errorf("unmarshal cache memento: %w", err)
	}
	c := Cache{
		Cell:           gridCell(m.Cell),
		LastCoin:       m.LastCoin,
		MintsRemaining: m.MintsRemaining,
	}
	if len(m.Coins) > 0 {
		c.Coins = make([]Coin, 0, len(m.Coins))
		for _, coin := range m.Coins {
			c.Coins = append(c.Coins, Coin{
				Origin: gridCell(cellPayload{X: coin.OriginX, Y: coin.OriginY}),
				Number: coin.Number,
			})
		}
	}
	return c, nil
}
