// Package cache models a single coin cache: its inventory, its minting
// allowance, and the memento snapshot it persists through.
package cache

import (
	"strconv"

	"github.com/driftmark/cointrail/internal/game/grid"
)

// Coin is identified by the cell it was minted in plus a per-cache
// sequence number. The pair is a stable identity: two coins with the
// same origin and number are the same coin.
type Coin struct {
	Origin grid.Cell `json:"origin"`
	Number int       `json:"number"`
}

// ID renders the canonical coin identity, "x,y#n".
func (c Coin) ID() string {
	return c.Origin.Key() + "#" + strconv.Itoa(c.Number)
}

// Cache is a live view of one cache's state. Views are ephemeral:
// callers restore one from its memento, mutate it, and write it back.
type Cache struct {
	Cell           grid.Cell
	Coins          []Coin
	LastCoin       int
	MintsRemaining int
}

// New seeds a cache for a cell with an empty inventory and the given
// minting allowance.
func New(cell grid.Cell, mints int) Cache {
	if mints < 0 {
		mints = 0
	}
	return Cache{Cell: cell, MintsRemaining: mints}
}

// LeaveCoin deposits a coin into the cache. Deposits always succeed.
func (c *Cache) LeaveCoin(coin Coin) {
	c.Coins = append(c.Coins, coin)
}

// TakeCoin removes and returns a coin from the cache.
//
// Deposited coins are drained first, most recent first (LIFO). Only when
// the inventory is empty does the cache mint a new coin, numbered by the
// LastCoin sequence, consuming one unit of the minting allowance. An
// exhausted cache reports ok=false and is left unchanged.
func (c *Cache) TakeCoin() (Coin, bool) {
	if n := len(c.Coins); n > 0 {
		coin := c.Coins[n-1]
		c.Coins = c.Coins[:n-1]
		return coin, true
	}
	if c.MintsRemaining > 0 {
		coin := Coin{Origin: c.Cell, Number: c.LastCoin}
		c.LastCoin++
		c.MintsRemaining--
		return coin, true
	}
	return Coin{}, false
}
