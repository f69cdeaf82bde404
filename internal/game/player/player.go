// Package player holds the player's carried coins, visited path, and
// current location.
package player

import (
	"github.com/driftmark/cointrail/internal/game/cache"
	"github.com/driftmark/cointrail/internal/game/grid"
)

// State is the player's in-memory state. Coins follow stack discipline:
// collecting pushes, depositing pops the most recently collected coin.
// The path is append-only and never truncated except by reset.
type State struct {
	Location grid.Position
	Coins    []cache.Coin
	Path     []grid.Position
}

// MoveTo updates the location and appends it to the path.
func (s *State) MoveTo(pos grid.Position) {
	s.Location = pos
	s.Path = append(s.Path, pos)
}

// PushCoin adds a collected coin to the top of the stack.
func (s *State) PushCoin(coin cache.Coin) {
	s.Coins = append(s.Coins, coin)
}

// PopCoin removes and returns the most recently collected coin.
// Popping an empty stack reports ok=false and changes nothing.
func (s *State) PopCoin() (cache.Coin, bool) {
	n := len(s.Coins)
	if n == 0 {
		return cache.Coin{}, false
	}
	coin := s.Coins[n-1]
	s.Coins = s.Coins[:n-1]
	return coin, true
}

// Clear resets the player to an empty state at the given position.
func (s *State) Clear(start grid.Position) {
	s.Location = start
	s.Coins = nil
	s.Path = nil
}
