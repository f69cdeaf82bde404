package web

import (
	"context"
	"fmt"

	"github.com/driftmark/cointrail/internal/game/cache"
	"github.com/driftmark/cointrail/internal/game/grid"
)

type moveRequest struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Source string  `json:"source"`
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CoinView is the wire shape of one coin.
type CoinView struct {
	ID      string `json:"id"`
	OriginX int    `json:"origin_x"`
	OriginY int    `json:"origin_y"`
	Number  int    `json:"number"`
}

// SiteView describes one spawn site in the current generation pass.
type SiteView struct {
	CellKey        string        `json:"cell_key"`
	Anchor         grid.Position `json:"anchor"`
	Coins          int           `json:"coins"`
	MintsRemaining int           `json:"mints_remaining"`
}

// StateView is the full rendering payload for the browser.
type StateView struct {
	Location grid.Position   `json:"location"`
	Coins    []CoinView      `json:"coins"`
	Path     []grid.Position `json:"path"`
	Sites    []SiteView      `json:"sites"`
}

type collectResponse struct {
	Coin      *CoinView `json:"coin,omitempty"`
	Exhausted bool      `json:"exhausted,omitempty"`
}

type depositResponse struct {
	Coin           *CoinView `json:"coin,omitempty"`
	EmptyInventory bool      `json:"empty_inventory,omitempty"`
}

func coinView(coin cache.Coin) CoinView {
	return CoinView{
		ID:      coin.ID(),
		OriginX: coin.Origin.X,
		OriginY: coin.Origin.Y,
		Number:  coin.Number,
	}
}

// stateView assembles the rendering payload: player state plus a fresh
// view of every spawn site from the latest generation pass.
func (h *Handler) stateView(ctx context.Context) (StateView, error) {
	coins := h.sess.Coins()
	path := h.sess.Path()
	if path == nil {
		path = []grid.Position{}
	}
	state := StateView{
		Location: h.sess.Location(),
		Coins:    make([]CoinView, 0, len(coins)),
		Path:     path,
		Sites:    []SiteView{},
	}
	for _, coin := range coins {
		state.Coins = append(state.Coins, coinView(coin))
	}

	for _, cell := range h.sess.SpawnSites() {
		view, err := h.sess.CacheView(ctx, cell.Key())
		if err != nil {
			return StateView{}, fmt.Errorf("view cache %s: %w", cell.Key(), err)
		}
		state.Sites = append(state.Sites, SiteView{
			CellKey:        cell.Key(),
			Anchor:         cell.Anchor(h.sess.CellSize()),
			Coins:          len(view.Coins),
			MintsRemaining: view.MintsRemaining,
		})
	}
	return state, nil
}
