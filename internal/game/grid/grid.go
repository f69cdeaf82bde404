// Package grid maps continuous map positions onto the discrete cell
// lattice that anchors caches.
//
// All conversions are pure: any position inside a cell maps to the same
// Cell, and a Cell always maps back to the same anchor Position.
package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Position is a continuous map coordinate in latitude/longitude degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Cell is a discrete lattice coordinate derived from a Position.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CellAt returns the cell containing pos for the given cell size.
//
// The mapping is floor division componentwise, so it is many-to-one and
// total: every position belongs to exactly one cell.
func CellAt(pos Position, size float64) Cell {
	return Cell{
		X: int(math.Floor(pos.Lat / size)),
		Y: int(math.Floor(pos.Lng / size)),
	}
}

// Anchor returns the position at the cell's lower corner, the point the
// cell was floored from.
func (c Cell) Anchor(size float64) Position {
	return Position{
		Lat: float64(c.X) * size,
		Lng: float64(c.Y) * size,
	}
}

// Key renders the canonical "x,y" key used to index persisted cache
// state. Two cells compare equal exactly when their keys match.
func (c Cell) Key() string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y)
}

// ParseKey parses a canonical "x,y" cell key.
func ParseKey(key string) (Cell, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(key), ",")
	if !ok {
		return Cell{}, fmt.Errorf("cell key %q is not in x,y form", key)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Cell{}, fmt.Errorf("parse cell key x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Cell{}, fmt.Errorf("parse cell key y: %w", err)
	}
	return Cell{X: x, Y: y}, nil
}

// Neighborhood returns the square of cells within halfWidth steps of
// center on both axes, in row-major order. The center cell is included.
func Neighborhood(center Cell, halfWidth int) []Cell {
	if halfWidth < 0 {
		return nil
	}
	side := 2*halfWidth + 1
	cells := make([]Cell, 0, side*side)
	for dx := -halfWidth; dx <= halfWidth; dx++ {
		for dy := -halfWidth; dy <= halfWidth; dy++ {
			cells = append(cells, Cell{X: center.X + dx, Y: center.Y + dy})
		}
	}
	return cells
}
