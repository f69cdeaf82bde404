package cache

import (
	"reflect"
	"testing"

	"github.com/driftmark/cointrail/internal/game/grid"
)

func TestTakeCoin_MintsSequentiallyUntilExhausted(t *testing.T) {
	c := New(grid.Cell{X: 5, Y: 5}, 5)

	for i := 0; i < 5; i++ {
		coin, ok := c.TakeCoin()
		if !ok {
			t.Fatalf("take %d failed, want minted coin", i)
		}
		if coin.Number != i {
			t.Fatalf("coin number = %d, want %d", coin.Number, i)
		}
		if coin.Origin != c.Cell {
			t.Fatalf("coin origin = %v, want %v", coin.Origin, c.Cell)
		}
	}

	if c.MintsRemaining != 0 {
		t.Fatalf("mints remaining = %d, want 0", c.MintsRemaining)
	}
	if c.LastCoin != 5 {
		t.Fatalf("last coin = %d, want 5", c.LastCoin)
	}
	if _, ok := c.TakeCoin(); ok {
		t.Fatalf("take on exhausted cache succeeded, want ok=false")
	}
}

func TestTakeCoin_ExhaustedCacheIsUnchanged(t *testing.T) {
	c := New(grid.Cell{X: 1, Y: 1}, 0)
	before := c
	if _, ok := c.TakeCoin(); ok {
		t.Fatalf("take from empty zero-mint cache succeeded")
	}
	if !reflect.DeepEqual(c, before) {
		t.Fatalf("exhausted take mutated cache: %+v, want %+v", c, before)
	}
}

func TestTakeCoin_DepositedCoinsReturnLIFOBeforeMints(t *testing.T) {
	c := New(grid.Cell{X: 2, Y: 3}, 10)
	a := Coin{Origin: grid.Cell{X: 9, Y: 9}, Number: 0}
	b := Coin{Origin: grid.Cell{X: 8, Y: 8}, Number: 4}

	c.LeaveCoin(a)
	c.LeaveCoin(b)

	first, ok := c.TakeCoin()
	if !ok || first != b {
		t.Fatalf("first take = %v ok=%v, want %v", first, ok, b)
	}
	second, ok := c.TakeCoin()
	if !ok || second != a {
		t.Fatalf("second take = %v ok=%v, want %v", second, ok, a)
	}
	if c.MintsRemaining != 10 {
		t.Fatalf("mints remaining = %d, want 10 (no mints while inventory held coins)", c.MintsRemaining)
	}

	minted, ok := c.TakeCoin()
	if !ok {
		t.Fatalf("take after draining inventory failed")
	}
	if minted.Origin != c.Cell || minted.Number != 0 {
		t.Fatalf("minted coin = %v, want origin %v number 0", minted, c.Cell)
	}
}

func TestTakeCoin_DepositedCoinKeepsItsIdentity(t *testing.T) {
	// A coin returned to an exhausted cache must come back out as itself,
	// never as a fresh mint.
	c := New(grid.Cell{X: 5, Y: 5}, 1)
	minted, ok := c.TakeCoin()
	if !ok {
		t.Fatalf("initial mint failed")
	}

	c.LeaveCoin(minted)
	back, ok := c.TakeCoin()
	if !ok {
		t.Fatalf("take of deposited coin failed")
	}
	if back != minted {
		t.Fatalf("returned coin = %v, want the deposited %v", back, minted)
	}
	if c.MintsRemaining != 0 {
		t.Fatalf("mints remaining = %d, want 0", c.MintsRemaining)
	}
	if c.LastCoin != 1 {
		t.Fatalf("last coin = %d, want 1", c.LastCoin)
	}
}

func TestCoinID(t *testing.T) {
	coin := Coin{Origin: grid.Cell{X: -3, Y: 12}, Number: 7}
	if got, want := coin.ID(), "-3,12#7"; got != want {
		t.Fatalf("coin id = %q, want %q", got, want)
	}
}

func TestNew_ClampsNegativeMints(t *testing.T) {
	c := New(grid.Cell{}, -4)
	if c.MintsRemaining != 0 {
		t.Fatalf("mints remaining = %d, want 0", c.MintsRemaining)
	}
}

func TestMemento_RoundTripIsLossless(t *testing.T) {
	c := New(grid.Cell{X: 5, Y: 5}, 5)
	if _, ok := c.TakeCoin(); !ok {
		t.Fatalf("setup take failed")
	}
	c.LeaveCoin(Coin{Origin: grid.Cell{X: -1, Y: 2}, Number: 3})

	payload, err := c.Memento()
	if err != nil {
		t.Fatalf("memento: %v", err)
	}
	restored, err := Restore(payload)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !reflect.DeepEqual(restored, c) {
		t.Fatalf("restored cache = %+v, want %+v", restored, c)
	}
}

func TestMemento_EmptyInventoryRoundTrip(t *testing.T) {
	c := New(grid.Cell{X: 0, Y: -9}, 42)
	payload, err := c.Memento()
	if err != nil {
		t.Fatalf("memento: %v", err)
	}
	restored, err := Restore(payload)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !reflect.DeepEqual(restored, c) {
		t.Fatalf("restored cache = %+v, want %+v", restored, c)
	}
}

func TestRestore_RejectsMalformedPayload(t *testing.T) {
	if _, err := Restore("{not json"); err == nil {
		t.Fatalf("restore of malformed payload succeeded, want error")
	}
}
