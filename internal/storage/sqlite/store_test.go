package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/driftmark/cointrail/internal/game/cache"
	"github.com/driftmark/cointrail/internal/game/grid"
	"github.com/driftmark/cointrail/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("open with blank path succeeded, want error")
	}
}

func TestClose_NilSafe(t *testing.T) {
	var store *Store
	if err := store.Close(); err != nil {
		t.Fatalf("nil store close: %v", err)
	}
}

func TestMementos_PutGetReplace(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.GetMemento(ctx, "5,5"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing memento err = %v, want ErrNotFound", err)
	}
	ok, err := store.HasMemento(ctx, "5,5")
	if err != nil || ok {
		t.Fatalf("has missing memento = %v err=%v, want false", ok, err)
	}

	if err := store.PutMemento(ctx, "5,5", `{"v":1}`); err != nil {
		t.Fatalf("put memento: %v", err)
	}
	if err := store.PutMemento(ctx, "5,5", `{"v":2}`); err != nil {
		t.Fatalf("replace memento: %v", err)
	}

	payload, err := store.GetMemento(ctx, "5,5")
	if err != nil {
		t.Fatalf("get memento: %v", err)
	}
	if payload != `{"v":2}` {
		t.Fatalf("payload = %q, want replaced value", payload)
	}

	if err := store.PutMemento(ctx, "6,6", `{"v":3}`); err != nil {
		t.Fatalf("put second memento: %v", err)
	}
	records, err := store.ListMementos(ctx)
	if err != nil {
		t.Fatalf("list mementos: %v", err)
	}
	want := []storage.MementoRecord{
		{CellKey: "5,5", Payload: `{"v":2}`},
		{CellKey: "6,6", Payload: `{"v":3}`},
	}
	if !reflect.DeepEqual(records, want) {
		t.Fatalf("records = %v, want %v", records, want)
	}

	if err := store.ClearMementos(ctx); err != nil {
		t.Fatalf("clear mementos: %v", err)
	}
	records, err = store.ListMementos(ctx)
	if err != nil {
		t.Fatalf("list after clear: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records after clear = %v, want none", records)
	}
}

func TestPutMemento_RequiresCellKey(t *testing.T) {
	store := openTestStore(t)
	if err := store.PutMemento(context.Background(), " ", "{}"); err == nil {
		t.Fatalf("put with blank cell key succeeded, want error")
	}
}

func TestPlayerLocation_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.GetLocation(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing location err = %v, want ErrNotFound", err)
	}

	pos := grid.Position{Lat: 36.9895, Lng: -122.0628}
	if err := store.PutLocation(ctx, pos); err != nil {
		t.Fatalf("put location: %v", err)
	}
	moved := grid.Position{Lat: 36.99, Lng: -122.06}
	if err := store.PutLocation(ctx, moved); err != nil {
		t.Fatalf("update location: %v", err)
	}

	got, err := store.GetLocation(ctx)
	if err != nil {
		t.Fatalf("get location: %v", err)
	}
	if got != moved {
		t.Fatalf("location = %v, want %v", got, moved)
	}
}

func TestPlayerCoins_ReplacePreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	coins := []cache.Coin{
		{Origin: grid.Cell{X: 5, Y: 5}, Number: 0},
		{Origin: grid.Cell{X: -2, Y: 7}, Number: 3},
		{Origin: grid.Cell{X: 5, Y: 5}, Number: 1},
	}
	if err := store.ReplaceCoins(ctx, coins); err != nil {
		t.Fatalf("replace coins: %v", err)
	}

	got, err := store.ListCoins(ctx)
	if err != nil {
		t.Fatalf("list coins: %v", err)
	}
	if !reflect.DeepEqual(got, coins) {
		t.Fatalf("coins = %v, want %v", got, coins)
	}

	// Replacing with a shorter stack drops the tail.
	if err := store.ReplaceCoins(ctx, coins[:1]); err != nil {
		t.Fatalf("replace with shorter stack: %v", err)
	}
	got, err = store.ListCoins(ctx)
	if err != nil {
		t.Fatalf("list coins: %v", err)
	}
	if !reflect.DeepEqual(got, coins[:1]) {
		t.Fatalf("coins = %v, want %v", got, coins[:1])
	}
}

func TestPlayerPath_AppendOnly(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	a := grid.Position{Lat: 1, Lng: 2}
	b := grid.Position{Lat: 3, Lng: 4}
	if err := store.AppendPath(ctx, a); err != nil {
		t.Fatalf("append path: %v", err)
	}
	if err := store.AppendPath(ctx, b); err != nil {
		t.Fatalf("append path: %v", err)
	}

	path, err := store.ListPath(ctx)
	if err != nil {
		t.Fatalf("list path: %v", err)
	}
	if len(path) != 2 || path[0] != a || path[1] != b {
		t.Fatalf("path = %v, want [%v %v]", path, a, b)
	}
}

func TestClearPlayer_DropsAllThreeEntries(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.PutLocation(ctx, grid.Position{Lat: 1, Lng: 1}); err != nil {
		t.Fatalf("put location: %v", err)
	}
	if err := store.ReplaceCoins(ctx, []cache.Coin{{Number: 1}}); err != nil {
		t.Fatalf("replace coins: %v", err)
	}
	if err := store.AppendPath(ctx, grid.Position{Lat: 1, Lng: 1}); err != nil {
		t.Fatalf("append path: %v", err)
	}

	if err := store.ClearPlayer(ctx); err != nil {
		t.Fatalf("clear player: %v", err)
	}

	if _, err := store.GetLocation(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("location after clear err = %v, want ErrNotFound", err)
	}
	coins, err := store.ListCoins(ctx)
	if err != nil || len(coins) != 0 {
		t.Fatalf("coins after clear = %v err=%v, want none", coins, err)
	}
	path, err := store.ListPath(ctx)
	if err != nil || len(path) != 0 {
		t.Fatalf("path after clear = %v err=%v, want none", path, err)
	}
}

func TestState_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "game.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.PutMemento(ctx, "5,5", `{"v":1}`); err != nil {
		t.Fatalf("put memento: %v", err)
	}
	if err := store.PutLocation(ctx, grid.Position{Lat: 9, Lng: 9}); err != nil {
		t.Fatalf("put location: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	payload, err := reopened.GetMemento(ctx, "5,5")
	if err != nil || payload != `{"v":1}` {
		t.Fatalf("memento after reopen = %q err=%v", payload, err)
	}
	loc, err := reopened.GetLocation(ctx)
	if err != nil || loc != (grid.Position{Lat: 9, Lng: 9}) {
		t.Fatalf("location after reopen = %v err=%v", loc, err)
	}
}

func TestAppendTelemetryEvent_Writes(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	evt := storage.TelemetryEvent{Severity: "INFO", Kind: "coin.collected", Message: "coin 5,5#0 collected"}
	if err := store.AppendTelemetryEvent(ctx, evt); err != nil {
		t.Fatalf("append telemetry event: %v", err)
	}

	var count int
	if err := store.sqlDB.QueryRow("SELECT COUNT(*) FROM telemetry_events").Scan(&count); err != nil {
		t.Fatalf("count telemetry events: %v", err)
	}
	if count != 1 {
		t.Fatalf("telemetry events = %d, want 1", count)
	}
}
