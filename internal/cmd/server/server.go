// Package server parses server command flags and starts the game runtime.
package server

import (
	"context"
	"flag"
	"fmt"

	"github.com/driftmark/cointrail/internal/game/grid"
	"github.com/driftmark/cointrail/internal/game/luck"
	"github.com/driftmark/cointrail/internal/game/session"
	"github.com/driftmark/cointrail/internal/game/world"
	entrypoint "github.com/driftmark/cointrail/internal/platform/cmd"
	"github.com/driftmark/cointrail/internal/storage/sqlite"
	"github.com/driftmark/cointrail/internal/telemetry"
	"github.com/driftmark/cointrail/internal/web"
)

// Config holds server command configuration.
type Config struct {
	Port   int    `env:"COINTRAIL_PORT" envDefault:"8080"`
	Addr   string `env:"COINTRAIL_ADDR"`
	DBPath string `env:"COINTRAIL_DB_PATH" envDefault:"cointrail.db"`

	CellSize              float64 `env:"COINTRAIL_CELL_SIZE" envDefault:"0.0001"`
	NeighborhoodHalfWidth int     `env:"COINTRAIL_NEIGHBORHOOD_HALF_WIDTH" envDefault:"8"`
	SpawnProbability      float64 `env:"COINTRAIL_SPAWN_PROBABILITY" envDefault:"0.1"`
	MintCap               int     `env:"COINTRAIL_MINT_CAP" envDefault:"100"`

	StartLat float64 `env:"COINTRAIL_START_LAT" envDefault:"36.9895"`
	StartLng float64 `env:"COINTRAIL_START_LNG" envDefault:"-122.0628"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The game server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the sqlite database file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game server with persistent sqlite storage.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer func() { _ = store.Close() }()

		field, err := world.NewField(world.Config{
			CellSize:              cfg.CellSize,
			NeighborhoodHalfWidth: cfg.NeighborhoodHalfWidth,
			SpawnProbability:      cfg.SpawnProbability,
			MintCap:               cfg.MintCap,
			Luck:                  luck.Hash,
		}, store)
		if err != nil {
			return fmt.Errorf("build field: %w", err)
		}

		start := grid.Position{Lat: cfg.StartLat, Lng: cfg.StartLng}
		sess, err := session.New(ctx, field, store, telemetry.NewEmitter(store), start)
		if err != nil {
			return fmt.Errorf("start session: %w", err)
		}

		addr := cfg.Addr
		if addr == "" {
			addr = fmt.Sprintf(":%d", cfg.Port)
		}
		srv, err := web.NewServer(sess, web.Config{HTTPAddr: addr})
		if err != nil {
			return fmt.Errorf("build server: %w", err)
		}
		return srv.ListenAndServe(ctx)
	})
}
