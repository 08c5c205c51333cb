// Package config holds the state shared by every subcommand: persistent
// flags, the logger and helpers that open stores and journals from a
// loaded configuration.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/rustyeddy/orb/config"
	"github.com/rustyeddy/orb/backtest"
	"github.com/rustyeddy/orb/filter"
	"github.com/rustyeddy/orb/journal"
	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/store"
	"github.com/rustyeddy/orb/store/clickhouse"
)

type RootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string

	Logger *zap.Logger
}

// Load reads the --config file. It is an error when none was given.
func (rc *RootConfig) Load() (*cfgpkg.Config, error) {
	if rc.ConfigPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	return cfgpkg.LoadFromFile(rc.ConfigPath)
}

func (rc *RootConfig) Log() *zap.Logger {
	if rc.Logger == nil {
		return zap.NewNop()
	}
	return rc.Logger
}

// Source is an opened bar store.
type Source struct {
	Store   store.BarStore
	Dataset string
	close   func() error
}

func (s *Source) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenSource opens the bar store named in cfg.Data.
func OpenSource(ctx context.Context, cfg *cfgpkg.Config) (*Source, error) {
	switch cfg.Data.Source {
	case "sqlite":
		s, err := store.NewSQLite(cfg.Data.Path)
		if err != nil {
			return nil, err
		}
		return &Source{Store: s, Dataset: "sqlite:" + cfg.Data.Path, close: s.Close}, nil

	case "csv":
		bars, err := market.ReadCSVFile(cfg.Data.Path, time.Time{}, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", cfg.Data.Path, err)
		}
		m := store.NewMemory()
		m.Insert(cfg.Instrument, cfg.Timeframe, bars)
		return &Source{Store: m, Dataset: "csv:" + cfg.Data.Path}, nil

	case "clickhouse":
		conn, err := clickhouse.NewConn(ctx, cfg.Data.DSN)
		if err != nil {
			return nil, err
		}
		if err := clickhouse.Migrate(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return &Source{Store: clickhouse.NewBarStore(conn), Dataset: "clickhouse", close: conn.Close}, nil

	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

// OpenJournal opens the results journal named in cfg.Journal. A CSV
// journal writes runs next to the results file.
func OpenJournal(cfg *cfgpkg.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		runs := strings.TrimSuffix(cfg.Journal.ResultsFile, ".csv") + "_runs.csv"
		return journal.NewCSV(cfg.Journal.ResultsFile, runs)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}
}

// BaseParams turns cfg into the single parameter set it describes.
func BaseParams(cfg *cfgpkg.Config) (backtest.Params, error) {
	sess, err := cfg.Session.Build()
	if err != nil {
		return backtest.Params{}, err
	}
	filters, err := filter.BuildAll(cfg.Filters)
	if err != nil {
		return backtest.Params{}, err
	}
	p := backtest.Params{
		Instrument: cfg.Instrument,
		Session:    sess,
		Risk:       cfg.Risk,
		Filters:    filters,
	}
	return p, p.Validate()
}

// Grid returns the sweep grid from cfg.Sweep.
func Grid(cfg *cfgpkg.Config) backtest.Grid {
	g := backtest.Grid{
		RewardMultiples:  cfg.Sweep.RewardMultiples,
		ConfirmationBars: cfg.Sweep.ConfirmationBars,
		StopModes:        cfg.Sweep.StopModes,
	}
	for _, m := range cfg.Sweep.Durations {
		g.Durations = append(g.Durations, time.Duration(m)*time.Minute)
	}
	return g
}
