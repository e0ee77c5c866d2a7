// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"os"
	"path"
	"sync"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/api"
	"github.com/galacticcouncil/Basilisk-node-sub002/config"
	"github.com/galacticcouncil/Basilisk-node-sub002/event"
	"github.com/galacticcouncil/Basilisk-node-sub002/exchange"
	"github.com/galacticcouncil/Basilisk-node-sub002/pebble"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
)

const simulatorFolder = ".amm-simulator"

var _ api.Backend = (*simulator)(nil)

type simulator struct {
	logLevel   string
	logDir     string
	dbDir      string
	configPath string
	verbose    bool

	cfg       *config.Config
	logs      *logFactory
	log       logging.Logger
	db        *state.Database
	closeDB   func() error
	gatherers prometheus.Gatherers
	exchange  *exchange.Exchange

	// serializes steps; [events] and [submitted] are guarded by it
	stepLock sync.Mutex
	// names of the events delivered since the last reset
	events    []string
	submitted int
}

func NewRootCmd() *cobra.Command {
	s := &simulator{}
	cmd := &cobra.Command{
		Use:   "amm-simulator",
		Short: "Run AMM simulation plans and serve the quote API",
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := cmd.PersistentFlags()
	flags.StringVar(&s.logLevel, "log-level", "", "log level (defaults to the config value)")
	flags.StringVar(&s.logDir, "log-dir", defaultLogDir(), "directory of the simulator logs")
	flags.StringVar(&s.dbDir, "db", "", "pebble directory (empty keeps state in memory)")
	flags.StringVar(&s.configPath, "config", "", "JSON config file")
	flags.BoolVar(&s.verbose, "verbose", false, "also write logs to stderr")

	cmd.AddCommand(
		newRunCmd(s),
		newServeCmd(s),
	)
	return cmd
}

func defaultLogDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}
	return path.Join(homeDir, simulatorFolder, "logs")
}

// withState initializes the simulator, runs [f] and releases the store
// and loggers.
func (s *simulator) withState(ctx context.Context, f func() error) error {
	if err := s.Init(ctx); err != nil {
		return err
	}
	defer s.Close()
	return f()
}

func (s *simulator) Init(ctx context.Context) error {
	var raw []byte
	if s.configPath != "" {
		b, err := os.ReadFile(s.configPath)
		if err != nil {
			return err
		}
		raw = b
	}
	cfg, err := config.New(raw)
	if err != nil {
		return err
	}
	s.cfg = cfg

	level := cfg.GetLogLevel()
	if s.logLevel != "" {
		level, err = logging.ToLevel(s.logLevel)
		if err != nil {
			return err
		}
	}
	loggingConfig := logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   8,
			MaxFiles:  4,
			MaxAge:    7,
			Directory: s.logDir,
		},
		LogLevel:                level,
		DisplayLevel:            level,
		LogFormat:               logging.JSON,
		DisableWriterDisplaying: !s.verbose,
	}
	s.logs = newLogFactory(loggingConfig)
	s.log, err = s.logs.Make("simulator")
	if err != nil {
		s.logs.Close()
		return err
	}

	registry := prometheus.NewRegistry()
	s.gatherers = prometheus.Gatherers{registry}
	dir := s.dbDir
	if dir == "" {
		dir = cfg.Store.Directory
	}
	if dir == "" {
		db := memdb.New()
		s.db = state.NewDatabase(db)
		s.closeDB = db.Close
	} else {
		pebbleConfig := pebble.NewDefaultConfig()
		pebbleConfig.Sync = cfg.Store.Sync
		db, pebbleRegistry, err := pebble.New(dir, pebbleConfig)
		if err != nil {
			s.logs.Close()
			return err
		}
		s.db = state.NewDatabase(db)
		s.closeDB = db.Close
		s.gatherers = append(s.gatherers, pebbleRegistry)
	}
	s.log.Info("opened state", zap.String("directory", dir))

	s.exchange, err = exchange.New(cfg, s.log, registry, event.SubscriptionFunc[amm.Event]{
		AcceptF: s.accept,
	})
	if err != nil {
		return errors.Join(err, s.Close())
	}
	if err := s.exchange.Execute(ctx, s.db, func(mu state.Mutable) error {
		_, err := s.exchange.Genesis(ctx, mu)
		return err
	}); err != nil {
		return errors.Join(err, s.Close())
	}
	return nil
}

func (s *simulator) Close() error {
	var errs []error
	if s.exchange != nil {
		errs = append(errs, s.exchange.Close())
	}
	errs = append(errs, s.closeDB())
	s.logs.Close()
	return errors.Join(errs...)
}

func (s *simulator) accept(_ context.Context, e amm.Event) error {
	s.events = append(s.events, e.Name())
	s.log.Debug("event", zap.String("name", e.Name()), zap.Any("event", e))
	return nil
}

func (s *simulator) Logger() logging.Logger { return s.log }

func (s *simulator) Exchange() *exchange.Exchange { return s.exchange }

func (s *simulator) ImmutableState(context.Context) (state.Immutable, error) { return s.db, nil }

func (s *simulator) Gatherer() prometheus.Gatherer { return s.gatherers }
