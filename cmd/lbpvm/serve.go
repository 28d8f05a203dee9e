// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/profiler"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/lbpvm/api"
	"github.com/ava-labs/lbpvm/config"
	"github.com/ava-labs/lbpvm/consts"
	"github.com/ava-labs/lbpvm/controller"
	"github.com/ava-labs/lbpvm/genesis"
	"github.com/ava-labs/lbpvm/server"
	"github.com/ava-labs/lbpvm/storage"
	"github.com/ava-labs/lbpvm/trace"
	"github.com/ava-labs/lbpvm/utils"
)

const defaultNetworkID uint32 = 1337

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a node serving the pool API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadNodeConfig(cmd)
		if err != nil {
			return err
		}
		genesisPath, err := cmd.Flags().GetString("genesis")
		if err != nil {
			return err
		}
		networkID, err := cmd.Flags().GetUint32("network-id")
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return serve(ctx, c, genesisPath, networkID)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("config", "", "Path to the JSON node config")
	serveCmd.Flags().String("genesis", "", "Path to the JSON genesis (defaults to empty allocations)")
	serveCmd.Flags().Uint32("network-id", defaultNetworkID, "Network ID the rules are bound to")
	serveCmd.Flags().String("database-dir", "", "Override the database directory")
	serveCmd.Flags().String("log-level", "", "Override the log level")
	serveCmd.Flags().Uint16("http-port", 0, "Override the HTTP port")

	for _, name := range []string{"database-dir", "log-level", "http-port"} {
		if err := viper.BindPFlag(name, serveCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// loadNodeConfig reads the config file and applies the overrides that are
// set through flags, the environment or the CLI config.
func loadNodeConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	var b []byte
	if path != "" {
		b, err = os.ReadFile(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("unable to read config: %w", err)
		}
	}
	c, err := config.Load(b)
	if err != nil {
		return config.Config{}, err
	}
	if viper.IsSet("database-dir") {
		c.DatabaseDir = viper.GetString("database-dir")
	}
	if viper.IsSet("http-port") {
		c.HTTPPort = uint16(viper.GetUint("http-port"))
	}
	if viper.IsSet("log-level") {
		level, err := logging.ToLevel(viper.GetString("log-level"))
		if err != nil {
			return config.Config{}, err
		}
		c.LogLevel = level
		c.LogDisplayLevel = level
	}
	return c, nil
}

func loadGenesis(path string, networkID uint32, c *config.Config) (*genesis.Genesis, *genesis.ImmutableRuleFactory, error) {
	b := []byte("{}")
	if path != "" {
		var err error
		b, err = os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to read genesis: %w", err)
		}
	}
	g, rules, err := genesis.Load(b, networkID, utils.ToID(b))
	if err != nil {
		return nil, nil, err
	}
	c.ApplyRules(g.Rules)
	return g, rules, nil
}

func serve(ctx context.Context, c config.Config, genesisPath string, networkID uint32) error {
	log, err := newLogger(c.LoggingConfig(consts.Name))
	if err != nil {
		return err
	}
	defer log.Stop()

	g, rules, err := loadGenesis(genesisPath, networkID, &c)
	if err != nil {
		return err
	}

	gatherer := metrics.NewPrefixGatherer()
	db, err := storage.New(c.DatabaseConfig, c.DatabaseDir, gatherer)
	if err != nil {
		return err
	}

	tracer, err := trace.New(&c.TraceConfig)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := tracer.Close(); err != nil {
			log.Warn("unable to close tracer", zap.Error(err))
		}
	}()

	ctrl, err := controller.New(log, tracer, db, g, rules, gatherer)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := ctrl.Close(); err != nil {
			log.Error("unable to close database", zap.Error(err))
		}
	}()
	if err := ctrl.Initialize(ctx); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", c.Address())
	if err != nil {
		return err
	}
	srv := server.New(log, listener, server.Config{
		HTTP:            c.HTTPConfig,
		AllowedOrigins:  c.AllowedOrigins,
		AllowedHosts:    c.AllowedHosts,
		ShutdownTimeout: c.ShutdownTimeout,
	}, &server.RequestLogger{Log: log})
	h, err := api.NewHandler(api.NewJSONRPCServer(ctrl, log, tracer))
	if err != nil {
		return err
	}
	if err := srv.AddRoute(h.Handler, strings.TrimPrefix(h.Path, "/"), ""); err != nil {
		return err
	}
	if c.MetricsEnabled {
		if err := srv.AddRoute(server.NewMetricsHandler(gatherer), "metrics", ""); err != nil {
			return err
		}
	}

	if c.ContinuousProfilerConfig.Enabled {
		p := profiler.NewContinuous(
			c.ContinuousProfilerConfig.Dir,
			c.ContinuousProfilerConfig.Freq,
			c.ContinuousProfilerConfig.MaxNumFiles,
		)
		go func() {
			if err := p.Dispatch(); err != nil {
				log.Warn("continuous profiler stopped", zap.Error(err))
			}
		}()
		defer p.Shutdown()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(srv.Dispatch)
	eg.Go(func() error {
		<-egCtx.Done()
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	})
	log.Info("node started",
		zap.String("version", consts.Version),
		zap.Stringer("address", srv.Addr()),
		zap.Uint32("networkID", networkID),
		zap.Stringer("chainID", rules.GetRules(0).GetChainID()),
	)
	return eg.Wait()
}
