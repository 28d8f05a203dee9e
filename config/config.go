// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/profiler"

	"github.com/ava-labs/lbpvm/consts"
	"github.com/ava-labs/lbpvm/genesis"
	"github.com/ava-labs/lbpvm/liquidity"
	"github.com/ava-labs/lbpvm/pebble"
	"github.com/ava-labs/lbpvm/pool"
	"github.com/ava-labs/lbpvm/server"
	"github.com/ava-labs/lbpvm/trace"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel        logging.Level `json:"logLevel"`
	LogDisplayLevel logging.Level `json:"logDisplayLevel"`
	LogDirectory    string        `json:"logDirectory"`
	LogMaxSizeMB    int           `json:"logMaxSizeMB"`
	LogMaxFiles     int           `json:"logMaxFiles"`
	LogMaxAgeDays   int           `json:"logMaxAgeDays"`

	// DatabaseDir is where pebble keeps state. Empty keeps state in memory.
	DatabaseDir    string        `json:"databaseDir"`
	DatabaseConfig pebble.Config `json:"databaseConfig"`

	HTTPHost        string            `json:"httpHost"`
	HTTPPort        uint16            `json:"httpPort"`
	AllowedOrigins  []string          `json:"allowedOrigins"`
	AllowedHosts    []string          `json:"allowedHosts"`
	HTTPConfig      server.HTTPConfig `json:"httpConfig"`
	ShutdownTimeout time.Duration     `json:"shutdownTimeout"`

	// Shares minted by the first deposit into an empty pool.
	InitialShares uint64           `json:"initialShares"`
	DepositPolicy liquidity.Policy `json:"depositPolicy"`

	MetricsEnabled           bool            `json:"metricsEnabled"`
	TraceConfig              trace.Config    `json:"traceConfig"`
	ContinuousProfilerConfig profiler.Config `json:"continuousProfilerConfig"`
}

func NewConfig() Config {
	return Config{
		LogLevel:        logging.Info,
		LogDisplayLevel: logging.Info,
		LogDirectory:    "logs",
		LogMaxSizeMB:    8,
		LogMaxFiles:     5,
		LogMaxAgeDays:   0, // keep rotated files regardless of age
		DatabaseDir:     "",
		DatabaseConfig:  pebble.NewDefaultConfig(),
		HTTPHost:        "127.0.0.1",
		HTTPPort:        9650,
		AllowedOrigins:  []string{"*"},
		AllowedHosts:    []string{"localhost"},
		HTTPConfig: server.HTTPConfig{
			ReadTimeout:       30 * time.Second,
			ReadHeaderTimeout: 30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		ShutdownTimeout:          10 * time.Second,
		InitialShares:            pool.DefaultInitialShares,
		DepositPolicy:            liquidity.Strict,
		MetricsEnabled:           true,
		TraceConfig:              *trace.DefaultConfig(consts.Name, consts.Version),
		ContinuousProfilerConfig: profiler.Config{Enabled: false},
	}
}

// Load overrides the defaults with the fields set in [b]. Empty input
// returns the defaults.
func Load(b []byte) (Config, error) {
	c := NewConfig()
	if len(b) > 0 {
		if err := json.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return c, c.Verify()
}

func (c *Config) Verify() error {
	if c.InitialShares == 0 {
		return fmt.Errorf("%w: initial shares must be positive", ErrInvalidConfig)
	}
	if c.DepositPolicy != liquidity.Strict && c.DepositPolicy != liquidity.Refund {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, liquidity.ErrInvalidPolicy)
	}
	if c.LogMaxSizeMB <= 0 {
		return fmt.Errorf("%w: log max size must be positive", ErrInvalidConfig)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Address is the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(int(c.HTTPPort)))
}

// ApplyRules overrides the pool parameters of [r] with the operator's
// choice.
func (c *Config) ApplyRules(r *genesis.Rules) {
	r.InitialShares = c.InitialShares
	r.DepositPolicy = c.DepositPolicy
}

// LoggingConfig builds the avalanchego logging config for the logger named
// [name].
func (c *Config) LoggingConfig(name string) logging.Config {
	return logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   c.LogMaxSizeMB,
			MaxFiles:  c.LogMaxFiles,
			MaxAge:    c.LogMaxAgeDays,
			Directory: c.LogDirectory,
			Compress:  false,
		},
		DisplayLevel: c.LogDisplayLevel,
		LogLevel:     c.LogLevel,
		LogFormat:    logging.Plain,
		LoggerName:   name,
	}
}
