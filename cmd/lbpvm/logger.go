// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger writes to stderr at the display level and to a rotated file
// under the configured directory at the log level.
func newLogger(config logging.Config) (logging.Logger, error) {
	if err := os.MkdirAll(config.Directory, 0o755); err != nil {
		return nil, err
	}
	consoleEnc := logging.Colors.ConsoleEncoder()
	fileEnc := config.LogFormat.FileEncoder()

	consoleCore := logging.NewWrappedCore(config.DisplayLevel, os.Stderr, consoleEnc)

	rw := &lumberjack.Logger{
		Filename:   filepath.Join(config.Directory, config.LoggerName+".log"),
		MaxSize:    config.MaxSize,  // megabytes
		MaxAge:     config.MaxAge,   // days
		MaxBackups: config.MaxFiles, // files
		Compress:   config.Compress,
	}
	fileCore := logging.NewWrappedCore(config.LogLevel, rw, fileEnc)
	prefix := config.LogFormat.WrapPrefix(config.MsgPrefix)

	return logging.NewLogger(prefix, consoleCore, fileCore), nil
}
