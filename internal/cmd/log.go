// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

const logPrefix = "jijfs"

func newLogger(writer io.Writer, debug bool) *slog.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}

	return slog.New(log.NewWithOptions(writer, log.Options{
		Level:  level,
		Prefix: logPrefix,
	}))
}

func setupLogging(writer io.Writer, debug bool) *slog.Logger {
	logger := newLogger(writer, debug)
	slog.SetDefault(logger)

	return logger
}
