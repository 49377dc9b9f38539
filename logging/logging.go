// Package logging wires up per-component loggers backed by
// gopkg.in/op/go-logging.v1, the same logging library the rest of this
// codebase's lineage uses.
package logging

import (
	"fmt"
	"io"
	"os"

	logging "gopkg.in/op/go-logging.v1"
)

var logFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.4s} %{module}: %{message}`,
)

// Backend holds the process-wide logging configuration. Every logger from
// GetLogger reads from the same backend and level, whenever it was created.
type Backend struct {
	leveled logging.LeveledBackend
}

// Init configures logging output to w at the given level ("DEBUG", "INFO",
// "NOTICE", "WARNING", "ERROR", "CRITICAL"). It replaces go-logging's
// process-wide default backend, so it also applies to loggers obtained with
// GetLogger before Init was called.
func Init(w io.Writer, level string) (*Backend, error) {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := logging.LogLevel(level)
	if err != nil {
		return nil, fmt.Errorf("packetconn/logging: invalid level %q: %w", level, err)
	}

	backend := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(backend, logFormat)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(lvl, "")

	logging.SetBackend(leveled)

	return &Backend{leveled: leveled}, nil
}

// GetLogger returns a logger tagged with module, e.g. "wire" or "secure".
func GetLogger(module string) *logging.Logger {
	return logging.MustGetLogger(module)
}
