package config

import (
	"io"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger creates a logger writing to w at the level named by LOG_LEVEL
// (debug, info, warn, error; default info).
func NewLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	name := GetEnv("LOG_LEVEL", "info")
	level, err := log.ParseLevel(strings.ToLower(name))
	if err != nil {
		logger.Warn("unknown LOG_LEVEL, using info", "value", name)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// SeedSource returns the seed function for new games. When the variable
// named by key is set every game uses that seed; otherwise each game draws a
// fresh random one.
func SeedSource(key string) (func() uint64, error) {
	if GetEnv(key, "") == "" {
		return rand.Uint64, nil
	}
	seed, err := GetEnvUint64(key, 0)
	if err != nil {
		return nil, err
	}
	return func() uint64 { return seed }, nil
}
