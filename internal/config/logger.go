package config

import (
	"io"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger at the configured level. An unknown
// level falls back to info.
func (c *Config) NewLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
