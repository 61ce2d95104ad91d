package logx

import (
	"io"
	"os"
)

// Format selects the output formatter
type Format string

const (
	// FormatConsole is a human-readable single-line format
	FormatConsole Format = "console"
	// FormatJSON emits one JSON object per line
	FormatJSON Format = "json"
)

// Config holds logger configuration
type Config struct {
	Level      Level
	Format     Format
	Output     io.Writer
	TimeFormat string
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      LevelInfo,
		Format:     FormatConsole,
		Output:     os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// LoadFromEnv builds a Config from LOG_LEVEL and LOG_FORMAT
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = ParseLevel(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v == string(FormatJSON) {
		cfg.Format = FormatJSON
	}

	return cfg
}
