package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full application configuration, loaded once at startup.
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Relay    RelayConfig
	Dispatch DispatchConfig
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Server:   loadServerConfig(),
		AI:       loadAIConfig(),
		Relay:    loadRelayConfig(),
		Dispatch: loadDispatchConfig(),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvStringSlice(key string, fallback []string) []string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
