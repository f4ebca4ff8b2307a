// Package config reads runtime settings from the environment, with a .env
// file loaded automatically when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config carries every tunable the binaries share. Unset variables fall back
// to the defaults below; malformed values are an error.
type Config struct {
	// Engine.
	SearchDepth int           // CHESSHYBRID_DEPTH
	MoveTime    time.Duration // CHESSHYBRID_MOVETIME_MS

	// Agent.
	Mode            string // CHESSHYBRID_MODE: minimax | rl | hybrid
	BookPath        string // CHESSHYBRID_BOOK, optional Polyglot .bin
	MaxOpeningPlies int    // CHESSHYBRID_BOOK_PLIES

	// Storage.
	DataDir string // CHESSHYBRID_DATA_DIR, empty means the platform default

	// Server.
	HTTPAddr string // CHESSHYBRID_HTTP_ADDR
}

// Load builds the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		SearchDepth:     4,
		MoveTime:        5 * time.Second,
		Mode:            "hybrid",
		BookPath:        os.Getenv("CHESSHYBRID_BOOK"),
		MaxOpeningPlies: 20,
		DataDir:         os.Getenv("CHESSHYBRID_DATA_DIR"),
		HTTPAddr:        ":8080",
	}

	if v := os.Getenv("CHESSHYBRID_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("CHESSHYBRID_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}

	var err error
	if cfg.SearchDepth, err = intEnv("CHESSHYBRID_DEPTH", cfg.SearchDepth); err != nil {
		return nil, err
	}
	if cfg.MaxOpeningPlies, err = intEnv("CHESSHYBRID_BOOK_PLIES", cfg.MaxOpeningPlies); err != nil {
		return nil, err
	}
	ms, err := intEnv("CHESSHYBRID_MOVETIME_MS", int(cfg.MoveTime/time.Millisecond))
	if err != nil {
		return nil, err
	}
	cfg.MoveTime = time.Duration(ms) * time.Millisecond

	if cfg.SearchDepth < 1 {
		return nil, fmt.Errorf("config: CHESSHYBRID_DEPTH must be at least 1")
	}
	switch cfg.Mode {
	case "minimax", "rl", "hybrid":
	default:
		return nil, fmt.Errorf("config: CHESSHYBRID_MODE must be minimax, rl or hybrid, got %q", cfg.Mode)
	}
	return cfg, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
