// Package config loads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/banachtech/smile/logger"
	"github.com/banachtech/smile/smile"
	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver      string
	DBSource      string
	ServerAddress string
	Log           logger.Config
	// RhoCutoff is the Hagan engine's rho→1 regularisation width.
	RhoCutoff float64
	// FitMaxIterations bounds Levenberg-Marquardt iterations in calibrations.
	FitMaxIterations int
}

// Load reads path (a missing file is ignored) into the environment without
// overriding variables that are already set, then reads the configuration.
func Load(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	cfg := Config{
		DBDriver:      getenv("DB_DRIVER", "postgres"),
		DBSource:      os.Getenv("DB_SOURCE"),
		ServerAddress: getenv("SERVER_ADDRESS", "0.0.0.0:8080"),
		Log:           logger.DefaultConfig(),
	}
	cfg.Log.Level = getenv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getenv("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.Output = getenv("LOG_OUTPUT", cfg.Log.Output)
	cfg.Log.FilePath = getenv("LOG_FILE", cfg.Log.FilePath)

	var err error
	if cfg.RhoCutoff, err = getFloat("SABR_RHO_CUTOFF", smile.DefaultRhoCutoff); err != nil {
		return Config{}, err
	}
	if !(cfg.RhoCutoff > 0 && cfg.RhoCutoff < 1) {
		return Config{}, fmt.Errorf("config: SABR_RHO_CUTOFF must be in (0,1), got %v", cfg.RhoCutoff)
	}
	if cfg.FitMaxIterations, err = getInt("FIT_MAX_ITERATIONS", 500); err != nil {
		return Config{}, err
	}
	if cfg.FitMaxIterations <= 0 {
		return Config{}, fmt.Errorf("config: FIT_MAX_ITERATIONS must be positive, got %d", cfg.FitMaxIterations)
	}
	return cfg, nil
}

// Hagan returns the SABR engine configured with RhoCutoff.
func (c Config) Hagan() smile.HaganVolatilityFunction {
	return smile.HaganVolatilityFunction{RhoCutoff: c.RhoCutoff}
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
