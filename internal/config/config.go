// Package config loads colorpal's service configuration from the
// environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/jmylchreest/colorpal/internal/colour"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "COLORPAL_"

// Config holds the settings of the web service.
type Config struct {
	Addr            string
	Colours         int
	Algorithm       colour.Algorithm
	Seed            int64
	MaxSamples      int
	MaxIterations   int
	MaxUploadBytes  int64
	ThumbnailSize   int
	AllowedOrigins  []string
	LogLevel        string
	LogJSON         bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	extractor := colour.DefaultExtractorConfig()
	return Config{
		Addr:            ":8080",
		Colours:         colour.DefaultColourCount,
		Algorithm:       extractor.Algorithm,
		Seed:            extractor.Seed,
		MaxSamples:      20000,
		MaxIterations:   extractor.MaxIterations,
		MaxUploadBytes:  20 << 20,
		ThumbnailSize:   640,
		AllowedOrigins:  []string{"*"},
		LogLevel:        "info",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load reads .env (if present) and the COLORPAL_* environment variables on
// top of Default. Malformed values are reported rather than ignored.
func Load() (Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg := Default()
	var err error

	cfg.Addr = getEnv("ADDR", cfg.Addr)
	cfg.Algorithm = colour.Algorithm(getEnv("ALGORITHM", string(cfg.Algorithm)))
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.AllowedOrigins = getEnvSlice("ALLOWED_ORIGINS", cfg.AllowedOrigins)

	cfg.Colours = getEnvInt("COLOURS", cfg.Colours, &err)
	cfg.MaxSamples = getEnvInt("MAX_SAMPLES", cfg.MaxSamples, &err)
	cfg.MaxIterations = getEnvInt("MAX_ITERATIONS", cfg.MaxIterations, &err)
	cfg.ThumbnailSize = getEnvInt("THUMBNAIL_SIZE", cfg.ThumbnailSize, &err)
	cfg.Seed = int64(getEnvInt("SEED", int(cfg.Seed), &err))
	cfg.MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes), &err))
	cfg.LogJSON = getEnvBool("LOG_JSON", cfg.LogJSON, &err)
	cfg.ReadTimeout = getEnvDuration("READ_TIMEOUT", cfg.ReadTimeout, &err)
	cfg.WriteTimeout = getEnvDuration("WRITE_TIMEOUT", cfg.WriteTimeout, &err)
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout, &err)

	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Extractor returns the extractor configuration for a palette of count
// colours. A non-positive count uses the configured default.
func (c Config) Extractor(count int) colour.ExtractorConfig {
	if count <= 0 {
		count = c.Colours
	}
	cfg := colour.DefaultExtractorConfig()
	cfg.Algorithm = c.Algorithm
	cfg.ColorCount = count
	cfg.Seed = c.Seed
	cfg.MaxSamples = c.MaxSamples
	cfg.MaxIterations = c.MaxIterations
	return cfg
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	err := c.Extractor(c.Colours).Validate()

	if c.Addr == "" {
		err = multierr.Append(err, fmt.Errorf("listen address cannot be empty"))
	}
	if c.MaxUploadBytes <= 0 {
		err = multierr.Append(err, fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes))
	}
	if c.ThumbnailSize < 0 {
		err = multierr.Append(err, fmt.Errorf("thumbnail size must not be negative, got %d", c.ThumbnailSize))
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		err = multierr.Append(err, fmt.Errorf("invalid log level: %q", c.LogLevel))
	}
	for name, d := range map[string]time.Duration{
		"read timeout":     c.ReadTimeout,
		"write timeout":    c.WriteTimeout,
		"shutdown timeout": c.ShutdownTimeout,
	} {
		if d <= 0 {
			err = multierr.Append(err, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	return err
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int, errs *error) int {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		*errs = multierr.Append(*errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
		return defaultValue
	}
	return intVal
}

func getEnvBool(key string, defaultValue bool, errs *error) bool {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		*errs = multierr.Append(*errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
		return defaultValue
	}
	return boolVal
}

func getEnvDuration(key string, defaultValue time.Duration, errs *error) time.Duration {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = multierr.Append(*errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
		return defaultValue
	}
	return d
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
