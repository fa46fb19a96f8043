package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/dataflows/flowgrid/pkg/cache"
	"github.com/dataflows/flowgrid/pkg/pipeline"
)

// Config holds CLI defaults, loaded from the user config file and
// overridable through environment variables. No command-line flag sets
// these fields.
type Config struct {
	// CacheBackend selects "file", "redis", or "none".
	CacheBackend string `toml:"cache_backend"`
	// CacheDir is the file cache location. Defaults next to the config.
	CacheDir string `toml:"cache_dir"`
	// RedisAddr is the redis host:port for the redis backend.
	RedisAddr string `toml:"redis_addr"`

	// TurnPenalty and HeuristicWeight tune link routing.
	TurnPenalty     float64 `toml:"turn_penalty"`
	HeuristicWeight float64 `toml:"heuristic_weight"`
}

// defaultConfig returns the built-in defaults.
func defaultConfig() Config {
	return Config{
		CacheBackend: "file",
	}
}

// configDir returns the flowgrid directory under the user config root.
func configDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".flowgrid"
	}
	return filepath.Join(base, "flowgrid")
}

// loadConfig reads the config file if present and applies environment
// overrides. A missing file is not an error; defaults apply.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	path := filepath.Join(configDir(), "config.toml")
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	applyEnv(&cfg)
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(configDir(), "cache")
	}
	return cfg, nil
}

// applyEnv overrides config fields from FLOWGRID_* variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("FLOWGRID_CACHE_BACKEND"); v != "" {
		cfg.CacheBackend = v
	}
	if v := os.Getenv("FLOWGRID_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("FLOWGRID_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("FLOWGRID_TURN_PENALTY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.TurnPenalty = f
		}
	}
	if v := os.Getenv("FLOWGRID_HEURISTIC_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.HeuristicWeight = f
		}
	}
}

// openCache builds the cache backend selected by the config.
func openCache(ctx context.Context, cfg Config, logger *log.Logger) cache.Cache {
	switch cfg.CacheBackend {
	case "none":
		return cache.NewNullCache()
	case "redis":
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr})
		if err != nil {
			logger.Warn("redis cache unavailable, caching disabled", "err", err)
			return cache.NewNullCache()
		}
		return c
	default:
		c, err := cache.NewFileCache(cfg.CacheDir)
		if err != nil {
			logger.Warn("file cache unavailable, caching disabled", "err", err)
			return cache.NewNullCache()
		}
		return c
	}
}

// newRunner assembles a pipeline runner from the config.
func newRunner(ctx context.Context, cfg Config, logger *log.Logger) *pipeline.Runner {
	return pipeline.NewRunner(openCache(ctx, cfg, logger), nil, logger)
}

// pipelineOptions maps config routing knobs onto pipeline options.
func pipelineOptions(cfg Config, refresh bool, logger *log.Logger) pipeline.Options {
	return pipeline.Options{
		TurnPenalty:     cfg.TurnPenalty,
		HeuristicWeight: cfg.HeuristicWeight,
		Refresh:         refresh,
		Logger:          logger,
	}
}
