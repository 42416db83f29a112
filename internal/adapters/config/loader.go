// Package config provides the configuration loader for memo.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xhit/go-str2duration/v2"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvCacheDir        = "MEMO_CACHE_DIR"
	EnvCacheIdentifier = "MEMO_CACHE_IDENTIFIER"
	EnvTTL             = "MEMO_TTL"
	EnvCheckFrequency  = "MEMO_CHECK_FREQUENCY"
	EnvStatConcurrency = "MEMO_STAT_CONCURRENCY"
	EnvEnvironment     = "MEMO_ENV"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader from defaults, memo.yaml and the environment.
type Loader struct {
	Logger  ports.Logger
	Version string
	Getenv  func(string) string
}

// NewLoader creates a new Loader with the given logger and application version.
func NewLoader(logger ports.Logger, version string) *Loader {
	return &Loader{
		Logger:  logger,
		Version: version,
		Getenv:  os.Getenv,
	}
}

// Load resolves the configuration for cwd. The config file is searched from
// cwd upwards; relative cache directories are resolved against the directory
// that declared them.
func (l *Loader) Load(cwd string) (domain.Config, error) {
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to resolve working directory")
	}

	cfg := domain.DefaultConfig(l.Version, l.getenv(EnvEnvironment))
	cfg.CacheDirectory = filepath.Join(cwd, cfg.CacheDirectory)

	if path, ok := findConfigFile(cwd); ok {
		if l.Logger != nil {
			l.Logger.Debug("using config file " + path)
		}
		if err := l.applyFile(&cfg, path); err != nil {
			return domain.Config{}, err
		}
	}

	if err := l.applyEnv(&cfg, cwd); err != nil {
		return domain.Config{}, err
	}

	if cfg.StatConcurrency <= 0 {
		return domain.Config{}, zerr.With(zerr.Wrap(domain.ErrInvalidConcurrency, "invalid configuration"), "value", cfg.StatConcurrency)
	}

	return cfg, nil
}

func (l *Loader) getenv(key string) string {
	if l.Getenv == nil {
		return ""
	}
	return l.Getenv(key)
}

func findConfigFile(cwd string) (string, bool) {
	dir := cwd
	for {
		path := filepath.Join(dir, domain.ConfigFileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func (l *Loader) applyFile(cfg *domain.Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is discovered from the working directory
	if err != nil {
		return zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", path)
	}

	var file Memofile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "path", path)
	}

	if file.CacheDirectory != "" {
		cfg.CacheDirectory = resolveDir(filepath.Dir(path), file.CacheDirectory)
	}
	if file.CacheIdentifier != "" {
		cfg.CacheIdentifier = file.CacheIdentifier
	}
	if file.TTL != "" {
		if cfg.TTL, err = ParseDuration(file.TTL); err != nil {
			return zerr.With(err, "field", "ttl")
		}
	}
	if file.CheckFrequency != "" {
		if cfg.CheckFrequency, err = ParseDuration(file.CheckFrequency); err != nil {
			return zerr.With(err, "field", "checkFrequency")
		}
	}
	if file.StatConcurrency != nil {
		cfg.StatConcurrency = *file.StatConcurrency
	}

	return nil
}

func (l *Loader) applyEnv(cfg *domain.Config, cwd string) error {
	var err error

	if v := l.getenv(EnvCacheDir); v != "" {
		cfg.CacheDirectory = resolveDir(cwd, v)
	}
	if v := l.getenv(EnvCacheIdentifier); v != "" {
		cfg.CacheIdentifier = v
	}
	if v := l.getenv(EnvTTL); v != "" {
		if cfg.TTL, err = ParseDuration(v); err != nil {
			return zerr.With(err, "env", EnvTTL)
		}
	}
	if v := l.getenv(EnvCheckFrequency); v != "" {
		if cfg.CheckFrequency, err = ParseDuration(v); err != nil {
			return zerr.With(err, "env", EnvCheckFrequency)
		}
	}
	if v := l.getenv(EnvStatConcurrency); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			return zerr.With(errors.Join(domain.ErrInvalidConcurrency, convErr), "env", EnvStatConcurrency)
		}
		cfg.StatConcurrency = n
	}

	return nil
}

// ParseDuration parses a positive duration. Day and week units are accepted
// in addition to the time.ParseDuration ones, so "30d" and "1w2d" are valid.
func ParseDuration(s string) (time.Duration, error) {
	d, err := str2duration.ParseDuration(s)
	if err != nil {
		return 0, zerr.With(errors.Join(domain.ErrInvalidDuration, err), "value", s)
	}
	if d <= 0 {
		return 0, zerr.With(zerr.Wrap(domain.ErrInvalidDuration, "duration must be positive"), "value", s)
	}
	return d, nil
}

func resolveDir(base, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}
