package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "WRAPPED_"

// DefaultEnvFile is read when WRAPPED_ENV_FILE is not set. A missing file
// is skipped.
const DefaultEnvFile = ".env"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if WRAPPED_CONFIG is set
//  3. dotenv file (WRAPPED_ENV_FILE, default .env), WRAPPED_ keys only
//  4. env (prefix WRAPPED_)
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, os.Getenv(EnvPrefix+"CONFIG"))
}

// LoadFile is Load with an explicit YAML path; an empty path skips the file layer.
func LoadFile(ctx context.Context, path string) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	if err := loadDotEnv(k, envFilePath()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	envProvider := env.Provider(EnvPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps WRAPPED_LOG_LEVEL to log_level (flat keys, underscores preserved).
func envKey(s string) string {
	return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
}

func envFilePath() string {
	if p := os.Getenv(EnvPrefix + "ENV_FILE"); p != "" {
		return p
	}
	return DefaultEnvFile
}

// loadDotEnv layers the WRAPPED_ entries of a dotenv file onto k without
// touching the process environment.
func loadDotEnv(k *koanf.Koanf, path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("dotenv %s: %w", path, err)
	}
	for key, val := range vars {
		if !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		if err := k.Set(envKey(key), val); err != nil {
			return fmt.Errorf("dotenv %s: %w", path, err)
		}
	}
	return nil
}
