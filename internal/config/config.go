// Package config resolves kvtrace settings.
//
// Sources are applied in increasing precedence:
//
//  1. Default()
//  2. a YAML file (unknown fields rejected)
//  3. KVTRACE_* environment variables
//  4. command-line flags, applied by the CLI after Load
//
// The result is validated against an embedded CUE schema.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// ErrInvalid is returned when a resolved configuration violates the schema.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every kvtrace setting.
type Config struct {
	Database    string `yaml:"database" json:"database" env:"KVTRACE_DB"`
	Namespace   int    `yaml:"namespace" json:"namespace" env:"KVTRACE_NAMESPACE"`
	FlushOnOpen bool   `yaml:"flush_on_open" json:"flush_on_open" env:"KVTRACE_FLUSH_ON_OPEN"`
	LogLevel    string `yaml:"log_level" json:"log_level" env:"KVTRACE_LOG_LEVEL"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database:  "kvtrace.db",
		Namespace: 0,
		LogLevel:  "info",
	}
}

// Load resolves defaults, the optional YAML file at path and the environment,
// then validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty file decodes to io.EOF and keeps the defaults
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks c against the embedded CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	value := ctx.Encode(c)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level. Unknown names map to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
