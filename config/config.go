// Package config loads bootstrap settings from a YAML file and the environment.
//
// Values are applied in order: defaults, then the file, then environment
// variables prefixed with ENGINE_BOOTSTRAP_ (ENGINE_BOOTSTRAP_LIBRARY,
// ENGINE_BOOTSTRAP_SEARCH_PATHS, ...).
//
//	library: isar
//	backend: dynamic
//	symbol: isar_initialize_path
//	search_paths: [/opt/app/lib]
//	min_platform_version: "21"
package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/engine-bootstrap/errors"
	"github.com/wippyai/engine-bootstrap/gate"
	"github.com/wippyai/engine-bootstrap/loader"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ENGINE_BOOTSTRAP_"

// Config holds bootstrap settings.
type Config struct {
	// Library is the logical engine name, resolved per platform.
	Library string `yaml:"library" env:"LIBRARY"`
	// Backend selects loader.BackendDynamic or loader.BackendWasm.
	Backend string `yaml:"backend" env:"BACKEND"`
	// Symbol is the initialization entry point.
	Symbol string `yaml:"symbol" env:"SYMBOL"`
	// SearchPaths are probed before the platform's default locations.
	SearchPaths []string `yaml:"search_paths" env:"SEARCH_PATHS" envSeparator:","`
	// MinPlatformVersion disables bootstrap on host versions at or below it.
	// Empty disables gating.
	MinPlatformVersion string `yaml:"min_platform_version" env:"MIN_PLATFORM_VERSION"`
	// AppID names the desktop storage subdirectory.
	AppID string `yaml:"app_id" env:"APP_ID"`
	// StorageDir bypasses desktop storage directory derivation.
	StorageDir string `yaml:"storage_dir" env:"STORAGE_DIR"`
	// LogLevel is a zap level name.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	// WasmMemoryLimitPages caps guest memory for the wasm backend.
	WasmMemoryLimitPages uint32 `yaml:"wasm_memory_limit_pages" env:"WASM_MEMORY_LIMIT_PAGES"`
	// WasmMounts are host directories exposed to the wasm guest at the same
	// path. StorageDir, when set, is always mounted.
	WasmMounts []string `yaml:"wasm_mounts" env:"WASM_MOUNTS" envSeparator:","`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Library:  "isar",
		Backend:  loader.BackendDynamic,
		Symbol:   loader.DefaultSymbol,
		LogLevel: "info",
	}
}

// Load reads path (if non-empty) over the defaults, applies the process
// environment and validates the result.
func Load(path string) (Config, error) {
	return load(path, env.Options{Prefix: EnvPrefix})
}

// LoadWithEnv is Load with an explicit environment instead of the process's.
func LoadWithEnv(path string, environ map[string]string) (Config, error) {
	return load(path, env.Options{Prefix: EnvPrefix, Environment: environ})
}

func load(path string, opts env.Options) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read "+path)
		}
		if err := Decode(bytes.NewReader(data), &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse env")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode reads YAML into cfg. Unknown keys are rejected; an empty document
// leaves cfg unchanged.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decode yaml")
	}
	return nil
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Library) == "" {
		return errors.InvalidInput(errors.PhaseConfig, "library name is empty")
	}
	switch c.Backend {
	case loader.BackendDynamic, loader.BackendWasm:
	default:
		return errors.InvalidInput(errors.PhaseConfig, "unknown backend "+c.Backend)
	}
	if _, err := gate.New(c.MinPlatformVersion); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "min_platform_version")
	}
	return nil
}

// Gate returns the platform gate for MinPlatformVersion.
func (c Config) Gate() (gate.Gate, error) {
	return gate.New(c.MinPlatformVersion)
}

// Opener builds the loader backend selected by Backend.
func (c Config) Opener() loader.Opener {
	if c.Backend == loader.BackendWasm {
		var mounts []string
		if c.StorageDir != "" {
			mounts = append(mounts, c.StorageDir)
		}
		return &loader.WasmOpener{
			Symbol:           c.Symbol,
			SearchPaths:      c.SearchPaths,
			MemoryLimitPages: c.WasmMemoryLimitPages,
			Mounts:           append(mounts, c.WasmMounts...),
		}
	}
	return &loader.DynamicOpener{
		Symbol:      c.Symbol,
		SearchPaths: c.SearchPaths,
	}
}
