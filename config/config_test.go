package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	bserrors "github.com/wippyai/engine-bootstrap/errors"
	"github.com/wippyai/engine-bootstrap/loader"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bootstrap.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Library != "isar" || cfg.Backend != loader.BackendDynamic || cfg.Symbol != loader.DefaultSymbol {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadWithEnv_NoFile(t *testing.T) {
	cfg, err := LoadWithEnv("", map[string]string{})
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadWithEnv_File(t *testing.T) {
	path := writeFile(t, `
library: engine
backend: wasm
search_paths:
  - /opt/a
  - /opt/b
min_platform_version: "21"
wasm_memory_limit_pages: 256
`)
	cfg, err := LoadWithEnv(path, map[string]string{})
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}
	if cfg.Library != "engine" || cfg.Backend != loader.BackendWasm {
		t.Errorf("cfg = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.SearchPaths, []string{"/opt/a", "/opt/b"}) {
		t.Errorf("SearchPaths = %v", cfg.SearchPaths)
	}
	if cfg.MinPlatformVersion != "21" || cfg.WasmMemoryLimitPages != 256 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Symbol != loader.DefaultSymbol {
		t.Errorf("unset key should keep default, Symbol = %q", cfg.Symbol)
	}
}

func TestLoadWithEnv_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "library: engine\nmin_platform_version: \"21\"\n")
	cfg, err := LoadWithEnv(path, map[string]string{
		"ENGINE_BOOTSTRAP_LIBRARY":              "other",
		"ENGINE_BOOTSTRAP_SEARCH_PATHS":         "/x,/y",
		"ENGINE_BOOTSTRAP_MIN_PLATFORM_VERSION": "28",
		"LIBRARY":                               "ignored-without-prefix",
	})
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}
	if cfg.Library != "other" {
		t.Errorf("Library = %q, want env override", cfg.Library)
	}
	if !reflect.DeepEqual(cfg.SearchPaths, []string{"/x", "/y"}) {
		t.Errorf("SearchPaths = %v", cfg.SearchPaths)
	}
	if cfg.MinPlatformVersion != "28" {
		t.Errorf("MinPlatformVersion = %q", cfg.MinPlatformVersion)
	}
}

func TestLoadWithEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{"unknown key", "libary: typo\n", nil},
		{"bad backend", "backend: jni\n", nil},
		{"empty library", "library: \"\"\n", nil},
		{"bad min version", "min_platform_version: latest\n", nil},
		{"bad env number", "", map[string]string{"ENGINE_BOOTSTRAP_WASM_MEMORY_LIMIT_PAGES": "lots"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}
			env := tt.env
			if env == nil {
				env = map[string]string{}
			}
			_, err := LoadWithEnv(path, env)
			if !errors.Is(err, bserrors.ErrInvalidInput) {
				t.Fatalf("err = %v, want invalid_input", err)
			}
			var e *bserrors.Error
			if !errors.As(err, &e) || e.Phase != bserrors.PhaseConfig {
				t.Errorf("err = %v, want config phase", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "missing.yaml") {
		t.Errorf("err = %v, want read error naming the file", err)
	}
}

func TestDecode_EmptyDocument(t *testing.T) {
	cfg := Default()
	if err := Decode(strings.NewReader(""), &cfg); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("empty document changed config: %+v", cfg)
	}
}

func TestConfig_Opener(t *testing.T) {
	cfg := Default()
	cfg.SearchPaths = []string{"/opt/lib"}
	if o, ok := cfg.Opener().(*loader.DynamicOpener); !ok || o.Symbol != cfg.Symbol || o.SearchPaths[0] != "/opt/lib" {
		t.Errorf("dynamic opener = %#v", cfg.Opener())
	}

	cfg.Backend = loader.BackendWasm
	cfg.WasmMemoryLimitPages = 16
	if o, ok := cfg.Opener().(*loader.WasmOpener); !ok || o.MemoryLimitPages != 16 {
		t.Errorf("wasm opener = %#v", cfg.Opener())
	}
}

func TestConfig_WasmMounts(t *testing.T) {
	tests := []struct {
		name       string
		storageDir string
		mounts     []string
		want       []string
	}{
		{"none", "", nil, nil},
		{"storage dir", "/var/lib/app", nil, []string{"/var/lib/app"}},
		{"storage dir first", "/var/lib/app", []string{"/srv/shared"}, []string{"/var/lib/app", "/srv/shared"}},
		{"extra only", "", []string{"/srv/shared"}, []string{"/srv/shared"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Backend = loader.BackendWasm
			cfg.StorageDir = tt.storageDir
			cfg.WasmMounts = tt.mounts

			o, ok := cfg.Opener().(*loader.WasmOpener)
			if !ok {
				t.Fatalf("opener = %#v", cfg.Opener())
			}
			if len(o.Mounts) != len(tt.want) || (len(tt.want) > 0 && !reflect.DeepEqual(o.Mounts, tt.want)) {
				t.Errorf("Mounts = %v, want %v", o.Mounts, tt.want)
			}
		})
	}
}

func TestLoadWithEnv_WasmMounts(t *testing.T) {
	path := writeFile(t, "backend: wasm\nwasm_mounts: [/srv/a]\n")
	cfg, err := LoadWithEnv(path, map[string]string{})
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.WasmMounts, []string{"/srv/a"}) {
		t.Errorf("WasmMounts = %v", cfg.WasmMounts)
	}

	cfg, err = LoadWithEnv(path, map[string]string{"ENGINE_BOOTSTRAP_WASM_MOUNTS": "/x,/y"})
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.WasmMounts, []string{"/x", "/y"}) {
		t.Errorf("WasmMounts = %v, want env override", cfg.WasmMounts)
	}
}

func TestConfig_Gate(t *testing.T) {
	cfg := Default()
	cfg.MinPlatformVersion = "21"
	g, err := cfg.Gate()
	if err != nil {
		t.Fatalf("Gate failed: %v", err)
	}
	if ok, _ := g.AllowsString("21"); ok {
		t.Error("gate should exclude the minimum itself")
	}
}
