package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Prefix != "erc7201" || cfg.MaxDiagnostics != 100 {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
}

func TestLoadTOML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".nsguard.toml"), `
prefix = "acme"
solidityVersion = "0.8.27"
maxDiagnostics = 5

[output]
format = "sarif"

[cache]
enabled = true
dir = ".cache"
`)
	cfg, err := Load(root, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := DefaultConfig()
	want.Prefix = "acme"
	want.SolidityVersion = "0.8.27"
	want.MaxDiagnostics = 5
	want.Output.Format = "sarif"
	want.Cache = CacheConfig{Enabled: true, Dir: filepath.Join(root, ".cache")}
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreFields(Config{}, "Path")); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
	if filepath.Base(cfg.Path) != ".nsguard.toml" {
		t.Fatalf("path = %q", cfg.Path)
	}
}

func TestLoadExplicitYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nsguard.yaml")
	writeFile(t, path, "prefix: org.example\nlogging:\n  level: debug\n")
	cfg, err := Load("", path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Prefix != "org.example" || cfg.Logging.Level != "debug" {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load("", filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".nsguard.json"), `{"prefix": "fromfile", "output": {"format": "json"}}`)
	t.Setenv("NSGUARD_PREFIX", "fromenv")
	t.Setenv("NSGUARD_OUTPUT_FORMAT", "sarif")

	cfg, err := Load(root, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Prefix != "fromenv" || cfg.Output.Format != "sarif" {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"empty prefix", func(c *Config) { c.Prefix = "" }, "prefix"},
		{"dotted gap", func(c *Config) { c.Prefix = "a..b" }, "prefix"},
		{"bad version", func(c *Config) { c.SolidityVersion = "^0.8.0" }, "solidityVersion"},
		{"negative max", func(c *Config) { c.MaxDiagnostics = -1 }, "maxDiagnostics"},
		{"negative jobs", func(c *Config) { c.Jobs = -2 }, "jobs"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"bad ui", func(c *Config) { c.Output.UI = "maybe" }, "output.ui"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)
			var cerr *ConfigError
			if err := cfg.Validate(); !errors.As(err, &cerr) || cerr.Field != tt.field {
				t.Fatalf("Validate() = %v, want field %q", err, tt.field)
			}
		})
	}
}
