package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "norma.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
	if cfg.Language != "ru" || !cfg.ValidateRecords || cfg.WatchDebounce != DefaultWatchDebounce {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
language: en
bundle_dir: /etc/norma/bundles
log:
  level: debug
  json: true
validate: false
watch_debounce: 2s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Config{
		Language:        "en",
		BundleDir:       "/etc/norma/bundles",
		Log:             LogConfig{Level: "debug", JSON: true},
		ValidateRecords: false,
		WatchDebounce:   2 * time.Second,
	}
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "ontology_file: kb.yaml\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OntologyFile != "kb.yaml" || cfg.Language != DefaultLanguage || cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "language: [ru"},
		{"empty language", "language: \"\"\n"},
		{"unknown level", "log:\n  level: trace\n"},
		{"negative debounce", "watch_debounce: -1s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() should fail")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) should fail")
	}
}

func TestValidateSetting(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}

	cfg.ValidateRecords = false
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with record validation off error = %v", err)
	}

	cfg.Log.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an unknown log level")
	}
}
