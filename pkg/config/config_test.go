package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Scan.SubScan != 1 {
		t.Errorf("Expected sub-scan 1, got %d", cfg.Scan.SubScan)
	}
	if cfg.Scan.Encoding != "latin1" {
		t.Errorf("Expected latin1 encoding, got %q", cfg.Scan.Encoding)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`scan:
  subScan: 2
  skipInitialFrames: 3
output:
  dumpDir: dumps
  workbook: params.xlsx
  verbose: true
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Scan.SubScan != 2 || cfg.Scan.SkipInitialFrames != 3 {
		t.Errorf("Unexpected scan section %+v", cfg.Scan)
	}
	// keys absent from the file keep their defaults
	if cfg.Scan.Encoding != "latin1" {
		t.Errorf("Expected default encoding, got %q", cfg.Scan.Encoding)
	}
	if cfg.Output.DumpDir != "dumps" || cfg.Output.Workbook != "params.xlsx" || !cfg.Output.Verbose {
		t.Errorf("Unexpected output section %+v", cfg.Output)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("scan: [unclosed"), 0644)
	if _, err := LoadConfig(bad); err == nil {
		t.Error("Expected an error for malformed YAML")
	}

	negative := filepath.Join(dir, "negative.yaml")
	os.WriteFile(negative, []byte("scan:\n  skipInitialFrames: -1\n"), 0644)
	if _, err := LoadConfig(negative); err == nil {
		t.Error("Expected an error for a negative skip")
	}
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Expected round-tripped defaults, got %+v", cfg)
	}
}
