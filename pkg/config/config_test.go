package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
server: http://platform.local
token: tok-abc
project: 7
env: staging
datasources:
  sqlite: /tmp/test.db
variables:
  USER: test
  PASS: secret
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server != "http://platform.local" {
		t.Errorf("expected server http://platform.local, got %s", cfg.Server)
	}
	if cfg.Token != "tok-abc" {
		t.Errorf("expected token tok-abc, got %s", cfg.Token)
	}
	if cfg.Project != 7 {
		t.Errorf("expected project 7, got %d", cfg.Project)
	}
	if cfg.Env != "staging" {
		t.Errorf("expected env staging, got %s", cfg.Env)
	}
	if cfg.Datasources["sqlite"] != "/tmp/test.db" {
		t.Errorf("expected sqlite datasource, got %v", cfg.Datasources)
	}
	if cfg.Variables["USER"] != "test" || cfg.Variables["PASS"] != "secret" {
		t.Errorf("expected variables {USER:test, PASS:secret}, got %v", cfg.Variables)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `server: [invalid yaml`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromDir_FallsBackToEmpty(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server != "" || cfg.Token != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &Config{
		Server:  "http://platform.local",
		Token:   "tok",
		Project: 3,
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Server != cfg.Server || loaded.Token != cfg.Token || loaded.Project != cfg.Project {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}
