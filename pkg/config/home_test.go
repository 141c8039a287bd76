package config

import (
	"path/filepath"
	"testing"
)

func TestGetHome_EnvVariable(t *testing.T) {
	ResetHome()
	t.Cleanup(ResetHome)

	dir := t.TempDir()
	t.Setenv(envHome, dir)

	if got := GetHome(); got != dir {
		t.Errorf("expected %s, got %s", dir, got)
	}
}

func TestGetHome_Cached(t *testing.T) {
	ResetHome()
	t.Cleanup(ResetHome)

	dir := t.TempDir()
	t.Setenv(envHome, dir)
	first := GetHome()

	// Changing the variable after resolution must not change the result.
	t.Setenv(envHome, t.TempDir())
	if got := GetHome(); got != first {
		t.Errorf("home should be cached, got %s then %s", first, got)
	}
}

func TestDerivedPaths(t *testing.T) {
	ResetHome()
	t.Cleanup(ResetHome)

	dir := t.TempDir()
	t.Setenv(envHome, dir)

	if got := GetConfigPath(); got != filepath.Join(dir, "config.yaml") {
		t.Errorf("unexpected config path %s", got)
	}
	if got := GetHistoryPath(); got != filepath.Join(dir, "history.db") {
		t.Errorf("unexpected history path %s", got)
	}
	if got := GetLogPath(); got != filepath.Join(dir, "apitestkit.log") {
		t.Errorf("unexpected log path %s", got)
	}
}
