package config

import (
	"os"
	"path/filepath"
	"sync"
)

const envHome = "APITESTKIT_HOME"

var (
	homeOnce sync.Once
	homeDir  string
)

// GetHome returns the apitestkit home directory.
//
// Resolution order:
//  1. $APITESTKIT_HOME environment variable
//  2. ~/.apitestkit
//  3. Current working directory (development fallback)
func GetHome() string {
	homeOnce.Do(func() {
		homeDir = resolveHome()
	})
	return homeDir
}

// GetConfigPath returns <home>/config.yaml.
func GetConfigPath() string {
	return filepath.Join(GetHome(), "config.yaml")
}

// GetHistoryPath returns <home>/history.db.
func GetHistoryPath() string {
	return filepath.Join(GetHome(), "history.db")
}

// GetLogPath returns <home>/apitestkit.log.
func GetLogPath() string {
	return filepath.Join(GetHome(), "apitestkit.log")
}

func resolveHome() string {
	// 1. Environment variable
	if env := os.Getenv(envHome); env != "" {
		return env
	}

	// 2. ~/.apitestkit
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".apitestkit")
	}

	// 3. Current working directory
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}

	return "."
}

// ResetHome resets the cached home directory (for testing).
func ResetHome() {
	homeOnce = sync.Once{}
	homeDir = ""
}
