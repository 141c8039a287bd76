// Package cli provides the command-line interface for apitestkit.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/apitestkit/apitestkit/pkg/config"
	"github.com/apitestkit/apitestkit/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Platform backend URL",
		EnvVars: []string{"APITESTKIT_SERVER"},
	},
	&cli.StringFlag{
		Name:    "token",
		Usage:   "Bearer token (overrides stored token)",
		EnvVars: []string{"APITESTKIT_TOKEN"},
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "Path to config.yaml (default: <home>/config.yaml)",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"APITESTKIT_VERBOSE"},
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "apitestkit",
		Usage:   "API test case editor, runner and platform client",
		Version: Version,
		Description: `apitestkit edits, validates and runs API test cases written in the
engine's YAML dialect, and syncs them with the management platform.

Examples:
  apitestkit validate cases/
  apitestkit run login.yaml --excel report.xlsx
  apitestkit pull 42 -o login.yaml
  apitestkit push login.yaml --project 1`,
		Flags: GlobalFlags,
		Before: func(c *cli.Context) error {
			return logger.Init(config.GetLogPath(), c.Bool("verbose"))
		},
		After: func(c *cli.Context) error {
			logger.Close()
			return nil
		},
		Commands: []*cli.Command{
			renderCommand,
			validateCommand,
			importCommand,
			runCommand,
			historyCommand,
			loginCommand,
			pullCommand,
			pushCommand,
			execCommand,
			clarifyCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the workspace config, honoring the --config flag.
func loadConfig(c *cli.Context) (*config.Config, string, error) {
	path := c.String("config")
	if path == "" {
		path = config.GetConfigPath()
	}
	if _, err := os.Stat(path); err != nil {
		return &config.Config{}, path, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, fmt.Errorf("load config: %w", err)
	}
	return cfg, path, nil
}
