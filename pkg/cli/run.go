package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/apitestkit/apitestkit/pkg/config"
	"github.com/apitestkit/apitestkit/pkg/executor"
	"github.com/apitestkit/apitestkit/pkg/history"
	"github.com/apitestkit/apitestkit/pkg/logger"
	"github.com/apitestkit/apitestkit/pkg/report"
	"github.com/apitestkit/apitestkit/pkg/testcase"
	"github.com/apitestkit/apitestkit/pkg/validator"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Run a case file locally",
	ArgsUsage: "<case-file>",
	Description: `Run a case file against its configured base URL and print step
results. The run is recorded in the local history database unless
--no-history is given.

Examples:
  apitestkit run login.yaml
  apitestkit run login.yaml -e BASE_URL=http://staging.local
  apitestkit run login.yaml --excel report.xlsx --json report.json`,
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "env",
			Aliases: []string{"e"},
			Usage:   "Case variables (KEY=VALUE)",
		},
		&cli.StringSliceFlag{
			Name:    "datasource",
			Aliases: []string{"d"},
			Usage:   "Database connections (driver=DSN)",
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "Override the case base URL",
		},
		&cli.StringFlag{
			Name:  "excel",
			Usage: "Write an Excel report to this path",
		},
		&cli.StringFlag{
			Name:  "json",
			Usage: "Write a JSON report to this path",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "Don't record the run in the local history",
		},
	},
	Action: runRun,
}

var historyCommand = &cli.Command{
	Name:  "history",
	Usage: "List recent local runs",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Number of runs to show",
			Value:   20,
		},
	},
	Action: runHistory,
}

func runRun(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one case file")
	}
	path := c.Args().First()

	tc, err := testcase.ParseFile(path)
	if err != nil {
		return err
	}
	if result := validator.ValidateCase(tc); !result.IsValid() {
		for _, e := range result.Errors {
			fmt.Println(e)
		}
		return fmt.Errorf("case is invalid")
	}

	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}

	env := make(map[string]string)
	for k, v := range cfg.Variables {
		env[k] = v
	}
	for _, kv := range c.StringSlice("env") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --env value %q, expected KEY=VALUE", kv)
		}
		env[k] = v
	}

	datasources := make(map[string]string)
	for k, v := range cfg.Datasources {
		datasources[k] = v
	}
	for _, kv := range c.StringSlice("datasource") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --datasource value %q, expected driver=DSN", kv)
		}
		datasources[k] = v
	}

	runner := executor.New(executor.Options{
		BaseURL:     c.String("base-url"),
		Env:         env,
		Datasources: datasources,
		OnStepComplete: func(depth int, res *report.StepResult) {
			indent := strings.Repeat("  ", depth)
			mark := statusMark(res.Status)
			fmt.Printf("%s%s %s (%dms)\n", indent, mark, res.Name, res.Duration)
			if res.Error != "" {
				fmt.Printf("%s    %s\n", indent, res.Error)
			}
		},
	})

	cr := runner.Run(c.Context, tc)
	logger.Info("run finished: case=%s status=%s duration=%dms", cr.Name, cr.Status, cr.Duration)

	fmt.Printf("\n%s: %d passed, %d failed, %d errored, %d skipped (%dms)\n",
		cr.Status, cr.Summary.Passed, cr.Summary.Failed, cr.Summary.Errored,
		cr.Summary.Skipped, cr.Duration)

	if path := c.String("json"); path != "" {
		if err := report.WriteJSON(path, cr); err != nil {
			return err
		}
		fmt.Printf("JSON report: %s\n", path)
	}
	if path := c.String("excel"); path != "" {
		if err := report.ExportExcel(path, []*report.CaseResult{cr}); err != nil {
			return err
		}
		fmt.Printf("Excel report: %s\n", path)
	}

	if !c.Bool("no-history") {
		if err := saveHistory(cr); err != nil {
			logger.Warn("history save failed: %v", err)
		}
	}

	if !cr.Status.IsSuccess() {
		return fmt.Errorf("case %s", cr.Status)
	}
	return nil
}

func saveHistory(cr *report.CaseResult) error {
	store, err := history.Open(config.GetHistoryPath())
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(cr)
}

func runHistory(c *cli.Context) error {
	store, err := history.Open(config.GetHistoryPath())
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(c.Int("limit"))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%s  %-8s %-30s %d/%d passed  %dms\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Status,
			rec.CaseName, rec.Passed, rec.Total, rec.DurationMs)
	}
	return nil
}

func statusMark(s report.Status) string {
	switch s {
	case report.StatusPassed:
		return "✓"
	case report.StatusFailed, report.StatusErrored:
		return "✗"
	case report.StatusSkipped:
		return "-"
	default:
		return "?"
	}
}
