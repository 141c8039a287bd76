package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/apitestkit/apitestkit/pkg/report"
	"github.com/apitestkit/apitestkit/pkg/testcase"
)

func (r *Runner) runDatabase(ctx context.Context, s *testcase.DatabaseStep, res *report.StepResult) {
	driver := strings.ToLower(s.Driver)
	switch driver {
	case "sqlite", "sqlite3":
	default:
		fail(res, stepErrorf(CodeUnsupported, "unsupported database type for local runs: %s", s.Driver))
		return
	}

	dsn, ok := r.opts.Datasources[driver]
	if !ok {
		dsn, ok = r.opts.Datasources["sqlite"]
	}
	if !ok || dsn == "" {
		fail(res, stepErrorf(CodeConfig, "no datasource configured for %s", driver))
		return
	}

	// Step-local variables feed query expansion.
	for _, p := range s.Variables.Pairs() {
		r.setVar(p.Key, r.expand(fmt.Sprintf("%v", p.Value)))
	}
	query := r.expand(s.Query)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		fail(res, &StepError{Code: CodeDatabase, Message: "open datasource", Cause: err})
		return
	}

	var rows []map[string]any
	if err := db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		fail(res, &StepError{Code: CodeDatabase, Message: "query failed", Cause: err})
		return
	}
	res.Message = fmt.Sprintf("%d row(s)", len(rows))

	if s.Extract.Len() > 0 {
		if res.Extracted == nil {
			res.Extracted = make(map[string]string)
		}
		var first map[string]any
		if len(rows) > 0 {
			first = rows[0]
		}
		for _, p := range s.Extract.Pairs() {
			column := fmt.Sprintf("%v", p.Value)
			value := ""
			if v, ok := first[column]; ok && v != nil {
				value = fmt.Sprintf("%v", v)
			}
			r.setVar(p.Key, value)
			res.Extracted[p.Key] = value
		}
	}

	res.Status = report.StatusPassed
}
