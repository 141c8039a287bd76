package executor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/apitestkit/apitestkit/pkg/report"
	"github.com/apitestkit/apitestkit/pkg/testcase"
)

func seedDatabase(t *testing.T) string {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open seed db: %v", err)
	}
	stmts := []string{
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)",
		"INSERT INTO users (id, name) VALUES (1, 'alice'), (2, 'bob')",
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	return dsn
}

func databaseItem(mutate func(*testcase.DatabaseStep)) *testcase.Item {
	it := testcase.NewItem(testcase.StepDatabase)
	it.Step.SetName("db")
	mutate(it.Step.(*testcase.DatabaseStep))
	return it
}

func TestRun_DatabaseQueryAndExtract(t *testing.T) {
	dsn := seedDatabase(t)

	it := databaseItem(func(s *testcase.DatabaseStep) {
		s.Driver = "sqlite"
		s.Query = "SELECT name FROM users WHERE id = ${uid}"
		s.Variables = testcase.NewOrderedMap().Set("uid", "2")
		s.Extract = testcase.NewOrderedMap().Set("username", "name")
	})

	r := New(Options{Datasources: map[string]string{"sqlite": dsn}})
	cr := r.Run(context.Background(), caseWith(it))

	if cr.Status != report.StatusPassed {
		t.Fatalf("expected passed, got %s (%+v)", cr.Status, cr.Steps)
	}
	if cr.Steps[0].Extracted["username"] != "bob" {
		t.Errorf("expected username=bob, got %v", cr.Steps[0].Extracted)
	}
}

func TestRun_DatabaseUnsupportedDriver(t *testing.T) {
	it := databaseItem(func(s *testcase.DatabaseStep) {
		s.Driver = "oracle"
		s.Query = "SELECT 1"
	})

	r := New(Options{})
	cr := r.Run(context.Background(), caseWith(it))
	if cr.Steps[0].Status != report.StatusErrored {
		t.Errorf("expected errored, got %s", cr.Steps[0].Status)
	}
}

func TestRun_DatabaseMissingDatasource(t *testing.T) {
	it := databaseItem(func(s *testcase.DatabaseStep) {
		s.Driver = "sqlite"
		s.Query = "SELECT 1"
	})

	r := New(Options{})
	cr := r.Run(context.Background(), caseWith(it))
	if cr.Steps[0].Status != report.StatusErrored {
		t.Errorf("expected errored, got %s", cr.Steps[0].Status)
	}
}

func TestRun_DatabaseBadQuery(t *testing.T) {
	dsn := seedDatabase(t)
	it := databaseItem(func(s *testcase.DatabaseStep) {
		s.Driver = "sqlite"
		s.Query = "SELECT FROM nowhere"
	})

	r := New(Options{Datasources: map[string]string{"sqlite": dsn}})
	cr := r.Run(context.Background(), caseWith(it))
	if cr.Steps[0].Status != report.StatusErrored {
		t.Errorf("expected errored, got %s", cr.Steps[0].Status)
	}
}
