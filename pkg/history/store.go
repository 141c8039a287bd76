// Package history persists local run results in a SQLite database under
// the workspace home so past dry runs can be listed from the CLI.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/apitestkit/apitestkit/pkg/report"
)

// Record is one stored run.
type Record struct {
	ID         uint   `gorm:"primaryKey"`
	CaseName   string `gorm:"index"`
	Status     string
	Total      int
	Passed     int
	Failed     int
	Errored    int
	Skipped    int
	DurationMs int64
	Report     string // full CaseResult JSON
	CreatedAt  time.Time
}

// Store wraps the history database.
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the history database at path, creating the
// parent directory if needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &Store{db: db}, nil
}

// Save stores a run result.
func (s *Store) Save(cr *report.CaseResult) error {
	data, err := json.Marshal(cr)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	rec := Record{
		CaseName:   cr.Name,
		Status:     string(cr.Status),
		Total:      cr.Summary.Total,
		Passed:     cr.Summary.Passed,
		Failed:     cr.Summary.Failed,
		Errored:    cr.Summary.Errored,
		Skipped:    cr.Summary.Skipped,
		DurationMs: cr.Duration,
		Report:     string(data),
	}
	return s.db.Create(&rec).Error
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []Record
	err := s.db.Order("created_at desc").Limit(limit).Find(&records).Error
	return records, err
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
