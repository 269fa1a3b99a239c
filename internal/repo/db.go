// Package repo persists the power status and subscribers with GORM on SQLite
// (pure Go driver). Query functions take the *gorm.DB explicitly so callers
// can pass a transaction.
package repo

import (
	"net/url"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/power-status-tracker/internal/domain"
)

// slowQueryThreshold marks a query as slow in the GORM log.
const slowQueryThreshold = 200 * time.Millisecond

// connPragmas run on every pooled connection; busy_timeout and foreign_keys
// are per connection in SQLite.
var connPragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// sqliteDSN appends connPragmas to path as driver query parameters.
func sqliteDSN(path string) string {
	q := url.Values{"_pragma": connPragmas}
	return path + "?" + q.Encode()
}

// zerologWriter adapts GORM's Printf logger to the global zerolog logger.
type zerologWriter struct{}

func (zerologWriter) Printf(format string, args ...interface{}) {
	log.Warn().Str("component", "gorm").Msgf(format, args...)
}

// newGormLogger reports slow queries and errors through zerolog. A missing
// status row is an expected state, so ErrRecordNotFound is not logged.
func newGormLogger() logger.Interface {
	return logger.New(zerologWriter{}, logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// OpenSQLite opens (or creates) the database at path. The parent directory
// must exist.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Without this check a missing directory surfaces as sqlite's
	// "out of memory (14)".
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), &gorm.Config{
		Logger: newGormLogger(),
	})
	if err != nil {
		return nil, err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// EnableTracing registers the OpenTelemetry GORM plugin so every query is
// recorded as a span under the caller's context. Metrics are left to
// Prometheus.
func EnableTracing(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin(tracing.WithoutMetrics()))
}

// AutoMigrate creates or updates the tracker tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.PowerStatus{},
		&domain.Subscriber{},
	)
}
