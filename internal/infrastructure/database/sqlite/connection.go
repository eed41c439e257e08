package sqlite

import (
	"barberbook/internal/domain/entity"
	"barberbook/internal/pkg/logger"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormWriter sends gorm's log lines to the application logger.
type gormWriter struct {
	log     logger.Logger
	verbose bool
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	if w.verbose {
		w.log.Debug(msg)
		return
	}
	w.log.Warn(msg)
}

// NewDB opens the SQLite database at dsn and migrates the schema.
// logLevel follows the application LOG_LEVEL; SQL is only echoed at debug.
func NewDB(dsn string, logLevel string, log logger.Logger) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "barber.db"
	}

	level := gormlogger.Warn
	switch logLevel {
	case "debug":
		level = gormlogger.Info
	case "silent":
		level = gormlogger.Silent
	}

	newLogger := gormlogger.New(
		gormWriter{log: log, verbose: level == gormlogger.Info},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  newLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", dsn, err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate automatically migrates the database schema for the defined entities.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.Appointment{},
		&entity.Review{},
	)
	if err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	return nil
}

// CloseDB closes the database connection if it's open.
func CloseDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB: %w", err)
	}
	return sqlDB.Close()
}
