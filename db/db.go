package db

import (
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPath is the default location of the SQLite session database.
var DefaultPath = filepath.Join(os.Getenv("HOME"), ".sessionctl/session.db")

// Open creates the database directory if needed, opens the SQLite database at
// path, and migrates the session tables.
func Open(path string) (*gorm.DB, error) {
	if err := createDBDirectory(path); err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLogger(os.Stderr)})
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to open database")
		return nil, err
	}

	if err := Migrate(gormDB); err != nil {
		return nil, err
	}

	log.Debug().Str("path", path).Msg("Database initialized successfully")
	return gormDB, nil
}

// Migrate creates the session tables if they don't exist.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(&Token{}); err != nil {
		log.Error().Err(err).Msg("Failed to auto-migrate database")
		return err
	}
	return nil
}

// Close closes the underlying database connection.
func Close(gormDB *gorm.DB) error {
	if gormDB == nil {
		return nil
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get raw database connection")
		return err
	}
	return sqlDB.Close()
}

// createDBDirectory creates the directory for the database file if it does not exist.
func createDBDirectory(path string) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			log.Error().Err(err).Msg("Failed to create database directory")
			return err
		}
	}
	return nil
}

// gormLogger writes GORM's log to w and keeps it quiet unless debug
// logging is on. Stdout is reserved for command output.
func gormLogger(w io.Writer) logger.Interface {
	level := logger.Info
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		level = logger.Silent
	}
	return logger.New(stdlog.New(w, "\r\n", stdlog.LstdFlags), logger.Config{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
		Colorful:      false,
	})
}
