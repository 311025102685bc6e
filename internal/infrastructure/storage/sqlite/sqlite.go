// Package sqlite - локальное хранилище клиента: кэш лекарств, хранилище
// уведомлений и журнал проходов синхронизации.
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"medtracker/internal/infrastructure/migration"
)

type Storage struct {
	db  *sqlx.DB
	log *slog.Logger
}

// New применяет миграции и открывает базу по пути path.
func New(path string, log *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	if err := migration.NewMigration(migration.DatabaseURL(path), migration.DefaultEngine).Up(); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	log.Debug("local storage opened", "path", path)
	return &Storage{db: db, log: log}, nil
}

func (s *Storage) DB() *sqlx.DB {
	return s.db
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
