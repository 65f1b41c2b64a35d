package database

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

const migrationDir = "migrations"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// goose keeps its dialect, base FS and logger in package globals.
var gooseMu sync.Mutex

var gooseUp = goose.UpContext // swapped in tests

// Migrate applies pending embedded migrations. Applied versions are tracked in
// goose_db_version, so each file runs once per database.
func Migrate(ctx context.Context, db *sqlx.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := configureGoose(logger); err != nil {
		return err
	}
	if err := gooseUp(ctx, db.DB, migrationDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// MigrationVersions lists the versions embedded in the binary, in apply order.
func MigrationVersions() ([]int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := configureGoose(zap.NewNop()); err != nil {
		return nil, err
	}
	migrations, err := goose.CollectMigrations(migrationDir, 0, goose.MaxVersion)
	if err != nil {
		return nil, fmt.Errorf("collect migrations: %w", err)
	}
	versions := make([]int64, 0, len(migrations))
	for _, m := range migrations {
		versions = append(versions, m.Version)
	}
	return versions, nil
}

func configureGoose(logger *zap.Logger) error {
	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(gooseLogger{logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	s *zap.SugaredLogger
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.s.Errorf(format, v...) }

func (l gooseLogger) Printf(format string, v ...interface{}) { l.s.Infof(format, v...) }
