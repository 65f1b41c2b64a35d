package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mtss-api/pkg/config"
)

func stubGooseUp(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	original := gooseUp
	gooseUp = fn
	t.Cleanup(func() { gooseUp = original })
}

func TestMigrationVersionsAreSequential(t *testing.T) {
	versions, err := MigrationVersions()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, versions)
}

func TestMigrateRunsGooseUpOnEmbeddedDir(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	calls := 0
	stubGooseUp(t, func(ctx context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		calls++
		assert.Same(t, db, got)
		assert.Equal(t, "migrations", dir)
		return nil
	})

	require.NoError(t, Migrate(context.Background(), sqlx.NewDb(db, "postgres"), nil))
	require.NoError(t, Migrate(context.Background(), sqlx.NewDb(db, "postgres"), nil))
	assert.Equal(t, 2, calls)
}

func TestMigrateWrapsGooseFailure(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	stubGooseUp(t, func(ctx context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("ERROR 0002_interventions.sql: permission denied")
	})

	err = Migrate(context.Background(), sqlx.NewDb(db, "postgres"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply migrations")
	assert.Contains(t, err.Error(), "0002_interventions.sql")
}

// A database that answers nothing stops goose at its version-table lookup,
// before any migration file executes.
func TestMigrateFailsWhenVersionTableUnreachable(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = Migrate(context.Background(), sqlx.NewDb(db, "postgres"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply migrations")
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "mtss", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=mtss sslmode=disable", dsn)
}
