//go:build integration

// Package integration runs the back office against a real PostgreSQL
// started with testcontainers and migrated with the embedded schema.
package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/preorder/backoffice/internal/infrastructure/config"
	"github.com/preorder/backoffice/internal/infrastructure/migration"
	"github.com/preorder/backoffice/internal/infrastructure/persistence"
	"github.com/preorder/backoffice/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// TestDB is a migrated PostgreSQL database in its own container
type TestDB struct {
	*persistence.Database
	Container testcontainers.Container
	t         *testing.T
}

// NewTestDB starts a fresh container, applies every migration and returns
// the connected database. The container is terminated on cleanup.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("backoffice_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := &config.DatabaseConfig{
		Driver:          "postgres",
		Host:            host,
		Port:            port.Int(),
		User:            "postgres",
		Password:        "postgres",
		DBName:          "backoffice_test",
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 1,
	}

	level := gormlogger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = gormlogger.Info
	}
	db, err := persistence.NewDatabase(cfg, persistence.WithLogger(gormlogger.Default.LogMode(level)))
	require.NoError(t, err, "Failed to connect to database")

	tdb := &TestDB{Database: db, Container: container, t: t}
	t.Cleanup(tdb.Close)

	tdb.migrate()
	return tdb
}

// Close closes the connection and terminates the container
func (tdb *TestDB) Close() {
	if err := tdb.Database.Close(); err != nil {
		tdb.t.Logf("Warning: Failed to close database: %v", err)
	}
	if err := tdb.Container.Terminate(context.Background()); err != nil {
		tdb.t.Logf("Warning: Failed to terminate container: %v", err)
	}
}

// CleanTables truncates every application table
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to get table names")

	for _, table := range tables {
		err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error
		require.NoError(tdb.t, err, "Failed to truncate %s", table)
	}
}

func (tdb *TestDB) migrate() {
	tdb.t.Helper()

	sqlDB, err := tdb.DB.DB()
	require.NoError(tdb.t, err)

	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(tdb.t, err, "Failed to create migrator")
	defer func() { _ = m.Close() }()

	require.NoError(tdb.t, m.Up(), "Failed to run migrations")
}
