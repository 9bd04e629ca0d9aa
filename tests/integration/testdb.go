// Package integration runs the API and the background jobs against a real
// PostgreSQL started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dansever/estait-app-sub000/internal/infrastructure/migration"
	"github.com/dansever/estait-app-sub000/migrations"
)

const postgresImage = "postgres:16-alpine"

// TestDB is a migrated database reachable through GORM
type TestDB struct {
	DB    *gorm.DB
	sqlDB *sql.DB
}

// sharedDB is the package-wide container behind NewSharedTestDB
var sharedDB struct {
	mu        sync.Mutex
	container testcontainers.Container
	dsn       string
}

// NewTestDB starts a dedicated container with the schema applied. The
// container is terminated when the test ends.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	container, dsn, err := startPostgres(ctx, "estait_test")
	require.NoError(t, err, "start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	tdb := open(t, dsn)
	migrateUp(t, tdb.sqlDB)
	return tdb
}

// NewSharedTestDB connects to a container shared by the whole package.
// Tests using it must not assume an empty database; they use fresh owner IDs
// so rows of other tests stay invisible.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedDB.mu.Lock()
	defer sharedDB.mu.Unlock()
	if sharedDB.container == nil {
		container, dsn, err := startPostgres(context.Background(), "estait_shared_test")
		require.NoError(t, err, "start shared PostgreSQL container")
		sharedDB.container, sharedDB.dsn = container, dsn

		boot := open(t, dsn)
		migrateUp(t, boot.sqlDB)
	}
	return open(t, sharedDB.dsn)
}

// terminateSharedContainer stops the container behind NewSharedTestDB
func terminateSharedContainer() {
	sharedDB.mu.Lock()
	defer sharedDB.mu.Unlock()
	if sharedDB.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = sharedDB.container.Terminate(ctx)
	sharedDB.container, sharedDB.dsn = nil, ""
}

func startPostgres(ctx context.Context, dbName string) (testcontainers.Container, string, error) {
	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("estait"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, "", err
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, "", err
	}
	return container, dsn, nil
}

// open connects with the same error translation the server uses, so
// constraint violations surface as GORM sentinel errors
func open(t *testing.T, dsn string) *TestDB {
	t.Helper()

	level := logger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = logger.Info
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	require.NoError(t, err, "connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &TestDB{DB: db, sqlDB: sqlDB}
}

func migrateUp(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	m, err := migration.New(sqlDB, migration.Source{FS: migrations.FS}, zap.NewNop())
	require.NoError(t, err, "create migrator")
	require.NoError(t, m.Up(), "apply migrations")
}
