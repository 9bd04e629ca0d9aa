package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Source selects where migration files are read from: an embedded file
// system when FS is set, otherwise the directory Dir.
type Source struct {
	FS  fs.FS
	Dir string
}

func (s Source) open() (source.Driver, string, error) {
	if s.FS != nil {
		dir := s.Dir
		if dir == "" {
			dir = "."
		}
		d, err := iofs.New(s.FS, dir)
		return d, "iofs", err
	}
	d, err := source.Open("file://" + s.Dir)
	return d, "file", err
}

// Status describes the schema version of a database
type Status struct {
	Current uint
	Latest  uint
	Dirty   bool
	Pending []uint
}

// Migrator applies the schema migrations with golang-migrate
type Migrator struct {
	migrate *migrate.Migrate
	source  source.Driver
	logger  *zap.Logger
}

// New creates a Migrator on an open database handle
func New(db *sql.DB, src Source, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}
	return newMigrator(src, logger, func(name string, d source.Driver) (*migrate.Migrate, error) {
		return migrate.NewWithInstance(name, d, "postgres", driver)
	})
}

// NewFromURL creates a Migrator from a database URL
func NewFromURL(databaseURL string, src Source, logger *zap.Logger) (*Migrator, error) {
	return newMigrator(src, logger, func(name string, d source.Driver) (*migrate.Migrate, error) {
		return migrate.NewWithSourceInstance(name, d, databaseURL)
	})
}

func newMigrator(src Source, logger *zap.Logger, build func(string, source.Driver) (*migrate.Migrate, error)) (*Migrator, error) {
	d, name, err := src.open()
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}
	m, err := build(name, d)
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m.Log = migrateLogger{logger: logger}
	return &Migrator{migrate: m, source: d, logger: logger}, nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	m.logger.Info("Running migrations up")
	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("Schema is up to date")
			return nil
		}
		return fmt.Errorf("migration up failed: %w", err)
	}
	return m.logVersion("Migrations completed")
}

// Down rolls back every migration
func (m *Migrator) Down() error {
	m.logger.Info("Running migrations down")
	if err := m.migrate.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("No migrations to roll back")
			return nil
		}
		return fmt.Errorf("migration down failed: %w", err)
	}
	m.logger.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations, rolling back when n is negative
func (m *Migrator) Steps(n int) error {
	m.logger.Info("Running migration steps", zap.Int("steps", n))
	if err := m.migrate.Steps(n); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("No migrations to apply")
			return nil
		}
		return fmt.Errorf("migration steps failed: %w", err)
	}
	return m.logVersion("Migration steps completed")
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	m.logger.Info("Migrating to version", zap.Uint("target_version", version))
	if err := m.migrate.Migrate(version); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("Already at target version")
			return nil
		}
		return fmt.Errorf("migration to version %d failed: %w", version, err)
	}
	return m.logVersion("Migration to version completed")
}

// Version returns the applied version; 0 means no migration has run
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Status compares the applied version with the available migrations
func (m *Migrator) Status() (Status, error) {
	current, dirty, err := m.Version()
	if err != nil {
		return Status{}, err
	}
	available, err := m.available()
	if err != nil {
		return Status{}, err
	}
	st := Status{Current: current, Dirty: dirty}
	for _, v := range available {
		st.Latest = v
		if v > current {
			st.Pending = append(st.Pending, v)
		}
	}
	return st, nil
}

func (m *Migrator) available() ([]uint, error) {
	var versions []uint
	v, err := m.source.First()
	for err == nil {
		versions = append(versions, v)
		v, err = m.source.Next(v)
	}
	if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read migration source: %w", err)
	}
	return versions, nil
}

// Force sets the version without running migrations, to recover a dirty database
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Drop drops every table of the database
func (m *Migrator) Drop() error {
	m.logger.Warn("Dropping database, all data will be lost")
	if err := m.migrate.Drop(); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}

func (m *Migrator) logVersion(msg string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// migrateLogger routes golang-migrate's progress output to zap
type migrateLogger struct {
	logger *zap.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

func (l migrateLogger) Verbose() bool {
	return l.logger.Core().Enabled(zap.DebugLevel)
}
