package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDatabase_Ping(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{})
	require.NoError(t, err)
	db := &Database{DB: gormDB}

	mock.ExpectPing()
	assert.NoError(t, db.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(sql.ErrConnDone)
	assert.ErrorIs(t, db.Ping(context.Background()), sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	gormDB, mock, _ := newMockGorm(t)
	db := &Database{DB: gormDB}

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsPostgres(t *testing.T) {
	pg, _, mockDB := newMockGorm(t)
	defer mockDB.Close()
	assert.True(t, isPostgres(pg))

	lite, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	assert.False(t, isPostgres(lite))
}

func TestPgErrorCode(t *testing.T) {
	exclusion := fmt.Errorf("insert lease: %w", &pgconn.PgError{Code: pgExclusionViolation})
	unique := &pgconn.PgError{Code: pgUniqueViolation}

	assert.Equal(t, pgExclusionViolation, pgErrorCode(exclusion))
	assert.Equal(t, "", pgErrorCode(assert.AnError))
	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueViolation(exclusion))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: pgForeignKeyViolation}))
	assert.True(t, isForeignKeyViolation(gorm.ErrForeignKeyViolated))
	assert.False(t, isForeignKeyViolation(unique))
}

func TestDeleteOwned_ReferencedRow(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	ownerID, id := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE FROM "properties"`).
		WithArgs(ownerID, id).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})

	err := deleteOwned(db, &models.PropertyModel{}, ownerID, id)
	assert.ErrorIs(t, err, shared.ErrInUse)
	assert.NoError(t, mock.ExpectationsWereMet())
}
