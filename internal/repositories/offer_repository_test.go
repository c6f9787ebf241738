package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gdb, mock
}

func TestOfferRepository_BeginExecution_Wins(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewOfferRepository(gdb)

	// The CAS must guard on status and bump the version in one statement.
	mock.ExpectExec(`UPDATE "offers" SET .+ WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	won, err := repo.BeginExecution(context.Background(), "offer-1")
	require.NoError(t, err)
	assert.True(t, won)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferRepository_BeginExecution_LosesQuietly(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewOfferRepository(gdb)

	// Zero rows matched: the offer already left available. Not an error.
	mock.ExpectExec(`UPDATE "offers" SET .+ WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	won, err := repo.BeginExecution(context.Background(), "offer-1")
	require.NoError(t, err)
	assert.False(t, won)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferRepository_GetByID_NotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewOfferRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "offers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOfferNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferRepository_ExpirePastDeadline(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewOfferRepository(gdb)

	mock.ExpectExec(`UPDATE "offers" SET .+ WHERE status = \$\d+ AND deadline IS NOT NULL AND deadline < \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ExpirePastDeadline(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, mock.ExpectationsWereMet())
}
