package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func reservationColumns() []string {
	return []string{
		"id", "listing_id", "client_id", "check_in", "check_out", "guests",
		"nights", "nights_subtotal", "discount_rate", "discount_amount",
		"nights_after_discount", "platform_fee", "other_fees_total", "total", "currency",
		"status", "payment_intent_id", "refund_due", "cancel_reason",
		"created_by", "created_at", "updated_at",
	}
}

func TestRepositoryGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(reservationColumns()).AddRow(
		id, uuid.New(), uuid.New(), now, now.Add(90*24*time.Hour), 2,
		90, 9000.0, 0.10, 900.0,
		8100.0, 1215.0, 70.0, 9385.0, "USD",
		"pending", nil, nil, nil,
		uuid.New(), now, now,
	)

	mock.ExpectQuery(`SELECT \* FROM reservations WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(rows)

	res, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, res.ID)
	assert.Equal(t, 90, res.Nights)
	assert.Equal(t, 9385.0, res.Total)
	assert.Equal(t, StatusPending, res.Status)
	assert.False(t, res.PaymentIntentID.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM reservations WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(reservationColumns()))

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoryUpdateStatusGuardsCurrentState(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE reservations SET status = \$3`).
		WithArgs(id, StatusPending, StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateStatus(context.Background(), id, StatusPending, StatusConfirmed))

	// A second confirm finds no pending row
	mock.ExpectExec(`UPDATE reservations SET status = \$3`).
		WithArgs(id, StatusPending, StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), id, StatusPending, StatusConfirmed), ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryExpirePending(t *testing.T) {
	repo, mock := newMockRepo(t)
	cutoff := time.Now().Add(-48 * time.Hour)

	mock.ExpectExec(`UPDATE reservations SET`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ExpirePending(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCancelOnlyOpenRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE reservations SET`).
		WithArgs(id, "client backed out", 500.0).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Cancel(context.Background(), id, "client backed out", 500.0), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
