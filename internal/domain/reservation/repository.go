package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no reservation matches the lookup
var ErrNotFound = errors.New("reservation not found")

// Repository defines reservation data access
type Repository interface {
	Create(ctx context.Context, res *Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	List(ctx context.Context, filter ListFilter) ([]*Reservation, int, error)
	UpdateStay(ctx context.Context, res *Reservation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error
	Cancel(ctx context.Context, id uuid.UUID, reason string, refundDue float64) error
	ExpirePending(ctx context.Context, olderThan time.Time) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates reservation repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, res *Reservation) error {
	query := `
		INSERT INTO reservations (
			id, listing_id, client_id, check_in, check_out, guests,
			nights, nights_subtotal, discount_rate, discount_amount,
			nights_after_discount, platform_fee, other_fees_total, total, currency,
			status, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17, NOW(), NOW()
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		res.ID, res.ListingID, res.ClientID, res.CheckIn, res.CheckOut, res.Guests,
		res.Nights, res.NightsSubtotal, res.DiscountRate, res.DiscountAmount,
		res.NightsAfterDiscount, res.PlatformFee, res.OtherFeesTotal, res.Total, res.Currency,
		res.Status, res.CreatedBy,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	query := `SELECT * FROM reservations WHERE id = $1`
	var res Reservation
	err := r.db.GetContext(ctx, &res, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Reservation, int, error) {
	var conditions []string
	var args []interface{}

	if filter.ListingID != uuid.Nil {
		args = append(args, filter.ListingID)
		conditions = append(conditions, fmt.Sprintf("listing_id = $%d", len(args)))
	}
	if filter.ClientID != uuid.Nil {
		args = append(args, filter.ClientID)
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		conditions = append(conditions, fmt.Sprintf("check_in >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		conditions = append(conditions, fmt.Sprintf("check_out <= $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reservations`+where, args...); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT * FROM reservations%s
		ORDER BY check_in DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	var reservations []*Reservation
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}

func (r *repository) UpdateStay(ctx context.Context, res *Reservation) error {
	query := `
		UPDATE reservations SET
			check_in = $2, check_out = $3,
			nights = $4, nights_subtotal = $5, discount_rate = $6, discount_amount = $7,
			nights_after_discount = $8, platform_fee = $9, other_fees_total = $10,
			total = $11, payment_intent_id = $12, refund_due = $13,
			updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		res.ID, res.CheckIn, res.CheckOut,
		res.Nights, res.NightsSubtotal, res.DiscountRate, res.DiscountAmount,
		res.NightsAfterDiscount, res.PlatformFee, res.OtherFeesTotal,
		res.Total, res.PaymentIntentID, res.RefundDue,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error {
	query := `UPDATE reservations SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID, reason string, refundDue float64) error {
	query := `
		UPDATE reservations SET
			status = 'cancelled', cancel_reason = $2, refund_due = $3, updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'confirmed')
	`
	result, err := r.db.ExecContext(ctx, query, id, reason, refundDue)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ExpirePending(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `
		UPDATE reservations SET
			status = 'cancelled', cancel_reason = 'expired: not confirmed in time', updated_at = NOW()
		WHERE status = 'pending' AND created_at < $1
	`
	result, err := r.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
