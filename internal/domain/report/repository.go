package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no report matches the lookup
var ErrNotFound = errors.New("report not found")

// Repository defines report data access
type Repository interface {
	Create(ctx context.Context, rep *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	List(ctx context.Context, filter ListFilter) ([]*Report, int, error)
	ReplaceChecklist(ctx context.Context, rep *Report) error
	Finalize(ctx context.Context, rep *Report) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates report repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rep *Report) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO reports (id, reservation_id, title, inspector_id, status, summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	if _, err := tx.ExecContext(ctx, query,
		rep.ID, rep.ReservationID, rep.Title, rep.InspectorID, rep.Status, rep.Summary,
	); err != nil {
		return err
	}

	if err := insertItems(ctx, tx, rep); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	var rep Report
	err := r.db.GetContext(ctx, &rep, `SELECT * FROM reports WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	query := `SELECT * FROM report_items WHERE report_id = $1 ORDER BY position ASC`
	if err := r.db.SelectContext(ctx, &rep.Items, query, id); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Report, int, error) {
	var conditions []string
	var args []interface{}

	if filter.ReservationID != uuid.Nil {
		args = append(args, filter.ReservationID)
		conditions = append(conditions, fmt.Sprintf("reservation_id = $%d", len(args)))
	}
	if filter.InspectorID != uuid.Nil {
		args = append(args, filter.InspectorID)
		conditions = append(conditions, fmt.Sprintf("inspector_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reports`+where, args...); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT * FROM reports%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	var reports []*Report
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *repository) ReplaceChecklist(ctx context.Context, rep *Report) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE reports SET title = $2, summary = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
	`
	result, err := tx.ExecContext(ctx, query, rep.ID, rep.Title, rep.Summary)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM report_items WHERE report_id = $1`, rep.ID); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, rep); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repository) Finalize(ctx context.Context, rep *Report) error {
	query := `
		UPDATE reports SET
			status = 'final', finalized_at = $2, finalized_by = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
	`
	result, err := r.db.ExecContext(ctx, query, rep.ID, rep.FinalizedAt, rep.FinalizedBy)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func insertItems(ctx context.Context, tx *sqlx.Tx, rep *Report) error {
	query := `
		INSERT INTO report_items (id, report_id, label, result, note, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, item := range rep.Items {
		if _, err := tx.ExecContext(ctx, query,
			item.ID, rep.ID, item.Label, item.Result, item.Note, item.Position,
		); err != nil {
			return err
		}
	}
	return nil
}
