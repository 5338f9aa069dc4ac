package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no listing matches the lookup
var ErrNotFound = errors.New("listing not found")

// Repository defines listing data access
type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	Update(ctx context.Context, l *Listing) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	List(ctx context.Context, filter ListFilter) ([]*Listing, int, error)

	CreatePhoto(ctx context.Context, p *Photo) error
	GetPhoto(ctx context.Context, id uuid.UUID) (*Photo, error)
	ConfirmPhoto(ctx context.Context, id uuid.UUID, url string) error
	ListPhotos(ctx context.Context, listingID uuid.UUID) ([]*Photo, error)
	DeletePhoto(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates listing repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Listing) error {
	query := `
		INSERT INTO listings (
			id, title, description, address, city, country, latitude, longitude,
			property_type, accommodates, bedrooms, bathrooms,
			nightly_rate, cleaning_fee, service_fee, accommodation_fee,
			currency, amenities, status, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15, $16,
			$17, $18, $19, $20, NOW(), NOW()
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.Title, l.Description, l.Address, l.City, l.Country, l.Latitude, l.Longitude,
		l.PropertyType, l.Accommodates, l.Bedrooms, l.Bathrooms,
		l.NightlyRate, l.CleaningFee, l.ServiceFee, l.AccommodationFee,
		l.Currency, l.Amenities, l.Status, l.CreatedBy,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	query := `SELECT * FROM listings WHERE id = $1`
	var l Listing
	err := r.db.GetContext(ctx, &l, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) Update(ctx context.Context, l *Listing) error {
	query := `
		UPDATE listings SET
			title = $2, description = $3, address = $4, city = $5, country = $6,
			latitude = $7, longitude = $8, property_type = $9, accommodates = $10,
			bedrooms = $11, bathrooms = $12, nightly_rate = $13, cleaning_fee = $14,
			service_fee = $15, accommodation_fee = $16, currency = $17, amenities = $18,
			updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		l.ID, l.Title, l.Description, l.Address, l.City, l.Country,
		l.Latitude, l.Longitude, l.PropertyType, l.Accommodates,
		l.Bedrooms, l.Bathrooms, l.NightlyRate, l.CleaningFee,
		l.ServiceFee, l.AccommodationFee, l.Currency, l.Amenities,
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

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE listings SET status = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Listing, int, error) {
	var conditions []string
	var args []interface{}

	if filter.City != "" {
		args = append(args, filter.City)
		conditions = append(conditions, fmt.Sprintf("city = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("property_type = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM listings`+where, args...); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT * FROM listings%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	var listings []*Listing
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *repository) CreatePhoto(ctx context.Context, p *Photo) error {
	query := `
		INSERT INTO listing_photos (id, listing_id, storage_key, url, position, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.ListingID, p.StorageKey, p.URL, p.Position, p.Status)
	return err
}

func (r *repository) GetPhoto(ctx context.Context, id uuid.UUID) (*Photo, error) {
	query := `SELECT * FROM listing_photos WHERE id = $1`
	var p Photo
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) ConfirmPhoto(ctx context.Context, id uuid.UUID, url string) error {
	query := `UPDATE listing_photos SET status = 'confirmed', url = $2 WHERE id = $1 AND status = 'staged'`
	result, err := r.db.ExecContext(ctx, query, id, url)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ListPhotos(ctx context.Context, listingID uuid.UUID) ([]*Photo, error) {
	query := `
		SELECT * FROM listing_photos
		WHERE listing_id = $1 AND status = 'confirmed'
		ORDER BY position ASC, created_at ASC
	`
	var photos []*Photo
	err := r.db.SelectContext(ctx, &photos, query, listingID)
	return photos, err
}

func (r *repository) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM listing_photos WHERE id = $1`, id)
	return err
}
