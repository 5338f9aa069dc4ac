package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned when no client matches the lookup
	ErrNotFound = errors.New("client not found")

	// ErrFileNotFound is returned when no file matches the lookup
	ErrFileNotFound = errors.New("file not found")

	// ErrFolderNotFound is returned when no folder matches the lookup
	ErrFolderNotFound = errors.New("folder not found")
)

// Repository defines client data access
type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	Update(ctx context.Context, c *Client) error
	List(ctx context.Context, filter ListFilter) ([]*Client, int, error)

	CreateFolder(ctx context.Context, f *Folder) error
	GetFolder(ctx context.Context, id uuid.UUID) (*Folder, error)
	ListFolders(ctx context.Context, clientID uuid.UUID) ([]*Folder, error)

	CreateFile(ctx context.Context, f *File) error
	GetFile(ctx context.Context, id uuid.UUID) (*File, error)
	ConfirmFile(ctx context.Context, id uuid.UUID, url string) error
	ListFiles(ctx context.Context, clientID uuid.UUID) ([]*File, error)
	DeleteFile(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates client repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Client) error {
	query := `
		INSERT INTO clients (id, first_name, last_name, email, phone, company, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Company, c.CreatedBy,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	var c Client
	err := r.db.GetContext(ctx, &c, `SELECT * FROM clients WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Update(ctx context.Context, c *Client) error {
	query := `
		UPDATE clients SET
			first_name = $2, last_name = $3, email = $4, phone = $5, company = $6,
			updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Company,
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

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Client, int, error) {
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR LOWER(email) LIKE $%d OR LOWER(company) LIKE $%d)",
			n, n, n, n,
		))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM clients`+where, args...); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT * FROM clients%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	var clients []*Client
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *repository) CreateFolder(ctx context.Context, f *Folder) error {
	query := `
		INSERT INTO client_folders (id, client_id, parent_id, name, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.ExecContext(ctx, query, f.ID, f.ClientID, f.ParentID, f.Name)
	return err
}

func (r *repository) GetFolder(ctx context.Context, id uuid.UUID) (*Folder, error) {
	var f Folder
	err := r.db.GetContext(ctx, &f, `SELECT * FROM client_folders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *repository) ListFolders(ctx context.Context, clientID uuid.UUID) ([]*Folder, error) {
	query := `SELECT * FROM client_folders WHERE client_id = $1 ORDER BY name ASC`
	var folders []*Folder
	err := r.db.SelectContext(ctx, &folders, query, clientID)
	return folders, err
}

func (r *repository) CreateFile(ctx context.Context, f *File) error {
	query := `
		INSERT INTO client_files (
			id, client_id, folder_id, name, storage_key, url, size, content_type,
			status, uploaded_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.ClientID, f.FolderID, f.Name, f.StorageKey, f.URL, f.Size, f.ContentType,
		f.Status, f.UploadedBy,
	)
	return err
}

func (r *repository) GetFile(ctx context.Context, id uuid.UUID) (*File, error) {
	var f File
	err := r.db.GetContext(ctx, &f, `SELECT * FROM client_files WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *repository) ConfirmFile(ctx context.Context, id uuid.UUID, url string) error {
	query := `UPDATE client_files SET status = 'confirmed', url = $2 WHERE id = $1 AND status = 'staged'`
	result, err := r.db.ExecContext(ctx, query, id, url)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (r *repository) ListFiles(ctx context.Context, clientID uuid.UUID) ([]*File, error) {
	query := `
		SELECT * FROM client_files
		WHERE client_id = $1 AND status = 'confirmed'
		ORDER BY created_at DESC
	`
	var files []*File
	err := r.db.SelectContext(ctx, &files, query, clientID)
	return files, err
}

func (r *repository) DeleteFile(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM client_files WHERE id = $1`, id)
	return err
}
