package client

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is a corporate tenant the agency books stays for
type Client struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	FirstName sql.NullString `db:"first_name" json:"first_name,omitempty"`
	LastName  sql.NullString `db:"last_name" json:"last_name,omitempty"`
	Email     sql.NullString `db:"email" json:"email,omitempty"`
	Phone     sql.NullString `db:"phone" json:"phone,omitempty"`
	Company   sql.NullString `db:"company" json:"company,omitempty"`
	CreatedBy uuid.UUID      `db:"created_by" json:"created_by"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// DisplayName returns the label the console shows for this client. Name
// parts win when any are present, then the email address, then a short-id
// placeholder so a row is never rendered blank.
func (c *Client) DisplayName() string {
	first := strings.TrimSpace(c.FirstName.String)
	last := strings.TrimSpace(c.LastName.String)
	if first != "" || last != "" {
		return strings.TrimSpace(first + " " + last)
	}

	if email := strings.TrimSpace(c.Email.String); email != "" {
		return email
	}

	return fmt.Sprintf("Client #%s", shortID(c.ID))
}

func shortID(id uuid.UUID) string {
	s := id.String()
	if len(s) >= 8 {
		return s[:8]
	}
	return s
}

// Folder groups a client's files. Folders nest through ParentID.
type Folder struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	ClientID  uuid.UUID     `db:"client_id" json:"client_id"`
	ParentID  uuid.NullUUID `db:"parent_id" json:"parent_id,omitempty"`
	Name      string        `db:"name" json:"name"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// FileStatus tracks the two-phase upload handshake
type FileStatus string

const (
	FileStaged    FileStatus = "staged"
	FileConfirmed FileStatus = "confirmed"
)

// File is a document stored against a client (contract, passport scan, invoice)
type File struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	ClientID    uuid.UUID     `db:"client_id" json:"client_id"`
	FolderID    uuid.NullUUID `db:"folder_id" json:"folder_id,omitempty"`
	Name        string        `db:"name" json:"name"`
	StorageKey  string        `db:"storage_key" json:"-"`
	URL         string        `db:"url" json:"url,omitempty"`
	Size        int64         `db:"size" json:"size"`
	ContentType string        `db:"content_type" json:"content_type"`
	Status      FileStatus    `db:"status" json:"status"`
	UploadedBy  uuid.UUID     `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}
