package client

import "github.com/google/uuid"

// CreateClientRequest is the create/update form payload. Every field is
// optional; DisplayName falls back when the row is sparse.
type CreateClientRequest struct {
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	Company   string `json:"company" validate:"omitempty,max=200"`
}

// ClientResponse wraps a client row with its computed display name
type ClientResponse struct {
	*Client
	DisplayName string `json:"display_name"`
}

// CreateFolderRequest creates a folder in a client's file tree
type CreateFolderRequest struct {
	Name     string    `json:"name" validate:"required,min=1,max=200"`
	ParentID uuid.UUID `json:"parent_id"`
}

// InitFileUploadRequest stages a file upload
type InitFileUploadRequest struct {
	Filename    string    `json:"filename" validate:"required,min=1,max=255"`
	ContentType string    `json:"content_type" validate:"required"`
	Size        int64     `json:"size" validate:"required,gt=0"`
	FolderID    uuid.UUID `json:"folder_id"`
}

// InitFileUploadResponse tells the console where to send the bytes
type InitFileUploadResponse struct {
	FileID     string `json:"file_id"`
	StorageKey string `json:"storage_key"`
	UploadURL  string `json:"upload_url"`
}

// ConfirmFileRequest finalizes a staged upload
type ConfirmFileRequest struct {
	FileID string `json:"file_id" validate:"required,uuid"`
}

// ListFilter narrows client queries
type ListFilter struct {
	Search string
	Page   int
	Limit  int
}
