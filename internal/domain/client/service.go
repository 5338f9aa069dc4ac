package client

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stayhub/stayhub-api/internal/pkg/storage"
)

// Service handles client business logic
type Service struct {
	repo    Repository
	storage storage.Storage
}

// NewService creates client service
func NewService(repo Repository, st storage.Storage) *Service {
	return &Service{repo: repo, storage: st}
}

// Create persists a new client folder
func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	c := &Client{
		ID:        uuid.New(),
		FirstName: nullable(req.FirstName),
		LastName:  nullable(req.LastName),
		Email:     nullable(req.Email),
		Phone:     nullable(req.Phone),
		Company:   nullable(req.Company),
		CreatedBy: createdBy,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return respond(c), nil
}

// Update replaces the editable fields of a client
func (s *Service) Update(ctx context.Context, id uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.FirstName = nullable(req.FirstName)
	c.LastName = nullable(req.LastName)
	c.Email = nullable(req.Email)
	c.Phone = nullable(req.Phone)
	c.Company = nullable(req.Company)

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return respond(c), nil
}

// GetByID loads a client
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return respond(c), nil
}

// List returns a page of clients with display names resolved
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*ClientResponse, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	clients, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, respond(c))
	}
	return out, total, nil
}

// CreateFolder adds a folder to the client's file tree
func (s *Service) CreateFolder(ctx context.Context, clientID uuid.UUID, req CreateFolderRequest) (*Folder, error) {
	if _, err := s.repo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	f := &Folder{
		ID:       uuid.New(),
		ClientID: clientID,
		Name:     req.Name,
	}
	if req.ParentID != uuid.Nil {
		parent, err := s.repo.GetFolder(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ClientID != clientID {
			return nil, ErrFolderNotFound
		}
		f.ParentID = uuid.NullUUID{UUID: req.ParentID, Valid: true}
	}

	if err := s.repo.CreateFolder(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return f, nil
}

// Folders lists a client's folders
func (s *Service) Folders(ctx context.Context, clientID uuid.UUID) ([]*Folder, error) {
	return s.repo.ListFolders(ctx, clientID)
}

// InitFileUpload stages a file row and returns where to send the bytes
func (s *Service) InitFileUpload(ctx context.Context, clientID, uploadedBy uuid.UUID, req InitFileUploadRequest) (*InitFileUploadResponse, error) {
	if _, err := s.repo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	fileID := uuid.New()
	key := fmt.Sprintf("clients/%s/%s%s", clientID, fileID, ext)

	f := &File{
		ID:          fileID,
		ClientID:    clientID,
		Name:        req.Filename,
		StorageKey:  key,
		Size:        req.Size,
		ContentType: req.ContentType,
		Status:      FileStaged,
		UploadedBy:  uploadedBy,
	}
	if req.FolderID != uuid.Nil {
		folder, err := s.repo.GetFolder(ctx, req.FolderID)
		if err != nil {
			return nil, err
		}
		if folder.ClientID != clientID {
			return nil, ErrFolderNotFound
		}
		f.FolderID = uuid.NullUUID{UUID: req.FolderID, Valid: true}
	}

	if err := s.repo.CreateFile(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to stage file: %w", err)
	}

	return &InitFileUploadResponse{
		FileID:     fileID.String(),
		StorageKey: key,
		UploadURL:  fmt.Sprintf("/api/v1/clients/%s/files/%s/content", clientID, fileID),
	}, nil
}

// UploadFileContent streams file bytes into object storage
func (s *Service) UploadFileContent(ctx context.Context, fileID uuid.UUID, body io.Reader, contentType string) error {
	f, err := s.repo.GetFile(ctx, fileID)
	if err != nil {
		return err
	}
	if f.Status != FileStaged {
		return fmt.Errorf("file %s is not staged", fileID)
	}
	if err := s.storage.Put(ctx, f.StorageKey, body, contentType); err != nil {
		return fmt.Errorf("failed to store file: %w", err)
	}
	return nil
}

// ConfirmFile finalizes an upload after the bytes landed in storage
func (s *Service) ConfirmFile(ctx context.Context, fileID uuid.UUID) (*File, error) {
	f, err := s.repo.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.Exists(ctx, f.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check storage: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("file bytes not uploaded yet")
	}

	url := s.storage.GetURL(f.StorageKey)
	if err := s.repo.ConfirmFile(ctx, fileID, url); err != nil {
		return nil, err
	}
	f.Status = FileConfirmed
	f.URL = url
	return f, nil
}

// Files lists confirmed files for a client
func (s *Service) Files(ctx context.Context, clientID uuid.UUID) ([]*File, error) {
	return s.repo.ListFiles(ctx, clientID)
}

// DeleteFile removes a file row and its stored object
func (s *Service) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	f, err := s.repo.GetFile(ctx, fileID)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, f.StorageKey); err != nil {
		log.Warn().Err(err).Str("key", f.StorageKey).Msg("Failed to delete file object")
	}
	return s.repo.DeleteFile(ctx, fileID)
}

func respond(c *Client) *ClientResponse {
	return &ClientResponse{Client: c, DisplayName: c.DisplayName()}
}

func nullable(v string) sql.NullString {
	v = strings.TrimSpace(v)
	return sql.NullString{String: v, Valid: v != ""}
}
