package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/stayhub/stayhub-api/internal/domain/pricing"
	"github.com/stayhub/stayhub-api/internal/pkg/imaging"
	"github.com/stayhub/stayhub-api/internal/pkg/storage"
)

// ThumbnailQueue is the redis list the photo worker consumes
const ThumbnailQueue = "photos:thumbnails"

// Service handles listing business logic
type Service struct {
	repo    Repository
	storage storage.Storage
	redis   *redis.Client
}

// NewService creates listing service
func NewService(repo Repository, st storage.Storage, redisClient *redis.Client) *Service {
	return &Service{repo: repo, storage: st, redis: redisClient}
}

// Create persists a new listing in draft status
func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, req CreateListingRequest) (*Listing, error) {
	l := &Listing{
		ID:               uuid.New(),
		Title:            req.Title,
		Description:      sql.NullString{String: req.Description, Valid: req.Description != ""},
		Address:          req.Address,
		City:             req.City,
		Country:          req.Country,
		PropertyType:     req.PropertyType,
		Accommodates:     req.Accommodates,
		Bedrooms:         req.Bedrooms,
		Bathrooms:        req.Bathrooms,
		NightlyRate:      req.NightlyRate,
		CleaningFee:      req.CleaningFee,
		ServiceFee:       req.ServiceFee,
		AccommodationFee: req.AccommodationFee,
		Currency:         req.Currency,
		Amenities:        req.Amenities,
		Status:           StatusDraft,
		CreatedBy:        createdBy,
	}
	if req.Latitude != nil {
		l.Latitude = sql.NullFloat64{Float64: *req.Latitude, Valid: true}
	}
	if req.Longitude != nil {
		l.Longitude = sql.NullFloat64{Float64: *req.Longitude, Valid: true}
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return l, nil
}

// Update replaces the editable fields of a listing
func (s *Service) Update(ctx context.Context, id uuid.UUID, req CreateListingRequest) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	l.Title = req.Title
	l.Description = sql.NullString{String: req.Description, Valid: req.Description != ""}
	l.Address = req.Address
	l.City = req.City
	l.Country = req.Country
	l.PropertyType = req.PropertyType
	l.Accommodates = req.Accommodates
	l.Bedrooms = req.Bedrooms
	l.Bathrooms = req.Bathrooms
	l.NightlyRate = req.NightlyRate
	l.CleaningFee = req.CleaningFee
	l.ServiceFee = req.ServiceFee
	l.AccommodationFee = req.AccommodationFee
	l.Currency = req.Currency
	l.Amenities = req.Amenities
	l.Latitude = sql.NullFloat64{}
	l.Longitude = sql.NullFloat64{}
	if req.Latitude != nil {
		l.Latitude = sql.NullFloat64{Float64: *req.Latitude, Valid: true}
	}
	if req.Longitude != nil {
		l.Longitude = sql.NullFloat64{Float64: *req.Longitude, Valid: true}
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return l, nil
}

// GetByID loads a listing
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of listings and the total count
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Listing, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// Activate publishes a listing
func (s *Service) Activate(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, StatusActive)
}

// Archive removes a listing from circulation without deleting it
func (s *Service) Archive(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, StatusArchived)
}

// QuoteResult carries a price preview plus the validation outcome. The
// breakdown is always computed so the console can show diagnostic numbers,
// but a non-nil Rejection means the stay must not be submitted.
type QuoteResult struct {
	Breakdown pricing.Breakdown        `json:"breakdown"`
	Rejection *pricing.ValidationError `json:"rejection,omitempty"`
}

// Quote computes a price preview for a stay on this listing
func (s *Service) Quote(ctx context.Context, listingID uuid.UUID, req QuoteRequest) (*QuoteResult, error) {
	l, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	stay := pricing.StayRequest{
		CheckIn:          req.CheckIn,
		CheckOut:         req.CheckOut,
		NightlyRate:      l.NightlyRate,
		CleaningFee:      l.CleaningFee,
		ServiceFee:       l.ServiceFee,
		AccommodationFee: l.AccommodationFee,
		Currency:         l.Currency,
	}

	accommodates := l.Accommodates
	return &QuoteResult{
		Breakdown: pricing.ComputeBreakdown(stay),
		Rejection: pricing.ValidateStay(stay, &accommodates, req.Guests),
	}, nil
}

// ErrUnsupportedPhotoType is returned for filenames that are not images
var ErrUnsupportedPhotoType = errors.New("unsupported photo type")

// InitPhotoUpload stages a photo row and returns where to send the bytes
func (s *Service) InitPhotoUpload(ctx context.Context, listingID uuid.UUID, req InitPhotoUploadRequest) (*InitPhotoUploadResponse, error) {
	if !imaging.ValidateType(req.Filename) {
		return nil, ErrUnsupportedPhotoType
	}
	if _, err := s.repo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	photoID := uuid.New()
	key := fmt.Sprintf("listings/%s/%s%s", listingID, photoID, ext)

	p := &Photo{
		ID:         photoID,
		ListingID:  listingID,
		StorageKey: key,
		Status:     PhotoStaged,
	}
	if err := s.repo.CreatePhoto(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to stage photo: %w", err)
	}

	return &InitPhotoUploadResponse{
		PhotoID:    photoID.String(),
		StorageKey: key,
		UploadURL:  fmt.Sprintf("/api/v1/listings/%s/photos/%s/content", listingID, photoID),
	}, nil
}

// UploadPhotoContent streams the photo bytes into object storage
func (s *Service) UploadPhotoContent(ctx context.Context, photoID uuid.UUID, body io.Reader, contentType string) error {
	p, err := s.repo.GetPhoto(ctx, photoID)
	if err != nil {
		return err
	}
	if p.Status != PhotoStaged {
		return fmt.Errorf("photo %s is not staged", photoID)
	}
	if err := s.storage.Put(ctx, p.StorageKey, body, contentType); err != nil {
		return fmt.Errorf("failed to store photo: %w", err)
	}
	return nil
}

// ConfirmPhoto finalizes an upload and queues thumbnail generation
func (s *Service) ConfirmPhoto(ctx context.Context, photoID uuid.UUID) (*Photo, error) {
	p, err := s.repo.GetPhoto(ctx, photoID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.Exists(ctx, p.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check storage: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("photo bytes not uploaded yet")
	}

	url := s.storage.GetURL(p.StorageKey)
	if err := s.repo.ConfirmPhoto(ctx, photoID, url); err != nil {
		return nil, err
	}
	p.Status = PhotoConfirmed
	p.URL = url

	if s.redis != nil {
		if err := s.redis.LPush(ctx, ThumbnailQueue, p.StorageKey).Err(); err != nil {
			// Thumbnails are best effort; the original is already live
			log.Warn().Err(err).Str("key", p.StorageKey).Msg("Failed to enqueue thumbnail job")
		}
	}

	return p, nil
}

// Photos lists confirmed photos for a listing
func (s *Service) Photos(ctx context.Context, listingID uuid.UUID) ([]*Photo, error) {
	return s.repo.ListPhotos(ctx, listingID)
}

// DeletePhoto removes a photo row and its stored object
func (s *Service) DeletePhoto(ctx context.Context, photoID uuid.UUID) error {
	p, err := s.repo.GetPhoto(ctx, photoID)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, p.StorageKey); err != nil {
		log.Warn().Err(err).Str("key", p.StorageKey).Msg("Failed to delete photo object")
	}
	return s.repo.DeletePhoto(ctx, photoID)
}
