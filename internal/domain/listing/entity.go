package listing

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Status represents listing lifecycle state
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Listing is a rentable property
type Listing struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	Title            string          `db:"title" json:"title"`
	Description      sql.NullString  `db:"description" json:"description,omitempty"`
	Address          string          `db:"address" json:"address"`
	City             string          `db:"city" json:"city"`
	Country          string          `db:"country" json:"country"`
	Latitude         sql.NullFloat64 `db:"latitude" json:"latitude,omitempty"`
	Longitude        sql.NullFloat64 `db:"longitude" json:"longitude,omitempty"`
	PropertyType     string          `db:"property_type" json:"property_type"`
	Accommodates     int             `db:"accommodates" json:"accommodates"`
	Bedrooms         int             `db:"bedrooms" json:"bedrooms"`
	Bathrooms        int             `db:"bathrooms" json:"bathrooms"`
	NightlyRate      float64         `db:"nightly_rate" json:"nightly_rate"`
	CleaningFee      float64         `db:"cleaning_fee" json:"cleaning_fee"`
	ServiceFee       float64         `db:"service_fee" json:"service_fee"`
	AccommodationFee float64         `db:"accommodation_fee" json:"accommodation_fee"`
	Currency         string          `db:"currency" json:"currency"`
	Amenities        pq.StringArray  `db:"amenities" json:"amenities"`
	Status           Status          `db:"status" json:"status"`
	CreatedBy        uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// PhotoStatus represents upload state of a listing photo
type PhotoStatus string

const (
	PhotoStaged    PhotoStatus = "staged"
	PhotoConfirmed PhotoStatus = "confirmed"
)

// Photo is an uploaded listing photo
type Photo struct {
	ID         uuid.UUID   `db:"id" json:"id"`
	ListingID  uuid.UUID   `db:"listing_id" json:"listing_id"`
	StorageKey string      `db:"storage_key" json:"-"`
	URL        string      `db:"url" json:"url"`
	Position   int         `db:"position" json:"position"`
	Status     PhotoStatus `db:"status" json:"status"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}
