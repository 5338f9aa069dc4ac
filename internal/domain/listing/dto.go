package listing

import "time"

// CreateListingRequest is the create/update form payload
type CreateListingRequest struct {
	Title            string   `json:"title" validate:"required,min=3,max=200"`
	Description      string   `json:"description" validate:"max=5000"`
	Address          string   `json:"address" validate:"required"`
	City             string   `json:"city" validate:"required"`
	Country          string   `json:"country" validate:"required"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	PropertyType     string   `json:"property_type" validate:"required,property_type"`
	Accommodates     int      `json:"accommodates" validate:"required,gte=1,lte=20"`
	Bedrooms         int      `json:"bedrooms" validate:"gte=0,lte=20"`
	Bathrooms        int      `json:"bathrooms" validate:"gte=0,lte=20"`
	NightlyRate      float64  `json:"nightly_rate" validate:"required,gte=0"`
	CleaningFee      float64  `json:"cleaning_fee" validate:"gte=0"`
	ServiceFee       float64  `json:"service_fee" validate:"gte=0"`
	AccommodationFee float64  `json:"accommodation_fee" validate:"gte=0"`
	Currency         string   `json:"currency" validate:"required,currency"`
	Amenities        []string `json:"amenities"`
}

// QuoteRequest asks for a price preview while the booking form is open
type QuoteRequest struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Guests   int       `json:"guests"`
}

// ListFilter narrows listing queries
type ListFilter struct {
	City   string
	Status string
	Type   string
	Page   int
	Limit  int
}

// InitPhotoUploadRequest starts a two-phase photo upload
type InitPhotoUploadRequest struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
}

// InitPhotoUploadResponse carries the staged photo identity
type InitPhotoUploadResponse struct {
	PhotoID    string `json:"photo_id"`
	StorageKey string `json:"storage_key"`
	UploadURL  string `json:"upload_url"`
}

// ConfirmPhotoRequest completes a two-phase photo upload
type ConfirmPhotoRequest struct {
	PhotoID string `json:"photo_id" validate:"required"`
}
