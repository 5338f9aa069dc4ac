package reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/stayhub/stayhub-api/internal/domain/pricing"
)

// CreateReservationRequest is the new-booking form payload
type CreateReservationRequest struct {
	ListingID uuid.UUID `json:"listing_id" validate:"required"`
	ClientID  uuid.UUID `json:"client_id" validate:"required"`
	CheckIn   time.Time `json:"check_in" validate:"required"`
	CheckOut  time.Time `json:"check_out" validate:"required"`
	Guests    int       `json:"guests" validate:"required,gte=1"`
}

// ChangeDatesRequest edits an existing reservation's date range. When the
// recomputed total exceeds the stored one, PaymentIntentID must reference a
// succeeded payment covering the difference.
type ChangeDatesRequest struct {
	CheckIn         time.Time `json:"check_in" validate:"required"`
	CheckOut        time.Time `json:"check_out" validate:"required"`
	PaymentIntentID string    `json:"payment_intent_id"`
}

// ChangeDatesResponse reports the edit outcome. When payment is still
// required the reservation is unchanged and ClientSecret identifies the
// intent the console must confirm with card details.
type ChangeDatesResponse struct {
	Reservation  *Reservation      `json:"reservation,omitempty"`
	Breakdown    pricing.Breakdown `json:"breakdown"`
	Delta        pricing.Delta     `json:"delta"`
	ClientSecret string            `json:"client_secret,omitempty"`
}

// CancelRequest cancels a reservation. RefundAmount is advisory: it is
// forwarded to the payment collaborator, never executed by this service.
type CancelRequest struct {
	Reason       string  `json:"reason" validate:"required,min=3"`
	RefundAmount float64 `json:"refund_amount" validate:"gte=0"`
}

// ListFilter narrows reservation queries
type ListFilter struct {
	ListingID uuid.UUID
	ClientID  uuid.UUID
	Status    string
	From      time.Time
	To        time.Time
	Page      int
	Limit     int
}
