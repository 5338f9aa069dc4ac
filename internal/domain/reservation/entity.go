package reservation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents reservation lifecycle state
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Reservation is a booked stay. The price breakdown is snapshotted at
// booking time; the stored total is the authoritative basis for any later
// charge or refund delta.
type Reservation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ListingID uuid.UUID `db:"listing_id" json:"listing_id"`
	ClientID  uuid.UUID `db:"client_id" json:"client_id"`
	CheckIn   time.Time `db:"check_in" json:"check_in"`
	CheckOut  time.Time `db:"check_out" json:"check_out"`
	Guests    int       `db:"guests" json:"guests"`

	Nights              int     `db:"nights" json:"nights"`
	NightsSubtotal      float64 `db:"nights_subtotal" json:"nights_subtotal"`
	DiscountRate        float64 `db:"discount_rate" json:"discount_rate"`
	DiscountAmount      float64 `db:"discount_amount" json:"discount_amount"`
	NightsAfterDiscount float64 `db:"nights_after_discount" json:"nights_after_discount"`
	PlatformFee         float64 `db:"platform_fee" json:"platform_fee"`
	OtherFeesTotal      float64 `db:"other_fees_total" json:"other_fees_total"`
	Total               float64 `db:"total" json:"total"`
	Currency            string  `db:"currency" json:"currency"`

	Status          Status          `db:"status" json:"status"`
	PaymentIntentID sql.NullString  `db:"payment_intent_id" json:"payment_intent_id,omitempty"`
	RefundDue       sql.NullFloat64 `db:"refund_due" json:"refund_due,omitempty"`
	CancelReason    sql.NullString  `db:"cancel_reason" json:"cancel_reason,omitempty"`

	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsOpen reports whether the reservation can still be edited
func (r *Reservation) IsOpen() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}
