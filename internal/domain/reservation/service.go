package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stayhub/stayhub-api/internal/domain/listing"
	"github.com/stayhub/stayhub-api/internal/domain/pricing"
	"github.com/stayhub/stayhub-api/internal/middleware"
	"github.com/stayhub/stayhub-api/internal/pkg/stripecard"
)

var (
	// ErrNotEditable is returned when the reservation left the open states
	ErrNotEditable = errors.New("reservation can no longer be edited")

	// ErrPaymentNotSettled is returned when the supplied payment intent does
	// not cover the additional charge
	ErrPaymentNotSettled = errors.New("payment intent is not settled for the required amount")
)

// ListingSource exposes the listing fields pricing needs
type ListingSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error)
}

// PaymentProvider collects card charges and forwards refund requests
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, req stripecard.CreatePaymentIntentRequest) (*stripecard.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*stripecard.PaymentIntent, error)
	CreateRefund(ctx context.Context, req stripecard.CreateRefundRequest) (*stripecard.Refund, error)
}

// Service handles reservation business logic
type Service struct {
	repo     Repository
	listings ListingSource
	payments PaymentProvider
}

// NewService creates reservation service
func NewService(repo Repository, listings ListingSource, payments PaymentProvider) *Service {
	return &Service{repo: repo, listings: listings, payments: payments}
}

// Create validates the stay against the listing and books it in pending
// status. The full price breakdown is snapshotted on the row; later edits
// diff against this stored total, never against a recomputed one.
func (s *Service) Create(ctx context.Context, caller middleware.CallerContext, req CreateReservationRequest) (*Reservation, error) {
	l, err := s.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}

	stay := stayFor(l, req.CheckIn, req.CheckOut)
	accommodates := l.Accommodates
	if verr := pricing.ValidateStay(stay, &accommodates, req.Guests); verr != nil {
		return nil, verr
	}

	b := pricing.ComputeBreakdown(stay)
	res := &Reservation{
		ID:                  uuid.New(),
		ListingID:           req.ListingID,
		ClientID:            req.ClientID,
		CheckIn:             req.CheckIn,
		CheckOut:            req.CheckOut,
		Guests:              req.Guests,
		Nights:              b.Nights,
		NightsSubtotal:      b.NightsSubtotal,
		DiscountRate:        b.DiscountRate,
		DiscountAmount:      b.DiscountAmount,
		NightsAfterDiscount: b.NightsAfterDiscount,
		PlatformFee:         b.PlatformFee,
		OtherFeesTotal:      b.OtherFeesTotal,
		Total:               b.Total,
		Currency:            b.Currency,
		Status:              StatusPending,
		CreatedBy:           caller.ActingUserID,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	return res, nil
}

// GetByID loads a reservation
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of reservations and the total count
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Reservation, int, error) {
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

// Confirm moves a pending reservation to confirmed
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, StatusPending, StatusConfirmed)
}

// Complete moves a confirmed reservation to completed
func (s *Service) Complete(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, StatusConfirmed, StatusCompleted)
}

// ChangeDates edits the date range of an open reservation. The breakdown is
// recomputed for the new range and diffed against the stored total:
//
//   - no_change: the new dates are persisted as-is
//   - refund: persisted, with the difference recorded as an advisory refund
//     amount; execution belongs to the payment processor
//   - additional_charge: a payment intent for the difference must be
//     confirmed by the console before the edit is persisted; until then the
//     reservation is left untouched and the client secret is returned
func (s *Service) ChangeDates(ctx context.Context, caller middleware.CallerContext, id uuid.UUID, req ChangeDatesRequest) (*ChangeDatesResponse, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.IsOpen() {
		return nil, ErrNotEditable
	}

	l, err := s.listings.GetByID(ctx, res.ListingID)
	if err != nil {
		return nil, err
	}

	stay := stayFor(l, req.CheckIn, req.CheckOut)
	accommodates := l.Accommodates
	if verr := pricing.ValidateStay(stay, &accommodates, res.Guests); verr != nil {
		return nil, verr
	}

	b := pricing.ComputeBreakdown(stay)
	delta := pricing.ComputeDelta(res.Total, b.Total)

	switch delta.Kind {
	case pricing.DeltaAdditionalCharge:
		cents := amountCents(delta.Difference)

		if req.PaymentIntentID == "" {
			intent, err := s.payments.CreatePaymentIntent(ctx, stripecard.CreatePaymentIntentRequest{
				AmountCents:    cents,
				Currency:       res.Currency,
				Description:    fmt.Sprintf("Date change for reservation %s", res.ID),
				IdempotencyKey: fmt.Sprintf("res-edit-%s-%d", res.ID, cents),
				Metadata: map[string]string{
					"reservation_id": res.ID.String(),
					"acting_user_id": caller.ActingUserID.String(),
				},
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create payment intent: %w", err)
			}
			return &ChangeDatesResponse{
				Breakdown:    b,
				Delta:        delta,
				ClientSecret: intent.ClientSecret,
			}, nil
		}

		intent, err := s.payments.GetPaymentIntent(ctx, req.PaymentIntentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load payment intent: %w", err)
		}
		if intent.Status != "succeeded" || intent.Amount < cents {
			return nil, ErrPaymentNotSettled
		}
		res.PaymentIntentID = sql.NullString{String: intent.ID, Valid: true}

	case pricing.DeltaRefund:
		res.RefundDue = sql.NullFloat64{Float64: -delta.Difference, Valid: true}
		s.forwardRefund(ctx, res, -delta.Difference, "reservation dates shortened")
	}

	res.CheckIn = req.CheckIn
	res.CheckOut = req.CheckOut
	res.Nights = b.Nights
	res.NightsSubtotal = b.NightsSubtotal
	res.DiscountRate = b.DiscountRate
	res.DiscountAmount = b.DiscountAmount
	res.NightsAfterDiscount = b.NightsAfterDiscount
	res.PlatformFee = b.PlatformFee
	res.OtherFeesTotal = b.OtherFeesTotal
	res.Total = b.Total

	if err := s.repo.UpdateStay(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	return &ChangeDatesResponse{
		Reservation: res,
		Breakdown:   b,
		Delta:       delta,
	}, nil
}

// Cancel cancels an open reservation. The refund amount is advisory: it is
// recorded on the row and forwarded to the payment processor as a request
// parameter, never treated as executed.
func (s *Service) Cancel(ctx context.Context, caller middleware.CallerContext, id uuid.UUID, req CancelRequest) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.IsOpen() {
		return nil, ErrNotEditable
	}

	if err := s.repo.Cancel(ctx, id, req.Reason, req.RefundAmount); err != nil {
		return nil, err
	}

	res.Status = StatusCancelled
	res.CancelReason = sql.NullString{String: req.Reason, Valid: true}
	res.RefundDue = sql.NullFloat64{Float64: req.RefundAmount, Valid: req.RefundAmount > 0}

	if req.RefundAmount > 0 {
		s.forwardRefund(ctx, res, req.RefundAmount, "requested_by_customer")
	}

	log.Info().
		Str("reservation_id", id.String()).
		Str("acting_user_id", caller.ActingUserID.String()).
		Float64("refund_due", req.RefundAmount).
		Msg("Reservation cancelled")

	return res, nil
}

// ExpirePending cancels pending reservations created before the cutoff.
// Used by the nightly maintenance job.
func (s *Service) ExpirePending(ctx context.Context, olderThan time.Time) (int64, error) {
	return s.repo.ExpirePending(ctx, olderThan)
}

// forwardRefund submits the advisory refund request. Failure does not block
// the reservation update; the recorded refund_due keeps the amount visible
// for manual follow-up.
func (s *Service) forwardRefund(ctx context.Context, res *Reservation, amount float64, reason string) {
	if !res.PaymentIntentID.Valid {
		return
	}
	_, err := s.payments.CreateRefund(ctx, stripecard.CreateRefundRequest{
		PaymentIntentID: res.PaymentIntentID.String,
		AmountCents:     amountCents(amount),
		Reason:          reason,
		IdempotencyKey:  fmt.Sprintf("res-refund-%s-%d", res.ID, amountCents(amount)),
	})
	if err != nil {
		log.Warn().Err(err).
			Str("reservation_id", res.ID.String()).
			Float64("amount", amount).
			Msg("Failed to forward refund request")
	}
}

func stayFor(l *listing.Listing, checkIn, checkOut time.Time) pricing.StayRequest {
	return pricing.StayRequest{
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		NightlyRate:      l.NightlyRate,
		CleaningFee:      l.CleaningFee,
		ServiceFee:       l.ServiceFee,
		AccommodationFee: l.AccommodationFee,
		Currency:         l.Currency,
	}
}

func amountCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
