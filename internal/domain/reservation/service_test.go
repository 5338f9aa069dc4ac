package reservation

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayhub/stayhub-api/internal/domain/listing"
	"github.com/stayhub/stayhub-api/internal/domain/pricing"
	"github.com/stayhub/stayhub-api/internal/middleware"
	"github.com/stayhub/stayhub-api/internal/pkg/stripecard"
)

type fakeRepo struct {
	rows map[uuid.UUID]*Reservation
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[uuid.UUID]*Reservation)}
}

func (f *fakeRepo) Create(_ context.Context, res *Reservation) error {
	cp := *res
	f.rows[res.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Reservation, error) {
	res, ok := f.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, _ ListFilter) ([]*Reservation, int, error) {
	var out []*Reservation
	for _, res := range f.rows {
		out = append(out, res)
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateStay(_ context.Context, res *Reservation) error {
	if _, ok := f.rows[res.ID]; !ok {
		return ErrNotFound
	}
	cp := *res
	f.rows[res.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status) error {
	res, ok := f.rows[id]
	if !ok || res.Status != from {
		return ErrNotFound
	}
	res.Status = to
	return nil
}

func (f *fakeRepo) Cancel(_ context.Context, id uuid.UUID, reason string, refundDue float64) error {
	res, ok := f.rows[id]
	if !ok || !res.IsOpen() {
		return ErrNotFound
	}
	res.Status = StatusCancelled
	res.CancelReason = sql.NullString{String: reason, Valid: true}
	res.RefundDue = sql.NullFloat64{Float64: refundDue, Valid: refundDue > 0}
	return nil
}

func (f *fakeRepo) ExpirePending(_ context.Context, olderThan time.Time) (int64, error) {
	var n int64
	for _, res := range f.rows {
		if res.Status == StatusPending && res.CreatedAt.Before(olderThan) {
			res.Status = StatusCancelled
			n++
		}
	}
	return n, nil
}

type fakeListings struct {
	listing *listing.Listing
}

func (f *fakeListings) GetByID(_ context.Context, id uuid.UUID) (*listing.Listing, error) {
	if f.listing == nil || f.listing.ID != id {
		return nil, listing.ErrNotFound
	}
	return f.listing, nil
}

type fakePayments struct {
	created      []stripecard.CreatePaymentIntentRequest
	refunds      []stripecard.CreateRefundRequest
	intentStatus string
	intentAmount int64
}

func (f *fakePayments) CreatePaymentIntent(_ context.Context, req stripecard.CreatePaymentIntentRequest) (*stripecard.PaymentIntent, error) {
	f.created = append(f.created, req)
	return &stripecard.PaymentIntent{
		ID:           "pi_test_1",
		Amount:       req.AmountCents,
		Currency:     req.Currency,
		Status:       "requires_payment_method",
		ClientSecret: "pi_test_1_secret",
	}, nil
}

func (f *fakePayments) GetPaymentIntent(_ context.Context, id string) (*stripecard.PaymentIntent, error) {
	return &stripecard.PaymentIntent{
		ID:     id,
		Amount: f.intentAmount,
		Status: f.intentStatus,
	}, nil
}

func (f *fakePayments) CreateRefund(_ context.Context, req stripecard.CreateRefundRequest) (*stripecard.Refund, error) {
	f.refunds = append(f.refunds, req)
	return &stripecard.Refund{ID: "re_test_1", Amount: req.AmountCents, Status: "pending"}, nil
}

func testListing() *listing.Listing {
	return &listing.Listing{
		ID:           uuid.New(),
		Title:        "Marina loft",
		Accommodates: 4,
		NightlyRate:  100,
		CleaningFee:  50,
		ServiceFee:   20,
		Currency:     "USD",
		Status:       listing.StatusActive,
	}
}

func testCaller() middleware.CallerContext {
	return middleware.CallerContext{ActingUserID: uuid.New(), Role: "agent"}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateSnapshotsBreakdown(t *testing.T) {
	repo := newFakeRepo()
	l := testListing()
	svc := NewService(repo, &fakeListings{listing: l}, &fakePayments{})

	res, err := svc.Create(context.Background(), testCaller(), CreateReservationRequest{
		ListingID: l.ID,
		ClientID:  uuid.New(),
		CheckIn:   date(2024, time.January, 1),
		CheckOut:  date(2024, time.March, 31),
		Guests:    2,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, res.Status)
	assert.Equal(t, 90, res.Nights)
	assert.Equal(t, 9000.0, res.NightsSubtotal)
	assert.Equal(t, 0.10, res.DiscountRate)
	assert.Equal(t, 900.0, res.DiscountAmount)
	assert.Equal(t, 1215.0, res.PlatformFee)
	assert.Equal(t, 70.0, res.OtherFeesTotal)
	assert.Equal(t, 9385.0, res.Total)

	stored, err := repo.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Total, stored.Total)
}

func TestCreateRejectsShortStay(t *testing.T) {
	l := testListing()
	svc := NewService(newFakeRepo(), &fakeListings{listing: l}, &fakePayments{})

	_, err := svc.Create(context.Background(), testCaller(), CreateReservationRequest{
		ListingID: l.ID,
		ClientID:  uuid.New(),
		CheckIn:   date(2024, time.January, 1),
		CheckOut:  date(2024, time.January, 15),
		Guests:    2,
	})

	var verr *pricing.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "CHECKOUT_TOO_SOON", verr.Code)
}

func TestCreateRejectsOverCapacity(t *testing.T) {
	l := testListing()
	svc := NewService(newFakeRepo(), &fakeListings{listing: l}, &fakePayments{})

	_, err := svc.Create(context.Background(), testCaller(), CreateReservationRequest{
		ListingID: l.ID,
		ClientID:  uuid.New(),
		CheckIn:   date(2024, time.January, 1),
		CheckOut:  date(2024, time.March, 31),
		Guests:    5,
	})

	var verr *pricing.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "TOO_MANY_GUESTS", verr.Code)
}

func mustCreate(t *testing.T, svc *Service, l *listing.Listing) *Reservation {
	t.Helper()
	res, err := svc.Create(context.Background(), testCaller(), CreateReservationRequest{
		ListingID: l.ID,
		ClientID:  uuid.New(),
		CheckIn:   date(2024, time.January, 1),
		CheckOut:  date(2024, time.March, 31),
		Guests:    2,
	})
	require.NoError(t, err)
	return res
}

func TestChangeDatesAdditionalChargeRequiresPayment(t *testing.T) {
	repo := newFakeRepo()
	l := testListing()
	payments := &fakePayments{}
	svc := NewService(repo, &fakeListings{listing: l}, payments)
	res := mustCreate(t, svc, l)

	// 150 nights lands in the 15% tier: 15000 - 2250 + 1912.50 + 70 = 14732.50
	resp, err := svc.ChangeDates(context.Background(), testCaller(), res.ID, ChangeDatesRequest{
		CheckIn:  date(2024, time.January, 1),
		CheckOut: date(2024, time.May, 30),
	})
	require.NoError(t, err)

	assert.Nil(t, resp.Reservation)
	assert.Equal(t, pricing.DeltaAdditionalCharge, resp.Delta.Kind)
	assert.InDelta(t, 5347.50, resp.Delta.Difference, 0.001)
	assert.Equal(t, "pi_test_1_secret", resp.ClientSecret)

	require.Len(t, payments.created, 1)
	assert.Equal(t, int64(534750), payments.created[0].AmountCents)

	// Unpaid edit must not touch the stored reservation
	stored, err := repo.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 9385.0, stored.Total)
	assert.Equal(t, 90, stored.Nights)
}

func TestChangeDatesPersistsAfterSettledPayment(t *testing.T) {
	repo := newFakeRepo()
	l := testListing()
	payments := &fakePayments{intentStatus: "succeeded", intentAmount: 534750}
	svc := NewService(repo, &fakeListings{listing: l}, payments)
	res := mustCreate(t, svc, l)

	resp, err := svc.ChangeDates(context.Background(), testCaller(), res.ID, ChangeDatesRequest{
		CheckIn:         date(2024, time.January, 1),
		CheckOut:        date(2024, time.May, 30),
		PaymentIntentID: "pi_settled",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Reservation)
	assert.Equal(t, 150, resp.Reservation.Nights)
	assert.Equal(t, 14732.50, resp.Reservation.Total)
	assert.Equal(t, "pi_settled", resp.Reservation.PaymentIntentID.String)

	stored, err := repo.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 14732.50, stored.Total)
}

func TestChangeDatesRejectsUnsettledPayment(t *testing.T) {
	repo := newFakeRepo()
	l := testListing()
	payments := &fakePayments{intentStatus: "requires_payment_method", intentAmount: 534750}
	svc := NewService(repo, &fakeListings{listing: l}, payments)
	res := mustCreate(t, svc, l)

	_, err := svc.ChangeDates(context.Background(), testCaller(), res.ID, ChangeDatesRequest{
		CheckIn:         date(2024, time.January, 1),
		CheckOut:        date(2024, time.May, 30),
		PaymentIntentID: "pi_unsettled",
	})
	assert.ErrorIs(t, err, ErrPaymentNotSettled)
}

func TestChangeDatesRefundIsAdvisory(t *testing.T) {
	repo := newFakeRepo()
	l := testListing()
	payments := &fakePayments{}
	svc := NewService(repo, &fakeListings{listing: l}, payments)
	res := mustCreate(t, svc, l)

	// 60 nights lands in the 5% tier: 6000 - 300 + 855 + 70 = 6625
	resp, err := svc.ChangeDates(context.Background(), testCaller(), res.ID, ChangeDatesRequest{
		CheckIn:  date(2024, time.January, 1),
		CheckOut: date(2024, time.March, 1),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Reservation)
	assert.Equal(t, pricing.DeltaRefund, resp.Delta.Kind)
	assert.InDelta(t, -2760.0, resp.Delta.Difference, 0.001)
	assert.Equal(t, 6625.0, resp.Reservation.Total)
	require.True(t, resp.Reservation.RefundDue.Valid)
	assert.InDelta(t, 2760.0, resp.Reservation.RefundDue.Float64, 0.001)

	// No payment intent on the row, so nothing is forwarded
	assert.Empty(t, payments.refunds)
}

func TestChangeDatesNoChangeWithinThreshold(t *testing.T) {
	repo := newFakeRepo()
	l := testListing()
	svc := NewService(repo, &fakeListings{listing: l}, &fakePayments{})
	res := mustCreate(t, svc, l)

	resp, err := svc.ChangeDates(context.Background(), testCaller(), res.ID, ChangeDatesRequest{
		CheckIn:  date(2024, time.January, 1),
		CheckOut: date(2024, time.March, 31),
	})
	require.NoError(t, err)

	assert.Equal(t, pricing.DeltaNoChange, resp.Delta.Kind)
	require.NotNil(t, resp.Reservation)
	assert.False(t, resp.Reservation.RefundDue.Valid)
}

func TestChangeDatesRejectsClosedReservation(t *testing.T) {
	repo := newFakeRepo()
	l := testListing()
	svc := NewService(repo, &fakeListings{listing: l}, &fakePayments{})
	res := mustCreate(t, svc, l)

	_, err := svc.Cancel(context.Background(), testCaller(), res.ID, CancelRequest{Reason: "client backed out"})
	require.NoError(t, err)

	_, err = svc.ChangeDates(context.Background(), testCaller(), res.ID, ChangeDatesRequest{
		CheckIn:  date(2024, time.January, 1),
		CheckOut: date(2024, time.March, 1),
	})
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestCancelForwardsAdvisoryRefund(t *testing.T) {
	repo := newFakeRepo()
	l := testListing()
	payments := &fakePayments{intentStatus: "succeeded", intentAmount: 534750}
	svc := NewService(repo, &fakeListings{listing: l}, payments)
	res := mustCreate(t, svc, l)

	// Settle an upgrade first so the reservation carries a payment intent
	_, err := svc.ChangeDates(context.Background(), testCaller(), res.ID, ChangeDatesRequest{
		CheckIn:         date(2024, time.January, 1),
		CheckOut:        date(2024, time.May, 30),
		PaymentIntentID: "pi_settled",
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), testCaller(), res.ID, CancelRequest{
		Reason:       "client backed out",
		RefundAmount: 500,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, "client backed out", cancelled.CancelReason.String)
	assert.Equal(t, 500.0, cancelled.RefundDue.Float64)

	require.Len(t, payments.refunds, 1)
	assert.Equal(t, "pi_settled", payments.refunds[0].PaymentIntentID)
	assert.Equal(t, int64(50000), payments.refunds[0].AmountCents)
}

func TestConfirmAndCompleteTransitions(t *testing.T) {
	repo := newFakeRepo()
	l := testListing()
	svc := NewService(repo, &fakeListings{listing: l}, &fakePayments{})
	res := mustCreate(t, svc, l)

	require.NoError(t, svc.Confirm(context.Background(), res.ID))
	assert.ErrorIs(t, svc.Confirm(context.Background(), res.ID), ErrNotFound)

	require.NoError(t, svc.Complete(context.Background(), res.ID))
	stored, err := repo.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
}

func TestExpirePendingCancelsStaleRows(t *testing.T) {
	repo := newFakeRepo()
	l := testListing()
	svc := NewService(repo, &fakeListings{listing: l}, &fakePayments{})
	res := mustCreate(t, svc, l)

	stale := repo.rows[res.ID]
	stale.CreatedAt = time.Now().Add(-72 * time.Hour)

	n, err := svc.ExpirePending(context.Background(), time.Now().Add(-48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, err := repo.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
}
