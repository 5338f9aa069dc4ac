package pricing

import (
	"math"
	"time"
)

const (
	// MinimumStayNights is the shortest bookable stay
	MinimumStayNights = 30

	// PlatformFeeRate is applied to the discounted nights subtotal
	PlatformFeeRate = 0.15
)

// StayRequest is the input for one pricing calculation
type StayRequest struct {
	CheckIn          time.Time `json:"check_in"`
	CheckOut         time.Time `json:"check_out"`
	NightlyRate      float64   `json:"nightly_rate"`
	CleaningFee      float64   `json:"cleaning_fee"`
	ServiceFee       float64   `json:"service_fee"`
	AccommodationFee float64   `json:"accommodation_fee"`
	Currency         string    `json:"currency"`
}

// Breakdown is the fully derived price breakdown for a stay.
// All monetary fields are rounded to 2 decimal places independently.
type Breakdown struct {
	Nights              int     `json:"nights"`
	NightsSubtotal      float64 `json:"nights_subtotal"`
	DiscountRate        float64 `json:"discount_rate"`
	DiscountAmount      float64 `json:"discount_amount"`
	NightsAfterDiscount float64 `json:"nights_after_discount"`
	PlatformFee         float64 `json:"platform_fee"`
	OtherFeesTotal      float64 `json:"other_fees_total"`
	Total               float64 `json:"total"`
	Currency            string  `json:"currency"`
	CurrencySymbol      string  `json:"currency_symbol"`
}

// Nights returns the number of nights between two dates. Time-of-day is
// normalized to local midnight before subtracting so DST shifts cannot
// double-count a day. A check-out on or before check-in yields 0.
func Nights(checkIn, checkOut time.Time) int {
	in := atMidnight(checkIn)
	out := atMidnight(checkOut)

	nights := int(math.Ceil(out.Sub(in).Hours() / 24))
	if nights < 0 {
		return 0
	}
	return nights
}

func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DiscountRateForNights returns the duration discount for a stay length.
// Thresholds are evaluated from the highest down; first match wins.
func DiscountRateForNights(nights int) float64 {
	switch {
	case nights >= 365:
		return 0.25
	case nights >= 180:
		return 0.20
	case nights >= 120:
		return 0.15
	case nights >= 90:
		return 0.10
	case nights >= 60:
		return 0.05
	default:
		return 0
	}
}

// ComputeBreakdown derives the full price breakdown for a stay request.
// Pure: same input always yields the same output. Non-finite monetary
// inputs are coerced to 0 so a partially filled form never breaks the
// price display.
func ComputeBreakdown(req StayRequest) Breakdown {
	rate := finiteOrZero(req.NightlyRate)
	cleaning := finiteOrZero(req.CleaningFee)
	service := finiteOrZero(req.ServiceFee)
	accommodation := finiteOrZero(req.AccommodationFee)

	nights := Nights(req.CheckIn, req.CheckOut)
	subtotal := float64(nights) * rate
	discountRate := DiscountRateForNights(nights)
	discountAmount := subtotal * discountRate
	afterDiscount := subtotal - discountAmount
	platformFee := afterDiscount * PlatformFeeRate
	otherFees := cleaning + service + accommodation
	total := afterDiscount + platformFee + otherFees

	// Each field is rounded at output time only, never re-derived from
	// already-rounded components.
	return Breakdown{
		Nights:              nights,
		NightsSubtotal:      round2(subtotal),
		DiscountRate:        discountRate,
		DiscountAmount:      round2(discountAmount),
		NightsAfterDiscount: round2(afterDiscount),
		PlatformFee:         round2(platformFee),
		OtherFeesTotal:      round2(otherFees),
		Total:               round2(total),
		Currency:            req.Currency,
		CurrencySymbol:      CurrencySymbol(req.Currency),
	}
}

// DeltaKind classifies the outcome of comparing two totals
type DeltaKind string

const (
	DeltaAdditionalCharge DeltaKind = "additional_charge"
	DeltaRefund           DeltaKind = "refund"
	DeltaNoChange         DeltaKind = "no_change"
)

// deltaThreshold absorbs floating-point rounding noise when diffing totals
const deltaThreshold = 0.01

// Delta is the result of comparing a stored total against a recomputed one
type Delta struct {
	OriginalTotal float64   `json:"original_total"`
	NewTotal      float64   `json:"new_total"`
	Difference    float64   `json:"difference"`
	Kind          DeltaKind `json:"kind"`
}

// ComputeDelta diffs a reservation's stored total against a freshly
// computed one. Differences within ±0.01 count as no change.
func ComputeDelta(originalTotal, newTotal float64) Delta {
	difference := newTotal - originalTotal

	kind := DeltaNoChange
	if difference > deltaThreshold {
		kind = DeltaAdditionalCharge
	} else if difference < -deltaThreshold {
		kind = DeltaRefund
	}

	return Delta{
		OriginalTotal: originalTotal,
		NewTotal:      newTotal,
		Difference:    difference,
		Kind:          kind,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
