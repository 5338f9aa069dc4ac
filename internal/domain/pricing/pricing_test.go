package pricing

import (
	"math"
	"strings"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDiscountRateThresholds(t *testing.T) {
	cases := []struct {
		nights int
		want   float64
	}{
		{0, 0},
		{29, 0},
		{59, 0},
		{60, 0.05},
		{89, 0.05},
		{90, 0.10},
		{119, 0.10},
		{120, 0.15},
		{179, 0.15},
		{180, 0.20},
		{364, 0.20},
		{365, 0.25},
		{1000, 0.25},
	}

	for _, tc := range cases {
		if got := DiscountRateForNights(tc.nights); got != tc.want {
			t.Errorf("DiscountRateForNights(%d) = %v, want %v", tc.nights, got, tc.want)
		}
	}
}

func TestDiscountRateMonotonic(t *testing.T) {
	prev := 0.0
	for nights := 0; nights <= 400; nights++ {
		rate := DiscountRateForNights(nights)
		if rate < prev {
			t.Fatalf("discount rate decreased at %d nights: %v < %v", nights, rate, prev)
		}
		prev = rate
	}
}

func TestNights(t *testing.T) {
	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"thirty nights", date(2024, 1, 1), date(2024, 1, 31), 30},
		{"fourteen nights", date(2024, 1, 1), date(2024, 1, 15), 14},
		{"same day", date(2024, 1, 1), date(2024, 1, 1), 0},
		{"checkout before checkin", date(2024, 1, 10), date(2024, 1, 1), 0},
		{"across year boundary", date(2023, 12, 1), date(2024, 3, 1), 91},
		{"time of day ignored", date(2024, 1, 1).Add(23 * time.Hour), date(2024, 1, 31).Add(1 * time.Hour), 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Nights(tc.checkIn, tc.checkOut); got != tc.want {
				t.Fatalf("Nights() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestComputeBreakdownNinetyNightScenario(t *testing.T) {
	// 90 nights at 100/night with cleaning 50 and service 20:
	// subtotal 9000, 10% discount 900, fee 15% of 8100 = 1215, total 9385.
	req := StayRequest{
		CheckIn:     date(2024, 1, 1),
		CheckOut:    date(2024, 3, 31),
		NightlyRate: 100,
		CleaningFee: 50,
		ServiceFee:  20,
		Currency:    "USD",
	}

	b := ComputeBreakdown(req)

	if b.Nights != 90 {
		t.Fatalf("nights = %d, want 90", b.Nights)
	}
	if b.NightsSubtotal != 9000.00 {
		t.Errorf("subtotal = %v, want 9000.00", b.NightsSubtotal)
	}
	if b.DiscountRate != 0.10 {
		t.Errorf("discount rate = %v, want 0.10", b.DiscountRate)
	}
	if b.DiscountAmount != 900.00 {
		t.Errorf("discount amount = %v, want 900.00", b.DiscountAmount)
	}
	if b.NightsAfterDiscount != 8100.00 {
		t.Errorf("after discount = %v, want 8100.00", b.NightsAfterDiscount)
	}
	if b.PlatformFee != 1215.00 {
		t.Errorf("platform fee = %v, want 1215.00", b.PlatformFee)
	}
	if b.OtherFeesTotal != 70.00 {
		t.Errorf("other fees = %v, want 70.00", b.OtherFeesTotal)
	}
	if b.Total != 9385.00 {
		t.Errorf("total = %v, want 9385.00", b.Total)
	}
}

func TestComputeBreakdownPlatformFeePostDiscount(t *testing.T) {
	req := StayRequest{
		CheckIn:     date(2024, 1, 1),
		CheckOut:    date(2024, 7, 1), // 182 nights -> 20% discount
		NightlyRate: 123.45,
	}

	b := ComputeBreakdown(req)

	subtotal := float64(b.Nights) * req.NightlyRate
	wantFee := math.Round(subtotal*(1-b.DiscountRate)*PlatformFeeRate*100) / 100
	if b.PlatformFee != wantFee {
		t.Fatalf("platform fee = %v, want %v (post-discount)", b.PlatformFee, wantFee)
	}
}

func TestComputeBreakdownIdempotent(t *testing.T) {
	req := StayRequest{
		CheckIn:          date(2024, 2, 1),
		CheckOut:         date(2024, 6, 15),
		NightlyRate:      87.33,
		CleaningFee:      40,
		ServiceFee:       15.5,
		AccommodationFee: 9.99,
		Currency:         "EUR",
	}

	first := ComputeBreakdown(req)
	second := ComputeBreakdown(req)

	if first != second {
		t.Fatalf("breakdown not deterministic:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestComputeBreakdownCoercesNonFiniteInputs(t *testing.T) {
	req := StayRequest{
		CheckIn:     date(2024, 1, 1),
		CheckOut:    date(2024, 1, 31),
		NightlyRate: math.NaN(),
		CleaningFee: math.Inf(1),
	}

	b := ComputeBreakdown(req)

	if b.NightsSubtotal != 0 || b.Total != 0 {
		t.Fatalf("non-finite inputs must coerce to 0, got %+v", b)
	}
}

func TestComputeBreakdownZeroNights(t *testing.T) {
	req := StayRequest{
		CheckIn:     date(2024, 1, 10),
		CheckOut:    date(2024, 1, 10),
		NightlyRate: 100,
		CleaningFee: 50,
	}

	b := ComputeBreakdown(req)

	if b.Nights != 0 {
		t.Fatalf("nights = %d, want 0", b.Nights)
	}
	// Fixed fees still show up so the form preview stays coherent.
	if b.Total != 50.00 {
		t.Fatalf("total = %v, want 50.00", b.Total)
	}
}

func TestComputeDelta(t *testing.T) {
	cases := []struct {
		name     string
		original float64
		updated  float64
		wantDiff float64
		wantKind DeltaKind
	}{
		{"additional charge", 100, 150, 50, DeltaAdditionalCharge},
		{"refund", 150, 100, -50, DeltaRefund},
		{"within threshold", 100, 100.005, 0.005, DeltaNoChange},
		{"exactly equal", 100, 100, 0, DeltaNoChange},
		{"just over threshold", 100, 100.02, 0.02, DeltaAdditionalCharge},
		{"just under negative threshold", 100, 99.98, -0.02, DeltaRefund},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := ComputeDelta(tc.original, tc.updated)
			if math.Abs(d.Difference-tc.wantDiff) > 1e-9 {
				t.Errorf("difference = %v, want %v", d.Difference, tc.wantDiff)
			}
			if d.Kind != tc.wantKind {
				t.Errorf("kind = %v, want %v", d.Kind, tc.wantKind)
			}
		})
	}
}

func TestValidateStayBelowMinimum(t *testing.T) {
	req := StayRequest{
		CheckIn:     date(2024, 1, 1),
		CheckOut:    date(2024, 1, 15), // 14 nights
		NightlyRate: 100,
	}

	verr := ValidateStay(req, nil, 2)
	if verr == nil {
		t.Fatal("expected rejection for 14-night stay")
	}
	if verr.Code != CodeCheckoutTooSoon {
		t.Fatalf("code = %s, want %s (date-anchored message wins)", verr.Code, CodeCheckoutTooSoon)
	}
	// The message carries the earliest acceptable checkout date.
	if want := "2024-01-31"; !strings.Contains(verr.Message, want) {
		t.Fatalf("message %q missing earliest checkout %s", verr.Message, want)
	}
}

func TestValidateStayExactBoundary(t *testing.T) {
	req := StayRequest{
		CheckIn:     date(2024, 1, 1),
		CheckOut:    date(2024, 1, 31), // exactly 30 nights
		NightlyRate: 100,
	}

	if verr := ValidateStay(req, nil, 2); verr != nil {
		t.Fatalf("unexpected rejection: %v", verr)
	}

	b := ComputeBreakdown(req)
	if b.Nights != 30 {
		t.Fatalf("nights = %d, want 30", b.Nights)
	}
	if b.DiscountRate != 0 {
		t.Fatalf("discount rate = %v, want 0 (30 < 60)", b.DiscountRate)
	}
}

func TestValidateStayMissingDates(t *testing.T) {
	verr := ValidateStay(StayRequest{}, nil, 2)
	if verr == nil || verr.Code != CodeDatesRequired {
		t.Fatalf("expected %s, got %v", CodeDatesRequired, verr)
	}
}

func TestValidateStayGuestChecks(t *testing.T) {
	req := StayRequest{
		CheckIn:  date(2024, 1, 1),
		CheckOut: date(2024, 3, 1),
	}

	verr := ValidateStay(req, nil, 0)
	if verr == nil || verr.Code != CodeNoGuests {
		t.Fatalf("expected %s, got %v", CodeNoGuests, verr)
	}

	accommodates := 4
	verr = ValidateStay(req, &accommodates, 5)
	if verr == nil || verr.Code != CodeTooManyGuests {
		t.Fatalf("expected %s, got %v", CodeTooManyGuests, verr)
	}

	// Capacity rejection must not be shadowed by any date-related reason.
	if strings.Contains(verr.Message, "check-in") || strings.Contains(verr.Message, "check-out") {
		t.Fatalf("capacity message mentions dates: %q", verr.Message)
	}

	if verr := ValidateStay(req, &accommodates, 4); verr != nil {
		t.Fatalf("unexpected rejection at capacity: %v", verr)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"100", 100},
		{"1,200.50", 1200.50},
		{"$99.99", 99.99},
		{"  85 ", 85},
		{"abc", 0},
		{"", 0},
		{"-20", -20},
	}

	for _, tc := range cases {
		if got := ParseAmount(tc.raw); got != tc.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestCurrencySymbol(t *testing.T) {
	cases := map[string]string{
		"USD": "$",
		"usd": "$",
		"EUR": "€",
		"GBP": "£",
		"AED": "AED",
		"":    "$",
		"JPY": "JPY",
	}

	for code, want := range cases {
		if got := CurrencySymbol(code); got != want {
			t.Errorf("CurrencySymbol(%q) = %q, want %q", code, got, want)
		}
	}
}
