package pricing

import "fmt"

// Rejection codes returned by ValidateStay
const (
	CodeDatesRequired   = "DATES_REQUIRED"
	CodeCheckoutTooSoon = "CHECKOUT_TOO_SOON"
	CodeBelowMinimum    = "BELOW_MINIMUM_STAY"
	CodeNoGuests        = "NO_GUESTS"
	CodeTooManyGuests   = "TOO_MANY_GUESTS"
)

// ValidationError is a single user-facing rejection reason. It blocks
// submission; it is not a fault.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateStay checks a stay request against booking rules. Checks run in a
// fixed order and the first failure wins, so the date-anchored message is
// reported before the generic minimum-duration one. accommodates may be nil
// when the listing has no occupancy bound.
func ValidateStay(req StayRequest, accommodates *int, guests int) *ValidationError {
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return &ValidationError{
			Code:    CodeDatesRequired,
			Message: "check-in and check-out dates are required",
		}
	}

	minCheckout := atMidnight(req.CheckIn).AddDate(0, 0, MinimumStayNights)
	if atMidnight(req.CheckOut).Before(minCheckout) {
		return &ValidationError{
			Code: CodeCheckoutTooSoon,
			Message: fmt.Sprintf("check-out must be at least %d days after check-in (earliest %s)",
				MinimumStayNights, minCheckout.Format("2006-01-02")),
		}
	}

	// Strictly looser than the check above; kept as a safety net so a
	// caller constructing requests another way still hits the floor.
	if Nights(req.CheckIn, req.CheckOut) < MinimumStayNights {
		return &ValidationError{
			Code:    CodeBelowMinimum,
			Message: fmt.Sprintf("minimum booking duration is %d days", MinimumStayNights),
		}
	}

	if guests < 1 {
		return &ValidationError{
			Code:    CodeNoGuests,
			Message: "at least 1 guest is required",
		}
	}

	if accommodates != nil && guests > *accommodates {
		return &ValidationError{
			Code:    CodeTooManyGuests,
			Message: fmt.Sprintf("number of guests exceeds the maximum of %d", *accommodates),
		}
	}

	return nil
}
