package reservation

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/stayhub/stayhub-api/internal/pkg/response"
	"github.com/stayhub/stayhub-api/internal/pkg/stripecard"
)

const maxWebhookBody = 1 << 20

// WebhookHandler receives Stripe events for reservation payments
type WebhookHandler struct {
	secret string
}

// NewWebhookHandler creates the Stripe webhook handler
func NewWebhookHandler(secret string) *WebhookHandler {
	return &WebhookHandler{secret: secret}
}

// HandleStripe handles POST /webhooks/stripe. The endpoint is public; the
// signature header is the only authentication.
func (h *WebhookHandler) HandleStripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(w, "Failed to read body")
		return
	}

	event, err := stripecard.ParseEvent(payload, r.Header.Get("Stripe-Signature"), h.secret)
	if err != nil {
		log.Warn().Err(err).Msg("Rejected stripe webhook")
		response.BadRequest(w, "Invalid signature")
		return
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed", "refund.updated":
		var obj struct {
			ID       string `json:"id"`
			Status   string `json:"status"`
			Metadata struct {
				ReservationID string `json:"reservation_id"`
			} `json:"metadata"`
		}
		if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
			log.Warn().Err(err).Str("event_id", event.ID).Msg("Unreadable stripe event object")
			break
		}
		log.Info().
			Str("event_id", event.ID).
			Str("event_type", event.Type).
			Str("object_id", obj.ID).
			Str("object_status", obj.Status).
			Str("reservation_id", obj.Metadata.ReservationID).
			Msg("Stripe payment event")
	default:
		log.Debug().Str("event_id", event.ID).Str("event_type", event.Type).Msg("Ignoring stripe event")
	}

	// Stripe retries anything that is not a 2xx
	response.OK(w, map[string]string{"received": event.ID})
}
