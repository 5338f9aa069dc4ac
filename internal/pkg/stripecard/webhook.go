package stripecard

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance is the maximum accepted age of a signed webhook payload
const DefaultTolerance = 5 * time.Minute

// Event is the subset of a Stripe webhook event we consume
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ComputeSignature returns the hex HMAC-SHA256 over "timestamp.payload"
func ComputeSignature(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a Stripe-Signature header ("t=...,v1=...") against
// the payload. Comparison is constant-time; signatures older than tolerance
// are rejected to limit replay.
func VerifySignature(header string, payload []byte, secret string, now time.Time, tolerance time.Duration) error {
	var timestamp int64
	var candidates []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid signature timestamp: %w", err)
			}
			timestamp = ts
		case "v1":
			candidates = append(candidates, kv[1])
		}
	}

	if timestamp == 0 || len(candidates) == 0 {
		return fmt.Errorf("malformed signature header")
	}

	age := now.Sub(time.Unix(timestamp, 0))
	if age > tolerance || age < -tolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	expected := ComputeSignature(secret, timestamp, payload)
	for _, candidate := range candidates {
		received := strings.ToLower(strings.TrimSpace(candidate))
		if subtle.ConstantTimeCompare([]byte(expected), []byte(received)) == 1 {
			return nil
		}
	}
	return fmt.Errorf("no matching signature")
}

// ParseEvent verifies the signature and decodes the event payload
func ParseEvent(payload []byte, header, secret string) (*Event, error) {
	if err := VerifySignature(header, payload, secret, time.Now(), DefaultTolerance); err != nil {
		return nil, err
	}
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook event: %w", err)
	}
	return &event, nil
}
