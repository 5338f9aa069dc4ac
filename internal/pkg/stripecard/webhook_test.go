package stripecard

import (
	"fmt"
	"testing"
	"time"
)

func TestVerifySignature_Valid(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now()
	sig := ComputeSignature("whsec_test", now.Unix(), payload)
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), sig)

	if err := VerifySignature(header, payload, "whsec_test", now, DefaultTolerance); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()
	sig := ComputeSignature("whsec_other", now.Unix(), payload)
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), sig)

	if err := VerifySignature(header, payload, "whsec_test", now, DefaultTolerance); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	payload := []byte(`{}`)
	signedAt := time.Now().Add(-10 * time.Minute)
	sig := ComputeSignature("whsec_test", signedAt.Unix(), payload)
	header := fmt.Sprintf("t=%d,v1=%s", signedAt.Unix(), sig)

	if err := VerifySignature(header, payload, "whsec_test", time.Now(), DefaultTolerance); err == nil {
		t.Fatal("expected stale timestamp rejection")
	}
}

func TestVerifySignature_MalformedHeader(t *testing.T) {
	if err := VerifySignature("garbage", []byte(`{}`), "whsec_test", time.Now(), DefaultTolerance); err == nil {
		t.Fatal("expected malformed header rejection")
	}
}

func TestVerifySignature_MultipleCandidates(t *testing.T) {
	payload := []byte(`{"ok":true}`)
	now := time.Now()
	good := ComputeSignature("whsec_test", now.Unix(), payload)
	header := fmt.Sprintf("t=%d,v1=deadbeef,v1=%s", now.Unix(), good)

	if err := VerifySignature(header, payload, "whsec_test", now, DefaultTolerance); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
