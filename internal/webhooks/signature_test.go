package webhooks

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestSignatureRoundTrip(t *testing.T) {
	secret := "whsec_test_secret"
	payload := []byte(`{"id":"evt_abc","type":"booking.created"}`)
	now := time.Now()

	header := SignatureHeader(secret, now.Unix(), payload)
	if !strings.HasPrefix(header, fmt.Sprintf("t=%d,v1=", now.Unix())) {
		t.Fatalf("unexpected header format %q", header)
	}

	if !VerifySignature(secret, header, payload, now, 5*time.Minute) {
		t.Fatal("expected signature to verify")
	}
}

func TestVerifySignatureOrderIndependent(t *testing.T) {
	secret := "whsec_test_secret"
	payload := []byte(`{"ok":true}`)
	now := time.Now()

	digest := Sign(secret, now.Unix(), payload)
	header := fmt.Sprintf("v1=%s,t=%d", digest, now.Unix())
	if !VerifySignature(secret, header, payload, now, 5*time.Minute) {
		t.Fatal("expected reversed header to verify")
	}
}

func TestVerifySignatureRejectsStaleTimestamp(t *testing.T) {
	secret := "whsec_test_secret"
	payload := []byte(`{"ok":true}`)
	signedAt := time.Now().Add(-10 * time.Minute)

	header := SignatureHeader(secret, signedAt.Unix(), payload)
	if VerifySignature(secret, header, payload, time.Now(), 5*time.Minute) {
		t.Fatal("expected stale signature to fail")
	}
}

func TestVerifySignatureAllowsSkewWithinTolerance(t *testing.T) {
	secret := "whsec_test_secret"
	payload := []byte(`{"ok":true}`)
	future := time.Now().Add(2 * time.Minute)

	header := SignatureHeader(secret, future.Unix(), payload)
	if !VerifySignature(secret, header, payload, time.Now(), 5*time.Minute) {
		t.Fatal("expected future skew within tolerance to verify")
	}
}

func TestVerifySignatureRejectsTamperedPayload(t *testing.T) {
	secret := "whsec_test_secret"
	payload := []byte(`{"amount":100}`)
	now := time.Now()

	header := SignatureHeader(secret, now.Unix(), payload)
	if VerifySignature(secret, header, []byte(`{"amount":999}`), now, 5*time.Minute) {
		t.Fatal("expected tampered payload to fail")
	}
}

func TestVerifySignatureRejectsMalformedHeaders(t *testing.T) {
	secret := "whsec_test_secret"
	payload := []byte(`{"ok":true}`)
	now := time.Now()
	digest := Sign(secret, now.Unix(), payload)

	cases := []string{
		"",
		"garbage",
		fmt.Sprintf("t=%d", now.Unix()),
		fmt.Sprintf("v1=%s", digest),
		fmt.Sprintf("t=notanumber,v1=%s", digest),
		fmt.Sprintf("t=%d,v2=%s", now.Unix(), digest),
	}
	for _, header := range cases {
		if VerifySignature(secret, header, payload, now, 5*time.Minute) {
			t.Fatalf("expected header %q to fail verification", header)
		}
	}
}

func TestVerifySignatureRejectsEmptySecret(t *testing.T) {
	payload := []byte(`{"ok":true}`)
	now := time.Now()
	header := SignatureHeader("whsec_real", now.Unix(), payload)

	if VerifySignature("", header, payload, now, 5*time.Minute) {
		t.Fatal("expected empty secret to fail closed")
	}
}
