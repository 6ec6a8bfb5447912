package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const signatureVersion = "v1"

// Sign computes the hex HMAC-SHA256 of "<timestamp>.<payload>" under secret.
// The timestamp is bound into the signed message so a captured request cannot
// be replayed outside the verification tolerance.
func Sign(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureHeader renders the header value sent with every delivery:
//
//	t=<unix seconds>,v1=<hex digest>
func SignatureHeader(secret string, timestamp int64, payload []byte) string {
	return fmt.Sprintf("t=%d,%s=%s", timestamp, signatureVersion, Sign(secret, timestamp, payload))
}

// VerifySignature checks a received header against the raw request body.
// It returns false for any malformed header, any timestamp outside the
// tolerance window and any digest mismatch; callers get no detail about
// which check failed.
func VerifySignature(secret, header string, payload []byte, now time.Time, tolerance time.Duration) bool {
	if secret == "" || header == "" {
		return false
	}

	var timestampRaw, digest string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestampRaw = value
		case signatureVersion:
			digest = value
		}
	}
	if timestampRaw == "" || digest == "" {
		return false
	}

	timestamp, err := strconv.ParseInt(timestampRaw, 10, 64)
	if err != nil {
		return false
	}

	drift := now.Unix() - timestamp
	if drift < 0 {
		drift = -drift
	}
	if drift > int64(tolerance.Seconds()) {
		return false
	}

	expected := Sign(secret, timestamp, payload)
	return hmac.Equal([]byte(expected), []byte(digest))
}
