package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const (
	webhookSecretPrefix = "whsec_"
	webhookSecretBytes  = 24
)

// GenerateWebhookSecret returns a new signing secret for a webhook endpoint.
// The secret is prefixed for recognizability and the random part is URL-safe
// so it can be pasted into env files and dashboards without escaping.
func GenerateWebhookSecret() (string, error) {
	buf := make([]byte, webhookSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return webhookSecretPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}
