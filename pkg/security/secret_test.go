package security

import (
	"strings"
	"testing"
)

func TestGenerateWebhookSecret(t *testing.T) {
	secret, err := GenerateWebhookSecret()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(secret, "whsec_") {
		t.Fatalf("expected whsec_ prefix, got %q", secret)
	}
	random := strings.TrimPrefix(secret, "whsec_")
	if len(random) < 32 {
		t.Fatalf("random portion too short: %d chars", len(random))
	}
	for _, r := range random {
		if strings.ContainsRune("+/=", r) {
			t.Fatalf("secret contains non url-safe character %q", r)
		}
	}
}

func TestGenerateWebhookSecretUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 32; i++ {
		secret, err := GenerateWebhookSecret()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, dup := seen[secret]; dup {
			t.Fatalf("duplicate secret generated")
		}
		seen[secret] = struct{}{}
	}
}
