package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/getclientflow/clientflow-backend/pkg/config"
)

type fakeLimiter struct {
	count int64
	limit int64
	scope string
}

func (f *fakeLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	f.count++
	f.scope = scope
	f.limit = limit
	return f.count <= limit, f.count, nil
}

func TestTestDeliveryRateLimit(t *testing.T) {
	store := &fakeLimiter{}
	cfg := config.TestRateLimitConfig{Window: time.Minute, Limit: 2}
	tenantID := uuid.New()

	handler := TestDeliveryRateLimit(cfg, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/abc/test", nil)
		req = req.WithContext(WithTenantID(req.Context(), tenantID.String()))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	if got := do(); got != http.StatusOK {
		t.Fatalf("first request should pass, got %d", got)
	}
	if got := do(); got != http.StatusOK {
		t.Fatalf("second request should pass, got %d", got)
	}
	if got := do(); got != http.StatusTooManyRequests {
		t.Fatalf("third request should be throttled, got %d", got)
	}
	if store.scope != "webhook_test:"+tenantID.String() {
		t.Fatalf("unexpected scope %q", store.scope)
	}
}

func TestTestDeliveryRateLimitRequiresTenant(t *testing.T) {
	store := &fakeLimiter{}
	cfg := config.TestRateLimitConfig{Window: time.Minute, Limit: 2}

	handler := TestDeliveryRateLimit(cfg, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/abc/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without tenant context, got %d", w.Code)
	}
}

func TestTestDeliveryRateLimitDisabled(t *testing.T) {
	handler := TestDeliveryRateLimit(config.TestRateLimitConfig{}, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/abc/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("disabled limiter must pass through, got %d", w.Code)
	}
}
