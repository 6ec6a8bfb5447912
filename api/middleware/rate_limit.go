package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getclientflow/clientflow-backend/api/responses"
	"github.com/getclientflow/clientflow-backend/pkg/config"
	pkgerrors "github.com/getclientflow/clientflow-backend/pkg/errors"
	"github.com/getclientflow/clientflow-backend/pkg/logger"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// TestDeliveryRateLimit throttles the synchronous webhook test endpoint per
// tenant. Counters live in Redis so the limit holds across API replicas.
func TestDeliveryRateLimit(cfg config.TestRateLimitConfig, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.Limit <= 0 || cfg.Window <= 0 || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tenantID := TenantIDFromContext(ctx)
			if tenantID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant context"))
				return
			}

			scope := fmt.Sprintf("webhook_test:%s", tenantID)
			allowed, count, err := store.FixedWindowAllow(ctx, scope, int64(cfg.Limit), cfg.Window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !allowed {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"attempts":       count,
						"limit":          cfg.Limit,
						"window_seconds": int(cfg.Window.Seconds()),
					})
					logg.Warn(logCtx, "webhook test rate limit exceeded")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "test delivery rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
