package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics records outcomes of outbound webhook deliveries.
type WebhookMetrics struct {
	deliveries      *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	queueDepth      prometheus.Gauge
	unhealthy       *prometheus.CounterVec
}

// NewWebhookMetrics registers the delivery metrics on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_deliveries_total",
		Help: "Terminal webhook delivery outcomes by event type.",
	}, []string{"event", "outcome"})
	attemptDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_attempt_duration_seconds",
		Help:    "Duration of individual webhook HTTP attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event"})
	queueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "webhook_queue_depth",
		Help: "Number of deliveries waiting for a dispatcher worker.",
	})
	unhealthy := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_endpoint_unhealthy_total",
		Help: "Times an endpoint crossed the consecutive failure threshold.",
	}, []string{"endpoint_id"})
	reg.MustRegister(deliveries, attemptDuration, queueDepth, unhealthy)
	return &WebhookMetrics{
		deliveries:      deliveries,
		attemptDuration: attemptDuration,
		queueDepth:      queueDepth,
		unhealthy:       unhealthy,
	}
}

// IncDelivered increments the terminal success counter for the event type.
func (w *WebhookMetrics) IncDelivered(event string) {
	if w == nil || w.deliveries == nil {
		return
	}
	w.deliveries.WithLabelValues(normalizeLabel(event), "delivered").Inc()
}

// IncFailed increments the terminal failure counter for the event type.
func (w *WebhookMetrics) IncFailed(event string) {
	if w == nil || w.deliveries == nil {
		return
	}
	w.deliveries.WithLabelValues(normalizeLabel(event), "failed").Inc()
}

// ObserveAttempt records how long a single HTTP attempt took.
func (w *WebhookMetrics) ObserveAttempt(event string, duration time.Duration) {
	if w == nil || w.attemptDuration == nil {
		return
	}
	w.attemptDuration.WithLabelValues(normalizeLabel(event)).Observe(duration.Seconds())
}

// SetQueueDepth reports the current dispatcher backlog.
func (w *WebhookMetrics) SetQueueDepth(depth int) {
	if w == nil || w.queueDepth == nil {
		return
	}
	w.queueDepth.Set(float64(depth))
}

// IncUnhealthy marks an endpoint crossing the failure threshold.
func (w *WebhookMetrics) IncUnhealthy(endpointID string) {
	if w == nil || w.unhealthy == nil {
		return
	}
	w.unhealthy.WithLabelValues(normalizeLabel(endpointID)).Inc()
}
