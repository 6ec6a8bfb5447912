package webhooks

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/getclientflow/clientflow-backend/pkg/config"
	"github.com/getclientflow/clientflow-backend/pkg/db/models"
	"github.com/getclientflow/clientflow-backend/pkg/enums"
	pkgerrors "github.com/getclientflow/clientflow-backend/pkg/errors"
	"github.com/getclientflow/clientflow-backend/pkg/logger"
	"github.com/getclientflow/clientflow-backend/pkg/metrics"
)

const (
	headerSignature = "X-Webhook-Signature"
	headerEvent     = "X-Webhook-Event"
)

// Dispatcher fans event notifications out to subscribed endpoints through a
// bounded worker pool. Dispatch enqueues and returns immediately; delivery,
// retries and history recording happen on the workers so a slow or dead
// endpoint never stalls the business operation that emitted the event.
type Dispatcher struct {
	cfg     config.WebhookConfig
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.WebhookMetrics
	client  *http.Client

	jobs chan deliveryJob
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

type deliveryJob struct {
	endpoint models.WebhookEndpoint
	event    enums.WebhookEvent
	payload  []byte
}

// DeliveryOutcome reports the result of a single synchronous delivery.
type DeliveryOutcome struct {
	Success    bool   `json:"success"`
	StatusCode *int   `json:"status_code"`
	Response   string `json:"response"`
	Error      string `json:"error,omitempty"`
}

// NewDispatcher wires dispatcher dependencies and starts the worker pool.
func NewDispatcher(cfg config.WebhookConfig, repo Repository, logg *logger.Logger, m *metrics.WebhookMetrics) (*Dispatcher, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "webhooks repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}

	d := &Dispatcher{
		cfg:     cfg,
		repo:    repo,
		logg:    logg,
		metrics: m,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		jobs:    make(chan deliveryJob, cfg.QueueSize),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d, nil
}

// Dispatch serializes the event once and queues one delivery per matching
// endpoint. It returns the number of endpoints queued. A tenant with no
// matching endpoints is a successful no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, tenantID uuid.UUID, event enums.WebhookEvent, data any) (int, error) {
	if tenantID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if !event.IsValid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "unknown webhook event")
	}

	endpoints, err := d.repo.ListActiveForEvent(ctx, tenantID, event)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list webhook endpoints")
	}
	if len(endpoints) == 0 {
		return 0, nil
	}

	_, payload, err := NewEnvelope(event, data)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build webhook envelope")
	}

	for _, endpoint := range endpoints {
		d.enqueue(deliveryJob{endpoint: endpoint, event: event, payload: payload})
	}
	d.metrics.SetQueueDepth(len(d.jobs))
	return len(endpoints), nil
}

// DeliverTest posts a single validation event to the endpoint and returns the
// outcome synchronously. No retries, no delivery record.
func (d *Dispatcher) DeliverTest(ctx context.Context, endpoint *models.WebhookEndpoint) (*DeliveryOutcome, error) {
	if endpoint == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "endpoint required")
	}

	_, payload, err := NewEnvelope(enums.WebhookEventTest, map[string]string{
		"message": "This is a test webhook from ClientFlow",
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build test envelope")
	}

	status, body, err := d.post(ctx, endpoint, enums.WebhookEventTest, payload)
	outcome := &DeliveryOutcome{Response: body}
	if err != nil {
		outcome.Error = err.Error()
		return outcome, nil
	}
	outcome.StatusCode = &status
	outcome.Success = status >= 200 && status < 300
	return outcome, nil
}

// Shutdown stops accepting work and waits for in-flight deliveries to drain,
// or for ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) enqueue(job deliveryJob) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	select {
	case d.jobs <- job:
		d.mu.Unlock()
		return
	default:
	}
	// Queue is full. Deliver on a dedicated goroutine rather than block the
	// producer or drop the event.
	d.wg.Add(1)
	d.mu.Unlock()
	go func() {
		defer d.wg.Done()
		d.deliver(job)
	}()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.deliver(job)
	}
}

// deliver runs the full retry state machine for one endpoint. It carries its
// own context; the request that triggered the event has long since returned.
func (d *Dispatcher) deliver(job deliveryJob) {
	ctx := d.logg.WithFields(context.Background(), map[string]any{
		"endpoint_id": job.endpoint.ID.String(),
		"event":       string(job.event),
	})

	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		start := time.Now()
		status, body, err := d.post(ctx, &job.endpoint, job.event, job.payload)
		d.metrics.ObserveAttempt(string(job.event), time.Since(start))

		success := err == nil && status >= 200 && status < 300

		record := models.WebhookDelivery{
			EndpointID: job.endpoint.ID,
			Event:      job.event,
			Payload:    truncate(string(job.payload), d.cfg.MaxPayloadBytes),
			Success:    success,
			Attempts:   attempt,
		}
		switch {
		case err != nil:
			record.Response = truncate(err.Error(), d.cfg.MaxResponseBytes)
		default:
			record.Response = truncate(body, d.cfg.MaxResponseBytes)
			code := status
			record.StatusCode = &code
		}
		if recErr := d.repo.CreateDelivery(ctx, &record); recErr != nil {
			d.logg.Error(ctx, "recording webhook delivery", recErr)
		}

		if success {
			d.settleSuccess(ctx, job)
			return
		}

		if attempt < d.cfg.MaxAttempts {
			time.Sleep(time.Duration(attempt) * d.cfg.BackoffUnit)
		}
	}

	d.settleFailure(ctx, job)
}

func (d *Dispatcher) post(ctx context.Context, endpoint *models.WebhookEndpoint, event enums.WebhookEvent, payload []byte) (int, string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, d.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint.URL, bytes.NewReader(payload))
	if err != nil {
		return 0, "", err
	}

	// Each attempt is signed with a fresh timestamp so retried requests still
	// pass the receiver's tolerance check.
	timestamp := time.Now().Unix()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerSignature, SignatureHeader(endpoint.Secret, timestamp, payload))
	req.Header.Set(headerEvent, string(event))
	req.Header.Set("User-Agent", d.cfg.UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, int64(d.cfg.MaxResponseBytes)+1))
	return resp.StatusCode, string(body), nil
}

func (d *Dispatcher) settleSuccess(ctx context.Context, job deliveryJob) {
	d.metrics.IncDelivered(string(job.event))
	if err := d.repo.ResetFailureCount(ctx, job.endpoint.ID); err != nil {
		d.logg.Error(ctx, "resetting endpoint failure count", err)
	}
}

func (d *Dispatcher) settleFailure(ctx context.Context, job deliveryJob) {
	d.metrics.IncFailed(string(job.event))
	count, err := d.repo.IncrementFailureCount(ctx, job.endpoint.ID)
	if err != nil {
		d.logg.Error(ctx, "incrementing endpoint failure count", err)
		return
	}
	if d.cfg.UnhealthyThreshold > 0 && count == d.cfg.UnhealthyThreshold {
		d.metrics.IncUnhealthy(job.endpoint.ID.String())
		d.logg.Warn(d.logg.WithField(ctx, "consecutive_failures", count), "webhook endpoint unhealthy")
	}
}

func truncate(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max]
}
