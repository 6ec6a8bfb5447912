package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/getclientflow/clientflow-backend/pkg/logger"
)

// OverdueSweeper flips past-due invoices and notifies tenant endpoints.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, asOf time.Time) (int, error)
}

// InvoiceOverdueJob marks sent invoices past their due date as overdue.
type InvoiceOverdueJob struct {
	invoices OverdueSweeper
	logg     *logger.Logger
}

// NewInvoiceOverdueJob builds the overdue sweep job.
func NewInvoiceOverdueJob(invoices OverdueSweeper, logg *logger.Logger) (*InvoiceOverdueJob, error) {
	if invoices == nil {
		return nil, fmt.Errorf("invoices service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &InvoiceOverdueJob{invoices: invoices, logg: logg}, nil
}

// Name identifies the job in logs and metrics.
func (j *InvoiceOverdueJob) Name() string { return "invoice-overdue-sweep" }

// Run executes one sweep.
func (j *InvoiceOverdueJob) Run(ctx context.Context) error {
	flipped, err := j.invoices.SweepOverdue(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sweep overdue invoices: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "invoices_flipped", flipped), "overdue sweep complete")
	return nil
}
