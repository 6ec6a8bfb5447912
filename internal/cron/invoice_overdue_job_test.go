package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/getclientflow/clientflow-backend/pkg/logger"
)

type fakeSweeper struct {
	flipped int
	err     error
	calls   int
}

func (f *fakeSweeper) SweepOverdue(ctx context.Context, asOf time.Time) (int, error) {
	f.calls++
	return f.flipped, f.err
}

func TestInvoiceOverdueJobRun(t *testing.T) {
	sweeper := &fakeSweeper{flipped: 3}
	job, err := NewInvoiceOverdueJob(sweeper, logger.New(logger.Options{ServiceName: "cron-test"}))
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "invoice-overdue-sweep" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if sweeper.calls != 1 {
		t.Fatalf("expected one sweep call, got %d", sweeper.calls)
	}
}

func TestInvoiceOverdueJobPropagatesError(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("db down")}
	job, err := NewInvoiceOverdueJob(sweeper, logger.New(logger.Options{ServiceName: "cron-test"}))
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error to propagate")
	}
}
