package service

import (
	"context"
	"log/slog"
	"time"
)

// Recorder receives access workflow outcomes; metrics.Access satisfies it.
type Recorder interface {
	Validation(outcome string)
	Compensation(saga, outcome string)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) Validation(string)           {}
func (NopRecorder) Compensation(string, string) {}

const (
	SagaGrantExpiry  = "grant_expiry_deactivation"
	SagaUploadRevert = "upload_cleanup"
)

var compensationTimeout = 5 * time.Second

// compensate runs the second step of a two-step saga on a context that survives
// request cancellation, then logs and counts its outcome. The returned error is
// informational; callers keep reporting the first step's result.
func compensate(ctx context.Context, log *slog.Logger, rec Recorder, saga string, step func(context.Context) error, attrs ...any) error {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	err := step(cctx)
	fields := append([]any{"saga", saga}, attrs...)
	if err != nil {
		log.Error("compensation_failed", append(fields, "error", err.Error())...)
		rec.Compensation(saga, "failed")
		return err
	}
	log.Info("compensation_applied", fields...)
	rec.Compensation(saga, "ok")
	return nil
}
