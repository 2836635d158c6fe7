package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/errextract/internal/config"
	"github.com/JonMunkholm/errextract/internal/logging"
	"github.com/google/uuid"
)

// Service runs uploads through the pipeline. It bounds concurrent runs and
// records a summary of each one when a RunStore is configured.
type Service struct {
	limiter     *UploadLimiter
	runs        RunStore
	maxFileSize int64
	now         func() time.Time
}

// NewService creates a Service. runs may be nil to disable history.
func NewService(cfg config.UploadConfig, runs RunStore) *Service {
	return &Service{
		limiter:     NewUploadLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		runs:        runs,
		maxFileSize: cfg.MaxFileSize,
		now:         time.Now,
	}
}

// Process reads one uploaded file and returns its cleaned table. The run is
// synchronous; the caller waits for either the full result or an error.
func (s *Service) Process(ctx context.Context, fileName string, r io.Reader) (*Result, error) {
	runID := uuid.NewString()
	log := logging.WithFields(ctx, "run_id", runID, "file", fileName)

	if err := s.limiter.Acquire(ctx); err != nil {
		log.Warn("no processing slot available", "error", err)
		return nil, err
	}
	defer s.limiter.Release()

	start := time.Now()
	result := &Result{ID: runID, FileName: fileName}

	data, err := s.readUpload(r)
	if err != nil {
		return nil, s.finish(ctx, result, start, err)
	}

	table, cleaned, err := Process(fileName, bytes.NewReader(data))
	if table != nil {
		result.TotalRows = len(table.Rows)
	}
	if err != nil {
		return nil, s.finish(ctx, result, start, err)
	}

	result.Table = cleaned
	result.Dropped = result.TotalRows - cleaned.Len()
	if err := s.finish(ctx, result, start, nil); err != nil {
		return nil, err
	}
	return result, nil
}

// readUpload buffers the upload, refusing anything over the size limit.
func (s *Service) readUpload(r io.Reader) ([]byte, error) {
	if s.maxFileSize <= 0 {
		return io.ReadAll(r)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.maxFileSize)
	}
	return data, nil
}

// finish logs the outcome, records it in the history and returns err.
func (s *Service) finish(ctx context.Context, result *Result, start time.Time, err error) error {
	result.Duration = time.Since(start)
	log := logging.WithFields(ctx, "run_id", result.ID, "file", result.FileName)

	status := runStatus(err)
	switch status {
	case RunStatusOK:
		log.Info("processing completed",
			"total_rows", result.TotalRows,
			"kept", result.Kept(),
			"dropped", result.Dropped,
			"duration_ms", result.Duration.Milliseconds(),
		)
	case RunStatusRejected:
		log.Info("upload rejected", "code", MapError(err).Code, "error", err)
	default:
		log.Error("processing failed", "error", err)
	}

	s.recordRun(ctx, result, status, err)
	return err
}

func (s *Service) recordRun(ctx context.Context, result *Result, status string, err error) {
	if s.runs == nil {
		return
	}

	meta := RequestMetaFromContext(ctx)
	run := Run{
		ID:         result.ID,
		FileName:   result.FileName,
		Status:     status,
		TotalRows:  result.TotalRows,
		Kept:       result.Kept(),
		Dropped:    result.Dropped,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		DurationMs: result.Duration.Milliseconds(),
		CreatedAt:  s.now(),
	}
	if err != nil {
		run.Code = MapError(err).Code
	}

	// The request may already be cancelled; the summary is still worth keeping.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.runs.RecordRun(recordCtx, run); err != nil {
		logging.FromContext(ctx).Warn("failed to record processing run",
			"run_id", run.ID,
			"error", err,
		)
	}
}

// runStatus classifies a run outcome. Problems with the uploaded file are
// rejections; anything else is a failure.
func runStatus(err error) string {
	if err == nil {
		return RunStatusOK
	}

	var ife *InputFormatError
	switch {
	case IsSchemaError(err),
		errors.As(err, &ife),
		errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrFileTooLarge):
		return RunStatusRejected
	default:
		return RunStatusFailed
	}
}

// HistoryEnabled reports whether run summaries are being recorded.
func (s *Service) HistoryEnabled() bool {
	return s.runs != nil
}

// RecentRuns returns the newest run summaries.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if s.runs == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = 50
	}
	return s.runs.RecentRuns(ctx, limit)
}

// LimiterStatus returns the current processing slot usage.
func (s *Service) LimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForRuns blocks until all in-flight runs finish or ctx is done.
func (s *Service) WaitForRuns(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
