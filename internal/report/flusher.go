package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shaderstrip/internal/common"
	"github.com/ternarybob/shaderstrip/internal/interfaces"
	"github.com/ternarybob/shaderstrip/internal/models"
)

// Flusher ties a run's aggregator to its durable outputs. Complete may be signalled
// any number of times; only the first call writes.
type Flusher struct {
	runID     string
	startedAt time.Time
	agg       *Aggregator
	writer    *Writer
	history   interfaces.RunStorage
	logger    arbor.ILogger

	once   sync.Once
	record *models.RunRecord
	err    error
}

// NewFlusher creates a Flusher. writer and history are optional.
func NewFlusher(agg *Aggregator, writer *Writer, history interfaces.RunStorage, logger arbor.ILogger) *Flusher {
	return &Flusher{
		runID:     common.NewRunID(),
		startedAt: time.Now(),
		agg:       agg,
		writer:    writer,
		history:   history,
		logger:    logger,
	}
}

// RunID returns the identifier of the run this flusher completes
func (f *Flusher) RunID() string {
	return f.runID
}

// Complete flushes the report exactly once and returns the run summary.
// Later calls return the result of the first.
func (f *Flusher) Complete(ctx context.Context) (*models.RunRecord, error) {
	f.once.Do(func() {
		f.record, f.err = f.flush(ctx)
	})
	return f.record, f.err
}

func (f *Flusher) flush(ctx context.Context) (*models.RunRecord, error) {
	summary := f.agg.Summary()
	record := &models.RunRecord{
		ID:          f.runID,
		Stage:       f.agg.Stage(),
		ReportName:  f.agg.Name(),
		StartedAt:   f.startedAt,
		CompletedAt: time.Now(),
		Shaders:     summary.Shaders,
		Processed:   summary.Processed,
		Passed:      summary.Passed,
		Stripped:    summary.Stripped,
	}

	if f.writer != nil {
		path, err := f.writer.Write(f.agg)
		if err != nil {
			return record, err
		}
		record.ReportPath = path
	}

	if f.history != nil {
		if err := f.history.SaveRun(ctx, record); err != nil {
			return record, fmt.Errorf("failed to save run history: %w", err)
		}
	}

	if f.logger != nil {
		f.logger.Info().
			Str("run_id", record.ID).
			Str("stage", record.Stage.String()).
			Int("shaders", record.Shaders).
			Int("processed", record.Processed).
			Int("passed", record.Passed).
			Int("stripped", record.Stripped).
			Msg("Stripping run completed")
	}

	return record, nil
}
