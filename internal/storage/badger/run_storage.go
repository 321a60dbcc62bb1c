package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/shaderstrip/internal/interfaces"
	"github.com/ternarybob/shaderstrip/internal/models"
)

// latestPrefix keys the per-stage pointer to the newest completed run.
// Stored as raw badger entries next to the badgerhold records.
const latestPrefix = "shaderstrip:latest:"

// RunStorage implements interfaces.RunStorage for Badger
type RunStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewRunStorage creates a new RunStorage instance
func NewRunStorage(db *BadgerDB, logger arbor.ILogger) interfaces.RunStorage {
	return &RunStorage{
		db:     db,
		logger: logger,
	}
}

func latestKey(stage models.BuildStage) []byte {
	return []byte(latestPrefix + string(stage))
}

// SaveRun upserts the record and advances the stage's latest pointer when the
// record completed no earlier than the current latest run
func (s *RunStorage) SaveRun(ctx context.Context, run *models.RunRecord) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run record requires an ID")
	}

	if err := s.db.Store().Upsert(run.ID, run); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	current, err := s.LatestRun(ctx, run.Stage)
	switch {
	case errors.Is(err, interfaces.ErrRunNotFound):
	case err != nil:
		return err
	case current.ID != run.ID && current.CompletedAt.After(run.CompletedAt):
		return nil
	}

	err = s.db.Store().Badger().Update(func(txn *badger.Txn) error {
		return txn.Set(latestKey(run.Stage), []byte(run.ID))
	})
	if err != nil {
		return fmt.Errorf("failed to update latest run pointer: %w", err)
	}

	s.logger.Debug().
		Str("run_id", run.ID).
		Str("stage", string(run.Stage)).
		Msg("Run history saved")
	return nil
}

// GetRun retrieves a run by ID
func (s *RunStorage) GetRun(ctx context.Context, id string) (*models.RunRecord, error) {
	var run models.RunRecord
	err := s.db.Store().Get(id, &run)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return &run, nil
}

// LatestRun follows the stage pointer to the newest completed run
func (s *RunStorage) LatestRun(ctx context.Context, stage models.BuildStage) (*models.RunRecord, error) {
	var id string
	err := s.db.Store().Badger().View(func(txn *badger.Txn) error {
		item, err := txn.Get(latestKey(stage))
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		id = string(value)
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, interfaces.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest run pointer: %w", err)
	}
	return s.GetRun(ctx, id)
}

// ListRuns returns runs newest first, optionally filtered by stage
func (s *RunStorage) ListRuns(ctx context.Context, stage models.BuildStage, limit int) ([]*models.RunRecord, error) {
	var query *badgerhold.Query
	if stage != "" {
		query = badgerhold.Where("Stage").Eq(stage)
	} else {
		query = badgerhold.Where("ID").Ne("")
	}
	query = query.SortBy("CompletedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var runs []models.RunRecord
	if err := s.db.Store().Find(&runs, query); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	result := make([]*models.RunRecord, len(runs))
	for i := range runs {
		result[i] = &runs[i]
	}
	return result, nil
}

// DeleteAll removes every run record and latest pointer
func (s *RunStorage) DeleteAll(ctx context.Context) error {
	if err := s.db.Store().DeleteMatching(&models.RunRecord{}, nil); err != nil {
		return fmt.Errorf("failed to delete runs: %w", err)
	}
	if err := s.db.Store().Badger().DropPrefix([]byte(latestPrefix)); err != nil {
		return fmt.Errorf("failed to drop latest run pointers: %w", err)
	}
	s.logger.Debug().Msg("Run history cleared")
	return nil
}
