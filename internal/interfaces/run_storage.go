package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/shaderstrip/internal/models"
)

// ErrRunNotFound is returned when a run record does not exist
var ErrRunNotFound = errors.New("run not found")

// RunStorage persists summaries of completed stripping runs
type RunStorage interface {
	// SaveRun inserts or replaces a run record
	SaveRun(ctx context.Context, run *models.RunRecord) error

	// GetRun retrieves a run by ID
	GetRun(ctx context.Context, id string) (*models.RunRecord, error)

	// LatestRun returns the most recently completed run for a build stage
	LatestRun(ctx context.Context, stage models.BuildStage) (*models.RunRecord, error)

	// ListRuns returns runs ordered by completion time, newest first.
	// An empty stage lists every stage; limit <= 0 means no limit.
	ListRuns(ctx context.Context, stage models.BuildStage, limit int) ([]*models.RunRecord, error)

	// DeleteAll removes every stored run
	DeleteAll(ctx context.Context) error
}
