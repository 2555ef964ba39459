package analyses

import (
	"context"
	"time"
)

// Repo defines persistence operations for analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	// UpdateProgress records pipeline progress for a record still processing.
	UpdateProgress(ctx context.Context, analysisID string, progress float64, etaSeconds int) error
	Complete(ctx context.Context, analysisID string, results map[string]any, completedAt time.Time) error
	Fail(ctx context.Context, analysisID, code, message string, failedAt time.Time) error
	List(ctx context.Context, filter ListFilter) ([]Analysis, error)
	Delete(ctx context.Context, analysisID string) error
	// ListStale returns processing records not updated since before.
	ListStale(ctx context.Context, before time.Time) ([]Analysis, error)
}
