package analyses

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Analysis
	now  func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID: make(map[string]Analysis),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create stores the analysis.
func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if analysis.UpdatedAt.IsZero() {
		analysis.UpdatedAt = analysis.CreatedAt
	}
	r.byID[analysis.ID] = cloneAnalysis(analysis)
	return nil
}

// GetByID returns an analysis by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return cloneAnalysis(analysis), nil
}

// UpdateProgress sets progress and ETA. Finished records are left untouched.
func (r *MemoryRepo) UpdateProgress(ctx context.Context, analysisID string, progress float64, etaSeconds int) error {
	return r.update(ctx, analysisID, func(a *Analysis, now time.Time) {
		if a.Status != StatusProcessing {
			return
		}
		a.Progress = progress
		a.EstimatedTimeRemaining = etaSeconds
		if a.StartedAt == nil {
			a.StartedAt = &now
		}
		a.UpdatedAt = now
	})
}

// Complete stores the results and marks the analysis completed.
func (r *MemoryRepo) Complete(ctx context.Context, analysisID string, results map[string]any, completedAt time.Time) error {
	return r.update(ctx, analysisID, func(a *Analysis, now time.Time) {
		a.Status = StatusCompleted
		a.Progress = 1
		a.EstimatedTimeRemaining = 0
		a.ErrorCode = ""
		a.ErrorMessage = ""
		a.Results = results
		a.CompletedAt = &completedAt
		a.UpdatedAt = now
	})
}

// Fail marks the analysis failed with a code and message.
func (r *MemoryRepo) Fail(ctx context.Context, analysisID, code, message string, failedAt time.Time) error {
	return r.update(ctx, analysisID, func(a *Analysis, now time.Time) {
		a.Status = StatusFailed
		a.EstimatedTimeRemaining = 0
		a.ErrorCode = code
		a.ErrorMessage = message
		a.CompletedAt = &failedAt
		a.UpdatedAt = now
	})
}

func (r *MemoryRepo) update(ctx context.Context, analysisID string, fn func(*Analysis, time.Time)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return ErrNotFound
	}
	fn(&analysis, r.now())
	r.byID[analysisID] = analysis
	return nil
}

// List returns analyses newest first, with limit/offset.
func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter = filter.normalized()

	r.mu.RLock()
	matched := make([]Analysis, 0, len(r.byID))
	for _, a := range r.byID {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Email != "" && !strings.EqualFold(a.Email, filter.Email) {
			continue
		}
		matched = append(matched, cloneAnalysis(a))
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return []Analysis{}, nil
	}
	end := len(matched)
	if filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return matched[filter.Offset:end], nil
}

// Delete removes the analysis.
func (r *MemoryRepo) Delete(ctx context.Context, analysisID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[analysisID]; !ok {
		return ErrNotFound
	}
	delete(r.byID, analysisID)
	return nil
}

// ListStale returns processing analyses last updated before the cutoff, oldest first.
func (r *MemoryRepo) ListStale(ctx context.Context, before time.Time) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	stale := []Analysis{}
	for _, a := range r.byID {
		if a.Status == StatusProcessing && a.UpdatedAt.Before(before) {
			stale = append(stale, cloneAnalysis(a))
		}
	}
	r.mu.RUnlock()
	sort.Slice(stale, func(i, j int) bool { return stale[i].UpdatedAt.Before(stale[j].UpdatedAt) })
	return stale, nil
}

// cloneAnalysis copies the top level of Results so callers cannot mutate
// stored state through the map.
func cloneAnalysis(a Analysis) Analysis {
	if a.Results != nil {
		results := make(map[string]any, len(a.Results))
		for k, v := range a.Results {
			results[k] = v
		}
		a.Results = results
	}
	return a
}
