package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PGRepo is the Postgres Repo. Results live in a JSONB column.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, name, email, target_role, experience_level, original_filename, blob_name,
       content_type, size_bytes, status, progress, estimated_time_remaining, error_code, error_message,
       results, created_at, updated_at, started_at, completed_at`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
	id, name, email, target_role, experience_level, original_filename, blob_name,
	content_type, size_bytes, status, progress, estimated_time_remaining, results, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	results, err := marshalJSONB(analysis.Results)
	if err != nil {
		return err
	}
	updatedAt := analysis.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = analysis.CreatedAt
	}
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.Name,
		analysis.Email,
		analysis.TargetRole,
		analysis.ExperienceLevel,
		analysis.OriginalFilename,
		analysis.BlobName,
		analysis.ContentType,
		analysis.SizeBytes,
		analysis.Status,
		analysis.Progress,
		analysis.EstimatedTimeRemaining,
		results,
		analysis.CreatedAt,
		updatedAt,
	)
	return err
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	query := `SELECT ` + analysisColumns + `
FROM analyses
WHERE id = $1
LIMIT 1`
	a, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return a, err
}

// UpdateProgress sets progress and ETA while the analysis is processing.
func (r *PGRepo) UpdateProgress(ctx context.Context, analysisID string, progress float64, etaSeconds int) error {
	const query = `
UPDATE analyses
SET progress = $2, estimated_time_remaining = $3, started_at = COALESCE(started_at, now()), updated_at = now()
WHERE id = $1 AND status = $4`
	err := r.execOne(ctx, query, analysisID, progress, etaSeconds, StatusProcessing)
	if errors.Is(err, ErrNotFound) {
		// A finished analysis is not an error here, a missing one is.
		return r.ensureExists(ctx, analysisID)
	}
	return err
}

// Complete stores the results and marks the analysis completed.
func (r *PGRepo) Complete(ctx context.Context, analysisID string, results map[string]any, completedAt time.Time) error {
	const query = `
UPDATE analyses
SET status = $2, progress = 1, estimated_time_remaining = 0, error_code = NULL, error_message = NULL,
    results = $3, completed_at = $4, updated_at = now()
WHERE id = $1`
	payload, err := marshalJSONB(results)
	if err != nil {
		return err
	}
	return r.execOne(ctx, query, analysisID, StatusCompleted, payload, completedAt)
}

// Fail marks the analysis failed with a code and message.
func (r *PGRepo) Fail(ctx context.Context, analysisID, code, message string, failedAt time.Time) error {
	const query = `
UPDATE analyses
SET status = $2, estimated_time_remaining = 0, error_code = $3, error_message = $4,
    completed_at = $5, updated_at = now()
WHERE id = $1`
	return r.execOne(ctx, query, analysisID, StatusFailed, code, message, failedAt)
}

// List returns analyses newest first.
func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]Analysis, error) {
	filter = filter.normalized()

	var where []string
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Email != "" {
		args = append(args, strings.ToLower(filter.Email))
		where = append(where, "lower(email) = $"+strconv.Itoa(len(args)))
	}

	var b strings.Builder
	b.WriteString("SELECT " + analysisColumns + "\nFROM analyses")
	if len(where) > 0 {
		b.WriteString("\nWHERE " + strings.Join(where, " AND "))
	}
	args = append(args, filter.Limit, filter.Offset)
	fmt.Fprintf(&b, "\nORDER BY created_at DESC, id DESC\nLIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.query(ctx, b.String(), args...)
}

// Delete removes the analysis row.
func (r *PGRepo) Delete(ctx context.Context, analysisID string) error {
	return r.execOne(ctx, `DELETE FROM analyses WHERE id = $1`, analysisID)
}

// ListStale returns processing analyses last updated before the cutoff, oldest first.
func (r *PGRepo) ListStale(ctx context.Context, before time.Time) ([]Analysis, error) {
	query := `SELECT ` + analysisColumns + `
FROM analyses
WHERE status = $1 AND updated_at < $2
ORDER BY updated_at ASC`
	return r.query(ctx, query, StatusProcessing, before)
}

// execOne runs a statement that targets a single row and reports
// ErrNotFound when it matched none.
func (r *PGRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) query(ctx context.Context, query string, args ...any) ([]Analysis, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) ensureExists(ctx context.Context, analysisID string) error {
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM analyses WHERE id = $1)`, analysisID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var (
		a                       Analysis
		errorCode, errorMessage sql.NullString
		results                 []byte
		startedAt, completedAt  sql.NullTime
	)
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.TargetRole,
		&a.ExperienceLevel,
		&a.OriginalFilename,
		&a.BlobName,
		&a.ContentType,
		&a.SizeBytes,
		&a.Status,
		&a.Progress,
		&a.EstimatedTimeRemaining,
		&errorCode,
		&errorMessage,
		&results,
		&a.CreatedAt,
		&a.UpdatedAt,
		&startedAt,
		&completedAt,
	)
	if err != nil {
		return Analysis{}, err
	}
	a.ErrorCode = errorCode.String
	a.ErrorMessage = errorMessage.String
	if len(results) > 0 {
		var parsed map[string]any
		if err := json.Unmarshal(results, &parsed); err == nil && len(parsed) > 0 {
			a.Results = parsed
		}
	}
	a.StartedAt = timePtr(startedAt)
	a.CompletedAt = timePtr(completedAt)
	return a, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func marshalJSONB(value map[string]any) ([]byte, error) {
	if value == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(value)
}
