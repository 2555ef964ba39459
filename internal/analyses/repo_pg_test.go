package analyses

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func analysisRowColumns() []string {
	return []string{
		"id", "name", "email", "target_role", "experience_level", "original_filename", "blob_name",
		"content_type", "size_bytes", "status", "progress", "estimated_time_remaining", "error_code", "error_message",
		"results", "created_at", "updated_at", "started_at", "completed_at",
	}
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	analysis := Analysis{
		ID:                     "analysis-1",
		Name:                   "Jane Doe",
		Email:                  "jane@example.com",
		TargetRole:             "Backend Engineer",
		ExperienceLevel:        "senior",
		OriginalFilename:       "cv.pdf",
		BlobName:               "analysis-1.pdf",
		ContentType:            "application/pdf",
		SizeBytes:              1234,
		Status:                 StatusProcessing,
		EstimatedTimeRemaining: 30,
		CreatedAt:              now,
	}

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			analysis.ID,
			analysis.Name,
			analysis.Email,
			analysis.TargetRole,
			analysis.ExperienceLevel,
			analysis.OriginalFilename,
			analysis.BlobName,
			analysis.ContentType,
			analysis.SizeBytes,
			StatusProcessing,
			float64(0),
			30,
			[]byte("{}"),
			now,
			now,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), analysis); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	completed := created.Add(time.Minute)

	mock.ExpectQuery("SELECT (.+) FROM analyses").
		WithArgs("analysis-1").
		WillReturnRows(sqlmock.NewRows(analysisRowColumns()).AddRow(
			"analysis-1", "Jane", "jane@example.com", "Backend", "senior", "cv.pdf", "analysis-1.pdf",
			"application/pdf", int64(10), StatusCompleted, 1.0, 0, nil, nil,
			[]byte(`{"overall_score":80}`), created, completed, created, completed,
		))

	got, err := repo.GetByID(context.Background(), "analysis-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != StatusCompleted || got.Results["overall_score"] != float64(80) {
		t.Fatalf("unexpected analysis: %+v", got)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completed) || got.ErrorCode != "" {
		t.Fatalf("unexpected nullable fields: %+v", got)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM analyses").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateProgress(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE analyses").
		WithArgs("analysis-1", 0.5, 25, StatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateProgress(context.Background(), "analysis-1", 0.5, 25); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateProgressIgnoresFinishedRecords(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE analyses").
		WithArgs("analysis-1", 0.8, 10, StatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("analysis-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	if err := repo.UpdateProgress(context.Background(), "analysis-1", 0.8, 10); err != nil {
		t.Fatalf("expected nil for finished record, got %v", err)
	}

	mock.ExpectExec("UPDATE analyses").
		WithArgs("gone", 0.8, 10, StatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	if err := repo.UpdateProgress(context.Background(), "gone", 0.8, 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoCompleteAndFail(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2026, 2, 1, 9, 5, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE analyses").
		WithArgs("analysis-1", StatusCompleted, []byte(`{"overall_score":70}`), at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Complete(context.Background(), "analysis-1", map[string]any{"overall_score": 70}, at); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	mock.ExpectExec("UPDATE analyses").
		WithArgs("analysis-2", StatusFailed, ErrorCodeStorage, "blob missing", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Fail(context.Background(), "analysis-2", ErrorCodeStorage, "blob missing", at); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	mock.ExpectExec("UPDATE analyses").
		WithArgs("missing", StatusFailed, ErrorCodeInternal, "x", at).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Fail(context.Background(), "missing", ErrorCodeInternal, "x", at); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListBuildsFilters(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`WHERE status = \$1 AND lower\(email\) = \$2\s+ORDER BY created_at DESC, id DESC\s+LIMIT \$3 OFFSET \$4`).
		WithArgs(StatusCompleted, "jane@example.com", maxListLimit, 5).
		WillReturnRows(sqlmock.NewRows(analysisRowColumns()))

	got, err := repo.List(context.Background(), ListFilter{
		Status: StatusCompleted,
		Email:  "Jane@Example.com",
		Limit:  500,
		Offset: 5,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDelete(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM analyses").
		WithArgs("analysis-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM analyses").
		WithArgs("analysis-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "analysis-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(context.Background(), "analysis-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListStale(t *testing.T) {
	repo, mock := newMockRepo(t)
	cutoff := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE status = \$1 AND updated_at < \$2`).
		WithArgs(StatusProcessing, cutoff).
		WillReturnRows(sqlmock.NewRows(analysisRowColumns()).AddRow(
			"analysis-1", "Jane", "jane@example.com", "Backend", "mid", "cv.pdf", "analysis-1.pdf",
			"application/pdf", int64(10), StatusProcessing, 0.3, 30, nil, nil,
			[]byte(`{}`), cutoff.Add(-time.Hour), cutoff.Add(-time.Minute), nil, nil,
		))

	got, err := repo.ListStale(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("ListStale: %v", err)
	}
	if len(got) != 1 || got[0].Results != nil || got[0].StartedAt != nil {
		t.Fatalf("unexpected stale rows: %+v", got)
	}
}
