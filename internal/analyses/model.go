package analyses

import (
	"io"
	"time"
)

// Analysis is one uploaded résumé and the lifecycle of its evaluation.
type Analysis struct {
	ID                     string         `json:"analysis_id"`
	Name                   string         `json:"name"`
	Email                  string         `json:"email"`
	TargetRole             string         `json:"target_role"`
	ExperienceLevel        string         `json:"experience_level"`
	OriginalFilename       string         `json:"original_filename"`
	BlobName               string         `json:"blob_name"`
	ContentType            string         `json:"content_type"`
	SizeBytes              int64          `json:"size_bytes"`
	Status                 string         `json:"status"`
	Progress               float64        `json:"progress"`
	EstimatedTimeRemaining int            `json:"estimated_time_remaining"`
	ErrorCode              string         `json:"error_code,omitempty"`
	ErrorMessage           string         `json:"error,omitempty"`
	Results                map[string]any `json:"results,omitempty"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	StartedAt              *time.Time     `json:"started_at,omitempty"`
	CompletedAt            *time.Time     `json:"completed_at,omitempty"`
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	Status string
	Email  string
	Limit  int
	Offset int
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func (f ListFilter) normalized() ListFilter {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// UploadInput carries a validated upload form and the file body.
type UploadInput struct {
	Name            string
	Email           string
	TargetRole      string
	ExperienceLevel string
	FileName        string
	Size            int64
	Body            io.Reader
}
