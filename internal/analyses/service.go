package analyses

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"cv-analyzer/internal/docintel"
	"cv-analyzer/internal/extract"
	"cv-analyzer/internal/llm"
	"cv-analyzer/internal/notify"
	"cv-analyzer/internal/queue"
	"cv-analyzer/internal/resume"
	"cv-analyzer/internal/roles"
	"cv-analyzer/internal/shared/metrics"
	"cv-analyzer/internal/shared/storage/object"
	"cv-analyzer/internal/shared/telemetry"
	"cv-analyzer/internal/shared/util"
	"cv-analyzer/internal/uploads"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	initialETASeconds      = 30
	defaultAnalysisTimeout = 5 * time.Minute
	staleAfter             = 10 * time.Minute
	persistTimeout         = 10 * time.Second
	presignTTL             = 15 * time.Minute
	sniffBytes             = 512

	llmTemperature = 0.3
	llmMaxTokens   = 4000
)

// DocumentAnalyzer turns a stored document into a structured résumé.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, doc docintel.Document) (resume.Data, error)
}

// Service contains business logic for analyses.
type Service struct {
	Repo     Repo
	Store    object.ObjectStore
	Queue    queue.Client
	LLM      llm.Client
	DocIntel DocumentAnalyzer
	Notifier notify.Notifier
	Policy   uploads.Policy

	// AnalysisTimeout bounds one run of the pipeline.
	AnalysisTimeout time.Duration

	now func() time.Time
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// Upload validates and stores the résumé, creates the analysis record and
// schedules processing.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Analysis, error) {
	policy := s.Policy
	if policy.MaxBytes <= 0 {
		policy = uploads.NewPolicy(0)
	}

	ext, err := policy.CheckName(in.FileName)
	if err != nil {
		metrics.IncUploadsRejected()
		return Analysis{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	fileName, err := util.SanitizeFileName(in.FileName)
	if err != nil {
		metrics.IncUploadsRejected()
		return Analysis{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if in.Body == nil {
		metrics.IncUploadsRejected()
		return Analysis{}, fmt.Errorf("%w: %w", ErrInvalidInput, uploads.ErrEmpty)
	}

	body := bufio.NewReaderSize(in.Body, sniffBytes)
	head, err := body.Peek(sniffBytes)
	if err != nil && !errors.Is(err, io.EOF) {
		return Analysis{}, fmt.Errorf("read upload: %w", err)
	}
	if err := policy.CheckContent(ext, in.Size, head); err != nil {
		metrics.IncUploadsRejected()
		return Analysis{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	id := uuid.NewString()
	blobName := id + ext
	contentType := uploads.ContentTypes[ext]
	written, err := s.Store.Put(ctx, blobName, contentType, io.LimitReader(body, policy.MaxBytes+1))
	if err != nil {
		return Analysis{}, fmt.Errorf("store upload: %w", err)
	}
	if written > policy.MaxBytes {
		s.deleteBlob(ctx, id, blobName)
		metrics.IncUploadsRejected()
		return Analysis{}, fmt.Errorf("%w: %w", ErrInvalidInput, uploads.ErrTooLarge)
	}

	now := s.clock()
	analysis := Analysis{
		ID:                     id,
		Name:                   in.Name,
		Email:                  in.Email,
		TargetRole:             in.TargetRole,
		ExperienceLevel:        in.ExperienceLevel,
		OriginalFilename:       fileName,
		BlobName:               blobName,
		ContentType:            contentType,
		SizeBytes:              written,
		Status:                 StatusProcessing,
		Progress:               0,
		EstimatedTimeRemaining: initialETASeconds,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		s.deleteBlob(ctx, id, blobName)
		return Analysis{}, fmt.Errorf("create analysis: %w", err)
	}
	metrics.IncUploads()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        RequestIDFromContext(ctx),
		"analysis_id":       analysis.ID,
		"email_hash":        util.HashKey(analysis.Email),
		"target_role":       analysis.TargetRole,
		"size_bytes":        written,
		"status":            StatusProcessing,
		"status_transition": "created->processing",
	})

	if err := s.dispatch(ctx, analysis.ID); err != nil {
		s.failAnalysis(ctx, analysis, withCode(ErrorCodeInternal, fmt.Errorf("dispatch: %w", err)), nil)
		return analysis, fmt.Errorf("%w: %w", ErrDispatch, err)
	}
	return analysis, nil
}

func (s *Service) dispatch(ctx context.Context, analysisID string) error {
	if s.Queue == nil {
		return errors.New("job queue not configured")
	}
	return s.Queue.Send(ctx, queue.NewMessage(analysisID, RequestIDFromContext(ctx), s.clock()))
}

// Status returns the record for progress reporting.
func (s *Service) Status(ctx context.Context, analysisID string) (Analysis, error) {
	if err := checkID(analysisID); err != nil {
		return Analysis{}, err
	}
	return s.Repo.GetByID(ctx, analysisID)
}

// checkID rejects ids Upload could never have issued. They are reported as
// ErrNotFound, since the Postgres uuid column would refuse them outright.
func checkID(analysisID string) error {
	if strings.TrimSpace(analysisID) == "" {
		return fmt.Errorf("%w: analysis id is required", ErrInvalidInput)
	}
	if _, err := uuid.Parse(analysisID); err != nil {
		return fmt.Errorf("%w: malformed id %.64q", ErrNotFound, analysisID)
	}
	return nil
}

// Get returns a completed analysis. Records still processing yield
// ErrNotReady and failed records ErrFailed, both alongside the record.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	analysis, err := s.Status(ctx, analysisID)
	if err != nil {
		return Analysis{}, err
	}
	switch analysis.Status {
	case StatusCompleted:
		return analysis, nil
	case StatusFailed:
		return analysis, ErrFailed
	default:
		return analysis, ErrNotReady
	}
}

// List returns analyses newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Analysis, error) {
	switch filter.Status {
	case "", StatusProcessing, StatusCompleted, StatusFailed:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	return s.Repo.List(ctx, filter)
}

// Delete removes the record and its stored file.
func (s *Service) Delete(ctx context.Context, analysisID string) error {
	analysis, err := s.Status(ctx, analysisID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, analysisID); err != nil {
		return err
	}
	s.deleteBlob(ctx, analysisID, analysis.BlobName)
	telemetry.Info("analysis.deleted", map[string]any{
		"request_id":  RequestIDFromContext(ctx),
		"analysis_id": analysisID,
		"status":      analysis.Status,
	})
	return nil
}

func (s *Service) deleteBlob(ctx context.Context, analysisID, blobName string) {
	if blobName == "" {
		return
	}
	if err := s.Store.Delete(ctx, blobName); err != nil && !errors.Is(err, object.ErrNotFound) {
		telemetry.Warn("analysis.blob_delete_failed", map[string]any{
			"analysis_id": analysisID,
			"blob_name":   blobName,
			"error":       err,
		})
	}
}

// ResumeStale re-dispatches records left processing by a previous run.
func (s *Service) ResumeStale(ctx context.Context) (int, error) {
	stale, err := s.Repo.ListStale(ctx, s.clock().Add(-staleAfter))
	if err != nil {
		return 0, fmt.Errorf("list stale analyses: %w", err)
	}
	resumed := 0
	for _, a := range stale {
		if err := s.dispatch(ctx, a.ID); err != nil {
			telemetry.Warn("analysis.resume_failed", map[string]any{"analysis_id": a.ID, "error": err})
			continue
		}
		resumed++
	}
	if resumed > 0 {
		telemetry.Info("analysis.resumed", map[string]any{"count": resumed})
	}
	return resumed, nil
}

// ProcessMessage runs the pipeline for a queue message.
func (s *Service) ProcessMessage(ctx context.Context, msg queue.Message) error {
	return s.ProcessAnalysis(WithRequestID(ctx, msg.RequestID), msg.AnalysisID)
}

// ProcessAnalysis runs the analysis pipeline for one record. Pipeline
// failures are stored on the record and return nil; the error result is
// reserved for lookups that may succeed on redelivery, and ErrNotFound.
func (s *Service) ProcessAnalysis(ctx context.Context, analysisID string) error {
	timeout := s.AnalysisTimeout
	if timeout <= 0 {
		timeout = defaultAnalysisTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := uuid.Parse(analysisID); err != nil {
		// Retrying a job for an id no upload produced cannot succeed.
		return fmt.Errorf("analysis lookup id=%.64q: %w", analysisID, ErrNotFound)
	}
	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return fmt.Errorf("analysis lookup id=%s: %w", analysisID, err)
	}
	if analysis.Status != StatusProcessing {
		telemetry.Info("analysis.skipped", map[string]any{
			"request_id":  RequestIDFromContext(ctx),
			"analysis_id": analysisID,
			"status":      analysis.Status,
		})
		return nil
	}

	startedAt := s.clock()
	defer func() {
		if r := recover(); r != nil {
			s.failAnalysis(ctx, analysis, withCode(ErrorCodeInternal, fmt.Errorf("panic: %v", r)), &startedAt)
		}
	}()
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.started", map[string]any{
		"request_id":  RequestIDFromContext(ctx),
		"analysis_id": analysis.ID,
	})

	if err := s.run(ctx, analysis, startedAt); err != nil {
		s.failAnalysis(ctx, analysis, err, &startedAt)
	}
	return nil
}

func (s *Service) run(ctx context.Context, analysis Analysis, startedAt time.Time) error {
	s.progress(ctx, analysis.ID, 0.1, 45)

	content, err := s.loadBlob(ctx, analysis.BlobName)
	if err != nil {
		return withCode(ErrorCodeStorage, fmt.Errorf("load blob %s: %w", analysis.BlobName, err))
	}
	data := s.extractResume(ctx, analysis, content)

	s.progress(ctx, analysis.ID, 0.3, 30)
	analyzer := roles.Select(analysis.TargetRole, analysis.ExperienceLevel)
	payload := analyzer.Payload(data)
	system, err := analyzer.SystemPrompt()
	if err != nil {
		return withCode(ErrorCodeInternal, fmt.Errorf("render system prompt: %w", err))
	}
	user, err := analyzer.UserPrompt(data)
	if err != nil {
		return withCode(ErrorCodeInternal, fmt.Errorf("render user prompt: %w", err))
	}

	s.progress(ctx, analysis.ID, 0.5, 25)
	feedback, isFallback, err := s.evaluate(ctx, analysis, analyzer.Level, system, user)
	if err != nil {
		return err
	}

	s.progress(ctx, analysis.ID, 0.8, 10)
	completedAt := s.clock()
	results, err := buildResults(feedback, completedAt, analyzer, data, payload, isFallback)
	if err != nil {
		return withCode(ErrorCodeInternal, fmt.Errorf("build results: %w", err))
	}

	pctx, cancel := persistContext(ctx)
	defer cancel()
	if err := s.Repo.Complete(pctx, analysis.ID, results, completedAt); err != nil {
		return withCode(ErrorCodeStorage, fmt.Errorf("save analysis result: %w", err))
	}
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        RequestIDFromContext(ctx),
		"analysis_id":       analysis.ID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"is_fallback":       isFallback,
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})

	s.notifyCompletion(pctx, analysis, analyzer.RoleTitle(), feedback.OverallScore)
	return nil
}

// progress records a pipeline stage. Write failures are logged only; the
// final status write decides the outcome.
func (s *Service) progress(ctx context.Context, analysisID string, value float64, eta int) {
	pctx, cancel := persistContext(ctx)
	defer cancel()
	if err := s.Repo.UpdateProgress(pctx, analysisID, value, eta); err != nil {
		telemetry.Warn("analysis.progress_failed", map[string]any{
			"request_id":  RequestIDFromContext(ctx),
			"analysis_id": analysisID,
			"progress":    value,
			"error":       err,
		})
	}
}

func (s *Service) loadBlob(ctx context.Context, blobName string) ([]byte, error) {
	body, err := s.Store.Open(ctx, blobName)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

// extractResume tries document intelligence, then local text extraction,
// then settles for a minimal résumé built from the form data.
func (s *Service) extractResume(ctx context.Context, analysis Analysis, content []byte) resume.Data {
	var cause error
	if s.DocIntel != nil {
		data, err := s.DocIntel.Analyze(ctx, s.docIntelSource(ctx, analysis, content))
		if err == nil {
			data.FillContact(analysis.Name, analysis.Email)
			return data
		}
		metrics.IncDocIntelFailed()
		telemetry.Warn("analysis.docintel_failed", map[string]any{
			"request_id":  RequestIDFromContext(ctx),
			"analysis_id": analysis.ID,
			"error":       err,
		})
		cause = err
	}

	text, err := extract.FromBytes(ctx, content, analysis.ContentType, analysis.OriginalFilename)
	if err == nil {
		data := resume.FromText(text, resume.MethodLocalText, s.clock())
		data.FillContact(analysis.Name, analysis.Email)
		return data
	}
	if cause == nil {
		cause = err
	}
	telemetry.Warn("analysis.extraction_failed", map[string]any{
		"request_id":  RequestIDFromContext(ctx),
		"analysis_id": analysis.ID,
		"error":       err,
	})
	return resume.Minimal(analysis.Name, analysis.Email, cause, s.clock())
}

func (s *Service) docIntelSource(ctx context.Context, analysis Analysis, content []byte) docintel.Document {
	if p, ok := s.Store.(object.Presigner); ok {
		url, err := p.PresignGet(ctx, analysis.BlobName, presignTTL)
		if err == nil {
			return docintel.Document{URL: url}
		}
		telemetry.Warn("analysis.presign_failed", map[string]any{"analysis_id": analysis.ID, "error": err})
	}
	return docintel.Document{Content: content}
}

// evaluate asks the model for feedback. Any model or parse error yields the
// fallback feedback, unless the analysis deadline itself has passed.
func (s *Service) evaluate(ctx context.Context, analysis Analysis, level, system, user string) (Feedback, bool, error) {
	var err error
	if s.LLM == nil {
		err = errors.New("llm client not configured")
	} else {
		client := newRetryingLLM(s.LLM, analysis.ID)
		raw, callErr := client.AnalyzeResume(ctx, llm.AnalyzeInput{
			System:      system,
			User:        user,
			Temperature: llmTemperature,
			MaxTokens:   llmMaxTokens,
		})
		if callErr == nil {
			feedback, parseErr := parseFeedback(raw, level)
			if parseErr == nil {
				return feedback, false, nil
			}
			err = fmt.Errorf("llm output invalid: %w", parseErr)
		} else {
			err = fmt.Errorf("llm analyze: %w", callErr)
		}
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Feedback{}, false, withCode(ErrorCodeLLMTimeout, err)
	}
	metrics.IncAnalysisFallback()
	telemetry.Warn("analysis.fallback", map[string]any{
		"request_id":  RequestIDFromContext(ctx),
		"analysis_id": analysis.ID,
		"error":       sanitizeError(err),
	})
	return fallbackFeedback(analysis.TargetRole, analysis.ExperienceLevel), true, nil
}

// maxStoredRawText bounds the raw résumé text kept in results.
const maxStoredRawText = 64 << 10

func buildResults(feedback Feedback, completedAt time.Time, analyzer *roles.Analyzer, data resume.Data, payload roles.Payload, isFallback bool) (map[string]any, error) {
	data.RawText = extract.Clip(data.RawText, maxStoredRawText)
	results, err := toMap(feedback)
	if err != nil {
		return nil, err
	}
	structured, err := toMap(data)
	if err != nil {
		return nil, err
	}
	payloadMap, err := toMap(payload)
	if err != nil {
		return nil, err
	}
	results["completed_at"] = completedAt.Format(time.RFC3339)
	results["role"] = analyzer.RoleTitle()
	results["experience_level"] = analyzer.Level
	results["structured_resume"] = structured
	results["analysis_payload"] = payloadMap
	results["is_fallback"] = isFallback
	return results, nil
}

func (s *Service) notifyCompletion(ctx context.Context, analysis Analysis, role string, score int) {
	if s.Notifier == nil {
		return
	}
	err := s.Notifier.NotifyCompletion(ctx, notify.Completion{
		To:           analysis.Email,
		Name:         analysis.Name,
		AnalysisID:   analysis.ID,
		Role:         role,
		OverallScore: score,
	})
	if err != nil {
		metrics.IncNotifyFailed()
		telemetry.Warn("analysis.notify_failed", map[string]any{
			"request_id":  RequestIDFromContext(ctx),
			"analysis_id": analysis.ID,
			"email_hash":  util.HashKey(analysis.Email),
			"error":       err,
		})
	}
}

func (s *Service) failAnalysis(ctx context.Context, analysis Analysis, err error, startedAt *time.Time) {
	code := classifyFailure(err)
	msg := sanitizeError(err)
	failedAt := s.clock()
	pctx, cancel := persistContext(ctx)
	defer cancel()
	if updateErr := s.Repo.Fail(pctx, analysis.ID, code, msg, failedAt); updateErr != nil {
		telemetry.Error("analysis.fail_update_failed", map[string]any{
			"analysis_id":  analysis.ID,
			"error":        updateErr,
			"original_err": msg,
		})
	}
	metrics.IncAnalysisFailed()
	if startedAt != nil {
		metrics.ObserveAnalysisDurationMs(durationMs(startedAt, &failedAt))
	}
	telemetry.Error("analysis.status", map[string]any{
		"request_id":        RequestIDFromContext(ctx),
		"analysis_id":       analysis.ID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error_code":        code,
		"error":             msg,
		"duration_ms":       durationMs(startedAt, &failedAt),
	})
}

// persistContext detaches record writes from the analysis deadline so a
// timed-out run can still record its outcome.
func persistContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}
