package analyses

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cv-analyzer/internal/report"
	"cv-analyzer/internal/shared/server/middleware"
	"cv-analyzer/internal/shared/server/respond"
	"cv-analyzer/internal/shared/util"
	"cv-analyzer/internal/uploads"
)

// multipartOverhead is allowed on top of the file limit for the other form
// fields and part headers.
const multipartOverhead = 1 << 20

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportPageSize  = maxListLimit
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
	polls          *middleware.Buckets
}

// statusPolls allows one status poll per client and analysis each second.
var statusPolls = middleware.Rule{PerSecond: 1, Burst: 1}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = uploads.DefaultMaxBytes
	}
	return &Handler{
		Svc:            svc,
		MaxUploadBytes: maxUploadBytes,
		polls:          middleware.NewBuckets(nil),
	}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	cv := rg.Group("/cv")
	cv.POST("/upload", h.upload)
	cv.GET("", h.list)
	cv.GET("/export", h.export)
	cv.GET("/:id", h.get)
	cv.GET("/:id/status", h.status)
	cv.GET("/:id/report", h.report)
	cv.DELETE("/:id", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+multipartOverhead)

	var form uploads.Form
	if err := c.ShouldBind(&form); err != nil {
		if isBodyTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", tooLargeMessage(h.MaxUploadBytes), nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, uploads.ValidationMessage(err), nil)
		return
	}
	form.Normalize()

	file, err := form.File.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file could not be read", nil)
		return
	}
	defer file.Close()

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	analysis, err := h.Svc.Upload(ctx, UploadInput{
		Name:            form.Name,
		Email:           form.Email,
		TargetRole:      form.TargetRole,
		ExperienceLevel: form.ExperienceLevel,
		FileName:        form.File.Filename,
		Size:            form.File.Size,
		Body:            file,
	})
	if analysis.ID != "" {
		c.Set(respond.KeyAnalysisID, analysis.ID)
	}
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", tooLargeMessage(h.MaxUploadBytes), nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, uploadErrorMessage(err), nil)
		case errors.Is(err, ErrDispatch):
			respond.Error(c, http.StatusServiceUnavailable, "SERVICE_BUSY", "The analysis queue is full. Please try again shortly.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "Failed to upload CV", nil)
		}
		return
	}

	c.Set(respond.KeyTransition, "created->processing")
	respond.JSON(c, http.StatusAccepted, gin.H{
		"analysis_id":            analysis.ID,
		"status":                 analysis.Status,
		"estimated_time_seconds": analysis.EstimatedTimeRemaining,
	})
}

func (h *Handler) status(c *gin.Context) {
	analysisID := c.Param("id")
	c.Set(respond.KeyAnalysisID, analysisID)
	if wait := h.polls.Take(c.ClientIP()+"|"+analysisID, statusPolls); wait > 0 {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		respond.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Status is polled too often. Please slow down.", nil)
		return
	}

	analysis, err := h.Svc.Status(c.Request.Context(), analysisID)
	if err != nil {
		h.lookupError(c, err)
		return
	}

	resp := gin.H{
		"analysis_id":              analysis.ID,
		"status":                   analysis.Status,
		"progress":                 analysis.Progress,
		"estimated_time_remaining": analysis.EstimatedTimeRemaining,
	}
	if analysis.Status == StatusFailed {
		resp["error"] = analysis.ErrorMessage
		resp["error_code"] = analysis.ErrorCode
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	analysisID := c.Param("id")
	c.Set(respond.KeyAnalysisID, analysisID)

	analysis, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		h.lookupError(c, err, analysis)
		return
	}

	details, _ := strconv.ParseBool(c.Query("details"))
	resp := make(gin.H, len(analysis.Results)+1)
	for k, v := range analysis.Results {
		if !details && (k == "structured_resume" || k == "analysis_payload") {
			continue
		}
		resp[k] = v
	}
	resp["analysis_id"] = analysis.ID
	respond.OK(c, resp)
}

func (h *Handler) report(c *gin.Context) {
	analysisID := c.Param("id")
	c.Set(respond.KeyAnalysisID, analysisID)

	analysis, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		h.lookupError(c, err, analysis)
		return
	}
	doc, err := reportDocument(analysis, time.Now().UTC())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "Failed to build report", nil)
		return
	}
	pdf, err := report.PDF(doc)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "Failed to build report", nil)
		return
	}
	respond.Attachment(c, "application/pdf", fmt.Sprintf("cv-analysis-%s.pdf", analysis.ID), pdf)
}

func (h *Handler) list(c *gin.Context) {
	filter, ok := listFilterFromQuery(c)
	if !ok {
		return
	}
	analyses, err := h.Svc.List(c.Request.Context(), filter)
	if err != nil {
		h.listError(c, err)
		return
	}

	resp := make([]gin.H, 0, len(analyses))
	for _, a := range analyses {
		item := gin.H{
			"analysis_id":      a.ID,
			"name":             a.Name,
			"email":            a.Email,
			"target_role":      a.TargetRole,
			"experience_level": a.ExperienceLevel,
			"status":           a.Status,
			"created_at":       a.CreatedAt,
		}
		if a.Status == StatusCompleted {
			if score, ok := a.Results["overall_score"]; ok {
				item["overall_score"] = score
			}
		}
		resp = append(resp, item)
	}
	respond.OK(c, resp)
}

func (h *Handler) export(c *gin.Context) {
	filter, ok := listFilterFromQuery(c)
	if !ok {
		return
	}
	filter.Limit = exportPageSize
	filter.Offset = 0

	var rows []report.Row
	for {
		page, err := h.Svc.List(c.Request.Context(), filter)
		if err != nil {
			h.listError(c, err)
			return
		}
		for _, a := range page {
			rows = append(rows, reportRow(a))
		}
		if len(page) < filter.Limit {
			break
		}
		filter.Offset += len(page)
	}

	book, err := report.XLSX(rows)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "Failed to build export", nil)
		return
	}
	respond.Attachment(c, xlsxContentType, "cv-analyses.xlsx", book)
}

func (h *Handler) delete(c *gin.Context) {
	analysisID := c.Param("id")
	c.Set(respond.KeyAnalysisID, analysisID)

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	if err := h.Svc.Delete(ctx, analysisID); err != nil {
		h.lookupError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) lookupError(c *gin.Context, err error, analysis ...Analysis) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "NOT_FOUND", "Analysis not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "analysis id is required", nil)
	case errors.Is(err, ErrNotReady):
		details := gin.H{}
		if len(analysis) > 0 {
			details["status"] = analysis[0].Status
			details["progress"] = analysis[0].Progress
		}
		respond.Error(c, http.StatusConflict, "NOT_READY", "Analysis is still processing", details)
	case errors.Is(err, ErrFailed):
		msg := "Analysis failed"
		if len(analysis) > 0 && analysis[0].ErrorMessage != "" {
			msg = "Analysis failed: " + analysis[0].ErrorMessage
		}
		respond.Error(c, http.StatusConflict, "ANALYSIS_FAILED", msg, nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "Failed to fetch analysis", nil)
	}
}

func (h *Handler) listError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidInput) {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "status must be processing, completed or failed", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "Failed to list analyses", nil)
}

func listFilterFromQuery(c *gin.Context) (ListFilter, bool) {
	filter := ListFilter{
		Status: strings.ToLower(strings.TrimSpace(c.Query("status"))),
		Email:  strings.TrimSpace(c.Query("email")),
		Limit:  defaultListLimit,
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, name+" must be a non-negative integer", nil)
			return ListFilter{}, false
		}
		*dst = v
	}
	return filter, true
}

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, uploads.ErrInvalidFormat):
		return uploads.InvalidFormatMessage
	case errors.Is(err, uploads.ErrContentSpoofed):
		return "File content does not match its extension. Supported formats: .pdf, .doc, .docx"
	case errors.Is(err, uploads.ErrEmpty):
		return "file is empty"
	case errors.Is(err, util.ErrInvalidFileName):
		return "file name is invalid"
	default:
		return "Invalid upload request"
	}
}

func tooLargeMessage(limit int64) string {
	return fmt.Sprintf("File too large. Maximum size is %d MB", limit>>20)
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

func reportDocument(a Analysis, generatedAt time.Time) (report.Document, error) {
	feedback, err := feedbackFromResults(a.Results)
	if err != nil {
		return report.Document{}, err
	}
	doc := report.Document{
		Name:                a.Name,
		Email:               a.Email,
		TargetRole:          a.TargetRole,
		ExperienceLevel:     a.ExperienceLevel,
		GeneratedAt:         generatedAt,
		OverallScore:        feedback.OverallScore,
		Summary:             feedback.Summary,
		PresentKeywords:     feedback.KeywordAnalysis.Present,
		MissingKeywords:     feedback.KeywordAnalysis.Missing,
		RecommendedKeywords: feedback.KeywordAnalysis.Recommended,
		CurrentLevel:        feedback.MatrixAlignment.CurrentLevel,
		TargetLevel:         feedback.MatrixAlignment.TargetLevel,
		GapAreas:            feedback.MatrixAlignment.GapAreas,
	}
	for _, cat := range feedback.Categories {
		doc.Categories = append(doc.Categories, report.Category{
			Name:        cat.Name,
			Score:       cat.Score,
			Feedback:    cat.Feedback,
			Suggestions: cat.Suggestions,
		})
	}
	return doc, nil
}

func reportRow(a Analysis) report.Row {
	row := report.Row{
		AnalysisID:      a.ID,
		Name:            a.Name,
		Email:           a.Email,
		TargetRole:      a.TargetRole,
		ExperienceLevel: a.ExperienceLevel,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
		CompletedAt:     a.CompletedAt,
	}
	if a.Status == StatusCompleted {
		if score, ok := a.Results["overall_score"].(float64); ok {
			v := int(score)
			row.OverallScore = &v
		}
	}
	return row
}
