package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"cv-analyzer/internal/shared/server/middleware"
	"cv-analyzer/internal/uploads"
)

type uploadFields struct {
	name, email, role, level string
	fileName                 string
	content                  []byte
}

func defaultUpload() uploadFields {
	return uploadFields{
		name:     "Jane Doe",
		email:    "jane@example.com",
		role:     "Backend Engineer",
		level:    "senior",
		fileName: "cv.pdf",
		content:  pdfBody,
	}
}

func setupRouter(t *testing.T) (*gin.Engine, *testEnv) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := uploads.RegisterValidators(); err != nil {
		t.Fatalf("register validators: %v", err)
	}
	env := newTestEnv(t, &stubLLM{responses: []string{validFeedback}})
	env.svc.DocIntel = &stubDocIntel{data: sampleResume()}

	router := gin.New()
	router.Use(middleware.RequestID())
	h := NewHandler(env.svc, 0)
	h.RegisterRoutes(router.Group("/api"))
	return router, env
}

func multipartRequest(t *testing.T, f uploadFields) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"name":             f.name,
		"email":            f.email,
		"target_role":      f.role,
		"experience_level": f.level,
	} {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if f.fileName != "" {
		part, err := w.CreateFormFile("file", f.fileName)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(f.content); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/cv/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
	return out
}

func assertError(t *testing.T, resp *httptest.ResponseRecorder, status int, code string) map[string]any {
	t.Helper()
	if resp.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, resp.Code, resp.Body.String())
	}
	body := decodeBody(t, resp)
	if body["error"] != true || body["code"] != code {
		t.Fatalf("expected error code %s, got %v", code, body)
	}
	return body
}

func uploadAndProcess(t *testing.T, router *gin.Engine, env *testEnv) string {
	t.Helper()
	resp := serve(router, multipartRequest(t, defaultUpload()))
	if resp.Code != http.StatusAccepted {
		t.Fatalf("upload: expected 202, got %d: %s", resp.Code, resp.Body.String())
	}
	id := decodeBody(t, resp)["analysis_id"].(string)
	if err := env.svc.ProcessAnalysis(context.Background(), id); err != nil {
		t.Fatalf("process: %v", err)
	}
	return id
}

func TestUploadAccepted(t *testing.T) {
	router, env := setupRouter(t)

	resp := serve(router, multipartRequest(t, defaultUpload()))

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}
	body := decodeBody(t, resp)
	if body["status"] != StatusProcessing || body["estimated_time_seconds"] != float64(30) {
		t.Fatalf("unexpected body: %v", body)
	}
	id, _ := body["analysis_id"].(string)
	if id == "" {
		t.Fatalf("expected analysis id")
	}
	if len(env.queue.messages) != 1 || env.queue.messages[0].AnalysisID != id {
		t.Fatalf("expected dispatch for %s", id)
	}
	if env.queue.messages[0].RequestID == "" {
		t.Fatalf("expected request id carried into the message")
	}
}

func TestUploadRejectsBadExtension(t *testing.T) {
	router, env := setupRouter(t)
	f := defaultUpload()
	f.fileName = "cv.txt"
	f.content = []byte("plain text")

	resp := serve(router, multipartRequest(t, f))

	body := assertError(t, resp, http.StatusBadRequest, ErrorCodeValidation)
	if body["message"] != uploads.InvalidFormatMessage {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if len(env.queue.messages) != 0 {
		t.Fatalf("expected no dispatch")
	}
}

func TestUploadRequiresFields(t *testing.T) {
	router, _ := setupRouter(t)
	f := defaultUpload()
	f.email = "not-an-email"

	resp := serve(router, multipartRequest(t, f))

	body := assertError(t, resp, http.StatusBadRequest, ErrorCodeValidation)
	if body["message"] != "email must be a valid email address" {
		t.Fatalf("unexpected message %v", body["message"])
	}

	f = defaultUpload()
	f.fileName = ""
	resp = serve(router, multipartRequest(t, f))
	body = assertError(t, resp, http.StatusBadRequest, ErrorCodeValidation)
	if body["message"] != "file is required" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestUploadTooLarge(t *testing.T) {
	router, env := setupRouter(t)
	env.svc.Policy = uploads.NewPolicy(8)

	resp := serve(router, multipartRequest(t, defaultUpload()))

	assertError(t, resp, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE")
}

func TestUploadQueueFullReturnsServiceBusy(t *testing.T) {
	router, env := setupRouter(t)
	env.queue.err = context.DeadlineExceeded

	resp := serve(router, multipartRequest(t, defaultUpload()))

	assertError(t, resp, http.StatusServiceUnavailable, "SERVICE_BUSY")
}

func TestStatusReportsProgress(t *testing.T) {
	router, env := setupRouter(t)
	id := uploadAndProcess(t, router, env)

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/cv/"+id+"/status", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["status"] != StatusCompleted || body["progress"] != float64(1) || body["estimated_time_remaining"] != float64(0) {
		t.Fatalf("unexpected status body: %v", body)
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("completed status must not carry error")
	}
}

func TestStatusIncludesFailure(t *testing.T) {
	router, env := setupRouter(t)
	a := env.upload(t, "cv.pdf", pdfBody)
	_ = env.repo.Fail(context.Background(), a.ID, ErrorCodeStorage, "blob missing", time.Now())

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/cv/"+a.ID+"/status", nil))

	body := decodeBody(t, resp)
	if body["status"] != StatusFailed || body["error"] != "blob missing" || body["error_code"] != ErrorCodeStorage {
		t.Fatalf("unexpected failed status body: %v", body)
	}
}

func TestStatusPollLimited(t *testing.T) {
	router, env := setupRouter(t)
	a := env.upload(t, "cv.pdf", pdfBody)

	first := serve(router, httptest.NewRequest(http.MethodGet, "/api/cv/"+a.ID+"/status", nil))
	second := serve(router, httptest.NewRequest(http.MethodGet, "/api/cv/"+a.ID+"/status", nil))

	if first.Code != http.StatusOK {
		t.Fatalf("expected first poll 200, got %d", first.Code)
	}
	assertError(t, second, http.StatusTooManyRequests, "RATE_LIMITED")
	if second.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After 1, got %q", second.Header().Get("Retry-After"))
	}
}

func TestStatusUnknownID(t *testing.T) {
	router, _ := setupRouter(t)

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/cv/missing/status", nil))

	assertError(t, resp, http.StatusNotFound, "NOT_FOUND")
}

// uuidColumnRepo fails lookups for ids a uuid column cannot hold, the way
// Postgres reports SQLSTATE 22P02.
type uuidColumnRepo struct {
	Repo
}

func (r uuidColumnRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	if len(analysisID) != 36 {
		return Analysis{}, errors.New(`invalid input syntax for type uuid: "` + analysisID + `"`)
	}
	return r.Repo.GetByID(ctx, analysisID)
}

func TestMalformedIDIsNotFound(t *testing.T) {
	router, env := setupRouter(t)
	env.svc.Repo = uuidColumnRepo{Repo: env.repo}

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/cv/not-a-uuid/status", nil),
		httptest.NewRequest(http.MethodGet, "/api/cv/not-a-uuid", nil),
		httptest.NewRequest(http.MethodGet, "/api/cv/not-a-uuid/report", nil),
		httptest.NewRequest(http.MethodDelete, "/api/cv/not-a-uuid", nil),
	} {
		assertError(t, serve(router, req), http.StatusNotFound, "NOT_FOUND")
	}
}

func TestGetResultWhileProcessing(t *testing.T) {
	router, env := setupRouter(t)
	a := env.upload(t, "cv.pdf", pdfBody)

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/cv/"+a.ID, nil))

	body := assertError(t, resp, http.StatusConflict, "NOT_READY")
	details := body["details"].(map[string]any)
	if details["status"] != StatusProcessing {
		t.Fatalf("expected processing details, got %v", details)
	}
}

func TestGetResultFailed(t *testing.T) {
	router, env := setupRouter(t)
	a := env.upload(t, "cv.pdf", pdfBody)
	_ = env.repo.Fail(context.Background(), a.ID, ErrorCodeLLMTimeout, "deadline exceeded", time.Now())

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/cv/"+a.ID, nil))

	body := assertError(t, resp, http.StatusConflict, "ANALYSIS_FAILED")
	if body["message"] != "Analysis failed: deadline exceeded" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestGetResultHidesDetailsByDefault(t *testing.T) {
	router, env := setupRouter(t)
	id := uploadAndProcess(t, router, env)

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/cv/"+id, nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["analysis_id"] != id || body["overall_score"] != float64(100) || body["role"] != "Backend Developer" {
		t.Fatalf("unexpected result body: %v", body)
	}
	if _, ok := body["structured_resume"]; ok {
		t.Fatalf("structured_resume should be hidden without details")
	}

	resp = serve(router, httptest.NewRequest(http.MethodGet, "/api/cv/"+id+"?details=true", nil))
	body = decodeBody(t, resp)
	if _, ok := body["structured_resume"]; !ok {
		t.Fatalf("expected structured_resume with details=true")
	}
	if _, ok := body["analysis_payload"]; !ok {
		t.Fatalf("expected analysis_payload with details=true")
	}
}

func TestReportDownload(t *testing.T) {
	router, env := setupRouter(t)
	id := uploadAndProcess(t, router, env)

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/cv/"+id+"/report", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("unexpected content type %q", got)
	}
	if !strings.Contains(resp.Header().Get("Content-Disposition"), "cv-analysis-"+id+".pdf") {
		t.Fatalf("unexpected disposition %q", resp.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected a pdf body")
	}
}

func TestListAndExport(t *testing.T) {
	router, env := setupRouter(t)
	id := uploadAndProcess(t, router, env)
	pending := env.upload(t, "cv.pdf", pdfBody)

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/cv?status=completed", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var items []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(items) != 1 || items[0]["analysis_id"] != id || items[0]["overall_score"] != float64(100) {
		t.Fatalf("unexpected list: %v", items)
	}

	resp = serve(router, httptest.NewRequest(http.MethodGet, "/api/cv", nil))
	items = nil
	_ = json.Unmarshal(resp.Body.Bytes(), &items)
	if len(items) != 2 {
		t.Fatalf("expected 2 analyses, got %d", len(items))
	}
	for _, item := range items {
		if item["analysis_id"] == pending.ID {
			if _, ok := item["overall_score"]; ok {
				t.Fatalf("pending analysis must not have a score")
			}
		}
	}

	resp = serve(router, httptest.NewRequest(http.MethodGet, "/api/cv/export", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != xlsxContentType {
		t.Fatalf("unexpected export content type %q", got)
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("PK")) {
		t.Fatalf("expected xlsx zip body")
	}
}

func TestListRejectsBadQuery(t *testing.T) {
	router, _ := setupRouter(t)

	assertError(t, serve(router, httptest.NewRequest(http.MethodGet, "/api/cv?status=queued", nil)), http.StatusBadRequest, ErrorCodeValidation)
	assertError(t, serve(router, httptest.NewRequest(http.MethodGet, "/api/cv?limit=-1", nil)), http.StatusBadRequest, ErrorCodeValidation)
}

func TestDeleteAnalysis(t *testing.T) {
	router, env := setupRouter(t)
	a := env.upload(t, "cv.pdf", pdfBody)

	resp := serve(router, httptest.NewRequest(http.MethodDelete, "/api/cv/"+a.ID, nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	resp = serve(router, httptest.NewRequest(http.MethodDelete, "/api/cv/"+a.ID, nil))
	assertError(t, resp, http.StatusNotFound, "NOT_FOUND")
}
