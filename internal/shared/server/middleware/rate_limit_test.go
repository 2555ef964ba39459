package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)}
}

func okHandler(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }

func hit(r http.Handler, method, path string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(method, path, nil))
	return resp
}

func TestRateLimitAppliesRulePerRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	clock := newFakeClock()

	r := gin.New()
	r.Use(RateLimit(Throttle{
		Buckets: NewBuckets(clock.Now),
		Classify: func(c *gin.Context) string {
			if c.FullPath() == "/api/cv/:id/status" {
				return "poll"
			}
			return "upload"
		},
		Rules: map[string]Rule{
			"upload": {PerSecond: 0.5, Burst: 2},
			"poll":   {PerSecond: 5, Burst: 10},
		},
	}))
	r.GET("/api/cv/:id/status", okHandler)
	r.POST("/api/cv/upload", okHandler)

	for i := 0; i < 5; i++ {
		if resp := hit(r, http.MethodGet, "/api/cv/a1/status"); resp.Code != http.StatusOK {
			t.Fatalf("poll %d: expected 200, got %d", i+1, resp.Code)
		}
	}
	for i := 0; i < 2; i++ {
		if resp := hit(r, http.MethodPost, "/api/cv/upload"); resp.Code != http.StatusOK {
			t.Fatalf("upload %d: expected 200, got %d", i+1, resp.Code)
		}
	}
	resp := hit(r, http.MethodPost, "/api/cv/upload")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("third upload: expected 429, got %d", resp.Code)
	}
	if got := resp.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("expected Retry-After 2, got %q", got)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != "RATE_LIMITED" {
		t.Fatalf("unexpected body: %v", body)
	}
	details, _ := body["details"].(map[string]any)
	if details["retry_after_ms"] != float64(2000) {
		t.Fatalf("expected retry_after_ms 2000, got %v", details["retry_after_ms"])
	}
}

func TestRateLimitUnknownRulePassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(Throttle{
		Classify: func(*gin.Context) string { return "none" },
		Rules:    map[string]Rule{"default": {PerSecond: 1, Burst: 1}},
	}))
	r.OPTIONS("/api/cv", okHandler)

	for i := 0; i < 3; i++ {
		if resp := hit(r, http.MethodOptions, "/api/cv"); resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, resp.Code)
		}
	}
}

func TestBucketsRefill(t *testing.T) {
	clock := newFakeClock()
	b := NewBuckets(clock.Now)
	rule := Rule{PerSecond: 2, Burst: 1}

	if wait := b.Take("k", rule); wait != 0 {
		t.Fatalf("first take should pass, waited %v", wait)
	}
	if wait := b.Take("k", rule); wait != 500*time.Millisecond {
		t.Fatalf("expected 500ms wait, got %v", wait)
	}
	clock.now = clock.now.Add(500 * time.Millisecond)
	if wait := b.Take("k", rule); wait != 0 {
		t.Fatalf("bucket should have refilled, waited %v", wait)
	}
}

func TestBucketsSweepIdleClients(t *testing.T) {
	clock := newFakeClock()
	b := NewBuckets(clock.Now)
	rule := Rule{PerSecond: 1, Burst: 3}

	b.Take("a", rule)
	b.Take("b", rule)
	if b.Len() != 2 {
		t.Fatalf("expected 2 buckets, got %d", b.Len())
	}

	clock.now = clock.now.Add(bucketIdleTTL + time.Second)
	b.Take("c", rule)
	if b.Len() != 1 {
		t.Fatalf("expected idle buckets swept, got %d", b.Len())
	}
}
