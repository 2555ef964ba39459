// Package metrics keeps process-local counters and an analysis duration
// histogram and serves them in the Prometheus text exposition format.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

type counter struct {
	name string
	help string
	v    atomic.Uint64
}

func (c *counter) inc() { c.v.Add(1) }

// registry is rendered in declaration order.
var registry []*counter

func newCounter(name, help string) *counter {
	c := &counter{name: name, help: help}
	registry = append(registry, c)
	return c
}

var (
	uploads          = newCounter("cv_uploads_total", "Total accepted resume uploads")
	uploadsRejected  = newCounter("cv_uploads_rejected_total", "Total rejected resume uploads")
	started          = newCounter("analysis_started_total", "Total analyses started")
	completed        = newCounter("analysis_completed_total", "Total analyses completed")
	failed           = newCounter("analysis_failed_total", "Total analyses failed")
	fallback         = newCounter("analysis_fallback_total", "Total analyses completed with the fallback result")
	docIntelFailed   = newCounter("docintel_failed_total", "Total document intelligence extraction failures")
	notifyFailed     = newCounter("notify_failed_total", "Total completion emails that could not be sent")
	rateLimited      = newCounter("http_rate_limited_total", "Total requests rejected by the rate limiter")
	llmRetries       = newCounter("llm_retries_total", "Total model calls repeated after a transient failure")
	jobsReceived     = newCounter("analysis_jobs_received_total", "Total queue messages received")
	jobsDropped      = newCounter("analysis_jobs_deleted_unrecoverable_total", "Total queue messages dropped as unrecoverable")
	jobsFailed       = newCounter("analysis_jobs_failed_total", "Total queue messages that failed processing")
	jobsCompleted    = newCounter("analysis_jobs_completed_total", "Total queue messages processed")
	analysisDuration = newHistogram("analysis_duration_ms", "Analysis duration in milliseconds",
		[]float64{1000, 2500, 5000, 10000, 20000, 30000, 60000, 120000, 300000})
)

func IncUploads()           { uploads.inc() }
func IncUploadsRejected()   { uploadsRejected.inc() }
func IncAnalysisStarted()   { started.inc() }
func IncAnalysisCompleted() { completed.inc() }
func IncAnalysisFailed()    { failed.inc() }

// IncAnalysisFallback counts analyses completed with the neutral fallback result.
func IncAnalysisFallback() { fallback.inc() }

func IncDocIntelFailed() { docIntelFailed.inc() }
func IncNotifyFailed()   { notifyFailed.inc() }
func IncRateLimited()    { rateLimited.inc() }
func IncLLMRetries()     { llmRetries.inc() }

// Queue consumer counters.
func IncAnalysisJobsReceived()             { jobsReceived.inc() }
func IncAnalysisJobsDeletedUnrecoverable() { jobsDropped.inc() }
func IncAnalysisJobsFailed()               { jobsFailed.inc() }
func IncAnalysisJobsCompleted()            { jobsCompleted.inc() }

func ObserveAnalysisDurationMs(ms float64) {
	analysisDuration.observe(max(ms, 0))
}

func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render returns every metric in Prometheus text format.
func Render() string {
	var b strings.Builder
	for _, c := range registry {
		header(&b, c.name, c.help, "counter")
		fmt.Fprintf(&b, "%s %d\n", c.name, c.v.Load())
	}
	analysisDuration.write(&b)
	return b.String()
}

type histogram struct {
	name   string
	help   string
	bounds []float64

	mu     sync.Mutex
	counts []uint64 // per bound, not cumulative
	sum    float64
	total  uint64
}

func newHistogram(name, help string, bounds []float64) *histogram {
	return &histogram{name: name, help: help, bounds: bounds, counts: make([]uint64, len(bounds))}
}

func (h *histogram) observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.total++
	h.sum += v
	for i, bound := range h.bounds {
		if v <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) write(w io.Writer) {
	h.mu.Lock()
	counts := append([]uint64(nil), h.counts...)
	sum, total := h.sum, h.total
	h.mu.Unlock()

	header(w, h.name, h.help, "histogram")
	var running uint64
	for i, bound := range h.bounds {
		running += counts[i]
		fmt.Fprintf(w, "%s_bucket{le=%q} %d\n", h.name, number(bound), running)
	}
	fmt.Fprintf(w, "%s_bucket{le=\"+Inf\"} %d\n", h.name, total)
	fmt.Fprintf(w, "%s_sum %s\n", h.name, number(sum))
	fmt.Fprintf(w, "%s_count %d\n", h.name, total)
}

func header(w io.Writer, name, help, kind string) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, kind)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
