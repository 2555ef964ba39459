package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"cv-analyzer/internal/shared/metrics"
	"cv-analyzer/internal/shared/server/respond"
)

// bucketIdleTTL is how long an untouched client bucket is kept before a sweep drops it.
const bucketIdleTTL = 10 * time.Minute

// Rule is a token bucket holding at most Burst tokens and refilled at
// PerSecond tokens per second. A zero rule never limits.
type Rule struct {
	PerSecond float64
	Burst     int
}

// Throttle decides which Rule applies to a request. Classify returns the
// rule name; a name with no entry in Rules is not limited.
type Throttle struct {
	Rules    map[string]Rule
	Classify func(*gin.Context) string
	Buckets  *Buckets
}

// Buckets stores per-client token buckets.
type Buckets struct {
	mu        sync.Mutex
	byKey     map[string]*tokenBucket
	clock     func() time.Time
	lastSweep time.Time
}

type tokenBucket struct {
	tokens  float64
	updated time.Time
}

func NewBuckets(clock func() time.Time) *Buckets {
	if clock == nil {
		clock = time.Now
	}
	return &Buckets{byKey: map[string]*tokenBucket{}, clock: clock, lastSweep: clock()}
}

// RateLimit rejects requests over their rule with 429 RATE_LIMITED and a
// Retry-After header in whole seconds.
func RateLimit(t Throttle) gin.HandlerFunc {
	if t.Buckets == nil {
		t.Buckets = NewBuckets(nil)
	}
	return func(c *gin.Context) {
		name := ""
		if t.Classify != nil {
			name = strings.TrimSpace(t.Classify(c))
		}
		rule, ok := t.Rules[name]
		if !ok {
			c.Next()
			return
		}

		wait := t.Buckets.Take(c.ClientIP()+"|"+name, rule)
		if wait == 0 {
			c.Next()
			return
		}

		metrics.IncRateLimited()
		seconds := int(math.Ceil(wait.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
		respond.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please slow down.", gin.H{
			"retry_after_ms": wait.Milliseconds(),
		})
	}
}

// Take spends one token from key's bucket. It returns zero when the request
// may proceed, otherwise how long until a token is available.
func (b *Buckets) Take(key string, rule Rule) time.Duration {
	if b == nil || rule.PerSecond <= 0 || rule.Burst <= 0 {
		return 0
	}
	now := b.clock()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.sweepLocked(now)

	bucket := b.byKey[key]
	if bucket == nil {
		bucket = &tokenBucket{tokens: float64(rule.Burst), updated: now}
		b.byKey[key] = bucket
	}
	if elapsed := now.Sub(bucket.updated); elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed.Seconds()*rule.PerSecond)
		bucket.updated = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens--
		return 0
	}
	ms := math.Ceil((1 - bucket.tokens) / rule.PerSecond * 1000)
	return time.Duration(ms) * time.Millisecond
}

func (b *Buckets) sweepLocked(now time.Time) {
	if now.Sub(b.lastSweep) < bucketIdleTTL {
		return
	}
	for key, bucket := range b.byKey {
		if now.Sub(bucket.updated) >= bucketIdleTTL {
			delete(b.byKey, key)
		}
	}
	b.lastSweep = now
}

// Len reports how many client buckets are currently tracked.
func (b *Buckets) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byKey)
}
