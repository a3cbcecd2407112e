package api

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ignite/survey-tracker/internal/pkg/httputil"
)

// Overall and per-dependency states.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"

	checkUp       = "up"
	checkSlow     = "slow"
	checkDown     = "down"
	checkDisabled = "disabled"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status  string                    `json:"status"`
	Version string                    `json:"version"`
	Uptime  string                    `json:"uptime"`
	Checks  map[string]ComponentCheck `json:"checks"`
}

// ComponentCheck is the result of probing one dependency.
type ComponentCheck struct {
	Status   string `json:"status"`
	Critical bool   `json:"critical"`
	Latency  string `json:"latency,omitempty"`
	Message  string `json:"message,omitempty"`
}

// BucketHeader is the S3 call the import-bucket check needs.
type BucketHeader interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// depCheck checks one dependency. A nil run means the dependency is not
// configured and fallback says what the service does instead.
type depCheck struct {
	name     string
	critical bool
	timeout  time.Duration
	slow     time.Duration
	fallback string
	run      func(ctx context.Context) error
}

// HealthChecker reports on Postgres (the respondent store), Redis (cache,
// sessions, import lock) and the S3 import bucket.
type HealthChecker struct {
	deps    []depCheck
	started time.Time
}

const healthVersion = "1.0.0"

// NewHealthChecker builds the dependency checks. Any dependency may be nil.
func NewHealthChecker(db *sql.DB, rdb *redis.Client, bucket BucketHeader, bucketName string) *HealthChecker {
	hc := &HealthChecker{started: time.Now()}

	pg := depCheck{name: "database", critical: true, timeout: 3 * time.Second, slow: time.Second, fallback: "not configured"}
	if db != nil {
		pg.run = db.PingContext
	}

	cache := depCheck{name: "redis", timeout: 2 * time.Second, slow: 500 * time.Millisecond,
		fallback: "not configured; sessions and request sequencing are in memory"}
	if rdb != nil {
		cache.run = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	store := depCheck{name: "s3", timeout: 3 * time.Second, slow: 2 * time.Second, fallback: "not configured"}
	if bucket != nil && bucketName != "" {
		store.run = func(ctx context.Context) error {
			_, err := bucket.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &bucketName})
			return err
		}
	}

	hc.deps = []depCheck{pg, cache, store}
	return hc
}

// HandleHealth always answers 200; the body carries the status.
//
//	GET /health
func (hc *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := hc.check(r.Context())
	httputil.JSON(w, http.StatusOK, HealthStatus{
		Status:  overallStatus(checks),
		Version: healthVersion,
		Uptime:  time.Since(hc.started).Round(time.Second).String(),
		Checks:  checks,
	})
}

// HandleLiveness answers 200 while the process runs.
//
//	GET /health/live
func (hc *HealthChecker) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"status": "alive",
		"uptime": time.Since(hc.started).Round(time.Second).String(),
	})
}

// HandleReadiness answers 503 when a critical dependency is down.
//
//	GET /health/ready
func (hc *HealthChecker) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := hc.check(r.Context())
	overall := overallStatus(checks)

	code := http.StatusOK
	if overall == statusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	httputil.JSON(w, code, map[string]interface{}{
		"ready":  overall != statusUnhealthy,
		"status": overall,
		"checks": checks,
	})
}

func (hc *HealthChecker) check(ctx context.Context) map[string]ComponentCheck {
	var mu sync.Mutex
	out := make(map[string]ComponentCheck, len(hc.deps))

	var g errgroup.Group
	for _, p := range hc.deps {
		g.Go(func() error {
			c := p.do(ctx)
			mu.Lock()
			out[p.name] = c
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (p depCheck) do(ctx context.Context) ComponentCheck {
	if p.run == nil {
		return ComponentCheck{Status: checkDisabled, Critical: p.critical, Message: p.fallback}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	err := p.run(ctx)
	latency := time.Since(start)

	c := ComponentCheck{Status: checkUp, Critical: p.critical, Latency: latency.String()}
	switch {
	case err != nil:
		c.Status = checkDown
		c.Message = safeErrorMessage(http.StatusServiceUnavailable, err)
	case latency > p.slow:
		c.Status = checkSlow
	}
	return c
}

// overallStatus is unhealthy when a configured critical dependency is down,
// degraded when anything else configured is down or slow.
func overallStatus(checks map[string]ComponentCheck) string {
	status := statusHealthy
	for _, c := range checks {
		switch c.Status {
		case checkDown:
			if c.Critical {
				return statusUnhealthy
			}
			status = statusDegraded
		case checkSlow:
			status = statusDegraded
		}
	}
	return status
}
