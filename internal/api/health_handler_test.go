package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucket struct{ err error }

func (f fakeBucket) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.err
}

func TestHealth_RedisUpBucketDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	hc := NewHealthChecker(nil, rdb, fakeBucket{err: assert.AnError}, "survey-exports")
	checks := hc.check(context.Background())

	assert.Equal(t, checkDisabled, checks["database"].Status)
	assert.Equal(t, checkUp, checks["redis"].Status)
	assert.Equal(t, checkDown, checks["s3"].Status)
	assert.Equal(t, statusDegraded, overallStatus(checks))

	rec := httptest.NewRecorder()
	hc.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth_RedisFallbackMessage(t *testing.T) {
	hc := NewHealthChecker(nil, nil, fakeBucket{}, "")
	checks := hc.check(context.Background())

	require.Contains(t, checks, "redis")
	assert.Contains(t, checks["redis"].Message, "in memory")
	assert.Equal(t, checkDisabled, checks["s3"].Status)
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]ComponentCheck
		want   string
	}{
		{"all up", map[string]ComponentCheck{"database": {Status: checkUp, Critical: true}}, statusHealthy},
		{"disabled ignored", map[string]ComponentCheck{"redis": {Status: checkDisabled}}, statusHealthy},
		{"slow", map[string]ComponentCheck{"redis": {Status: checkSlow}}, statusDegraded},
		{"optional down", map[string]ComponentCheck{"s3": {Status: checkDown}}, statusDegraded},
		{"critical down", map[string]ComponentCheck{
			"database": {Status: checkDown, Critical: true},
			"redis":    {Status: checkSlow},
		}, statusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overallStatus(tt.checks))
		})
	}
}
