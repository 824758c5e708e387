package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_NoopProviderIsSafe(t *testing.T) {
	metrics, err := InitMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, metrics, "GET", "/api/shops/nearby", 200, 12*time.Millisecond)
		RecordReviewSubmission(ctx, metrics, 5)
		RecordAppointmentTransition(ctx, metrics, "pending", "confirmed")
		RecordRateLimitRejection(ctx, metrics, "login")
		RecordNearbySearch(ctx, metrics, "Motor", 3)
	})
}

func TestRecorders_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, nil, "GET", "/health", 200, time.Millisecond)
		RecordReviewSubmission(ctx, nil, 1)
		RecordRateLimitRejection(ctx, nil, "api")
	})
}
