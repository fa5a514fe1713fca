package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLLMStats_Percentiles(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	for _, ms := range []int64{500, 100, 400, 200, 300} {
		stats.Record(ms, true)
	}

	snap := stats.Snapshot()
	assert.Equal(t, 5, snap.Count)
	assert.Equal(t, 0, snap.Failures)
	assert.Equal(t, int64(100), snap.MinMs)
	assert.Equal(t, int64(500), snap.MaxMs)
	assert.InDelta(t, 300, snap.AvgMs, 1e-9)
	assert.InDelta(t, 300, snap.P50Ms, 1e-9)
	assert.InDelta(t, 480, snap.P95Ms, 1e-9)
	assert.InDelta(t, 496, snap.P99Ms, 1e-9)
}

func TestLLMStats_CountsFailures(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	stats.Record(10, true)
	stats.Record(20, false)
	stats.Record(30, false)

	snap := stats.Snapshot()
	assert.Equal(t, 3, snap.Count)
	assert.Equal(t, 2, snap.Failures)
}

func TestLLMStats_PrunesExpiredSamples(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	stats := NewLLMStats(time.Minute)
	stats.now = func() time.Time { return clock }

	stats.Record(100, true)
	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 0, stats.Snapshot().Count)

	stats.Record(200, true)
	snap := stats.Snapshot()
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, int64(200), snap.MinMs)
	assert.Equal(t, int64(200), snap.MaxMs)
}

func TestLLMStats_ClampsNegativeDuration(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	stats.Record(-10, true)

	snap := stats.Snapshot()
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, int64(0), snap.MinMs)
}

func TestLLMStats_EmptySnapshot(t *testing.T) {
	assert.Equal(t, StatsSnapshot{}, NewLLMStats(0).Snapshot())
}
