package providers

import (
	"processingd/internal/models"
	"processingd/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- minimal mock for DonationsStoreInterface ---

type metricsTestDonations struct{}

func (m *metricsTestDonations) LoadDonations(_ []*models.Donation) []int       { return nil }
func (m *metricsTestDonations) Donation(_ int) (*models.Donation, bool)        { return nil, false }
func (m *metricsTestDonations) BucketOf(_ int) (models.Bucket, bool)           { return "", false }
func (m *metricsTestDonations) BucketIDs(_ models.Bucket) []int                { return nil }
func (m *metricsTestDonations) Version() uint64                                { return 0 }
func (m *metricsTestDonations) Len() int                                       { return 3 }
func (m *metricsTestDonations) Missing(_ []int) []int                          { return nil }
func (m *metricsTestDonations) Counts() map[models.Bucket]int {
	return map[models.Bucket]int{models.BucketUnprocessed: 2, models.BucketDone: 1}
}
func (m *metricsTestDonations) DonationsInState(_ models.Bucket, _ func(*models.Donation) bool) []*models.Donation {
	return nil
}

func withTestRegistry(t *testing.T) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	})
	return reg
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf, &metricsTestDonations{})
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(time.Millisecond)
	m.IncSocketFrames("donation_received")
	m.SetSocketState(models.Connected)
	m.IncMutations("flag", true)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	withTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestDonations{})
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_BucketGauges(t *testing.T) {
	reg := withTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	NewMetricsProvider(conf, &metricsTestDonations{})

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "procd_bucket_size" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "bucket" {
					values[label.GetValue()] = metric.GetGauge().GetValue()
				}
			}
		}
	}
	assert.Equal(t, 2.0, values["unprocessed"])
	assert.Equal(t, 0.0, values["ready"])
	assert.Equal(t, 1.0, values["done"])
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	withTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestDonations{})

	// These should not panic
	m.IncRequestsTotal("/donations", 200)
	m.IncRequestsTotal("/donations", 404)
	m.ObserveRequestDuration("/donations", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(100 * time.Millisecond)
	m.IncSocketFrames("processing_action")
	m.SetSocketState(models.Connecting)
	m.IncMutations("send_to_reader", false)
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
