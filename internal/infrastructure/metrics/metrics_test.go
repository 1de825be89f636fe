package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordLink(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.LinksTotal.WithLabelValues("youtube"))
	DefaultMetrics.RecordLink("youtube")
	assert.Equal(t, before+1, testutil.ToFloat64(DefaultMetrics.LinksTotal.WithLabelValues("youtube")))

	// empty platform must not panic
	DefaultMetrics.RecordLink("")
}

func TestMetrics_RecordOutcome(t *testing.T) {
	DefaultMetrics.RecordOutcome("prompted")
	DefaultMetrics.RecordOutcome("session_not_found")
	DefaultMetrics.RecordOutcome("")

	// This test verifies that the method doesn't panic
}

func TestMetrics_RecordDelivery_CountsOnlyDeliveredBytes(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.DeliveredBytes)

	DefaultMetrics.RecordDelivery("tiktok", "delivered", 1024, 2.5)
	DefaultMetrics.RecordDelivery("youtube", "too_large", 99999, 8)
	DefaultMetrics.RecordDelivery("", "", -5, 0.1)

	assert.Equal(t, before+1024, testutil.ToFloat64(DefaultMetrics.DeliveredBytes))
}

func TestMetrics_Gauges(t *testing.T) {
	DefaultMetrics.SetPendingSessions(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(DefaultMetrics.PendingSessions))

	start := testutil.ToFloat64(DefaultMetrics.BusyWorkers)
	DefaultMetrics.WorkerAcquired()
	DefaultMetrics.WorkerAcquired()
	DefaultMetrics.WorkerReleased()
	assert.Equal(t, start+1, testutil.ToFloat64(DefaultMetrics.BusyWorkers))
	DefaultMetrics.WorkerReleased()
}

func TestMetrics_RecordKafka(t *testing.T) {
	DefaultMetrics.RecordKafkaMessage()
	DefaultMetrics.RecordKafkaError("send_failed")
	DefaultMetrics.RecordKafkaError("")

	// This test verifies that the method doesn't panic
}

// TestDefaultMetrics_Initialized verifies DefaultMetrics initialization
func TestDefaultMetrics_Initialized(t *testing.T) {
	if DefaultMetrics == nil {
		t.Fatal("DefaultMetrics should be initialized")
	}
	if GetDefaultMetrics() != DefaultMetrics {
		t.Error("GetDefaultMetrics should return the singleton")
	}
	if DefaultMetrics.DeliveriesTotal == nil {
		t.Error("DeliveriesTotal should not be nil")
	}
	if DefaultMetrics.PendingSessions == nil {
		t.Error("PendingSessions should not be nil")
	}
}
