// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// getHistogramCount extracts the sample count from a Prometheus histogram
func getHistogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordPacket(t *testing.T) {
	before := testutil.ToFloat64(PacketsClassified.WithLabelValues("Attack"))
	samplesBefore := getHistogramCount(t, ClassificationDuration)

	RecordPacket("Attack", 2*time.Millisecond)
	RecordPacket("Attack", time.Millisecond)

	if got := getHistogramCount(t, ClassificationDuration) - samplesBefore; got != 2 {
		t.Errorf("ClassificationDuration gained %d samples, want 2", got)
	}

	after := testutil.ToFloat64(PacketsClassified.WithLabelValues("Attack"))
	if after-before != 2 {
		t.Errorf("Attack packets increased by %v, want 2", after-before)
	}
}

func TestRecordRunLifecycle(t *testing.T) {
	activeBefore := testutil.ToFloat64(ActiveRuns)
	startedBefore := testutil.ToFloat64(RunsStarted)
	finishedBefore := testutil.ToFloat64(RunsFinished.WithLabelValues("failed", "classification_error"))

	RecordRunStarted()
	if got := testutil.ToFloat64(ActiveRuns); got != activeBefore+1 {
		t.Errorf("ActiveRuns = %v, want %v", got, activeBefore+1)
	}

	RecordRunFinished("failed", "classification_error", 3*time.Second)
	if got := testutil.ToFloat64(ActiveRuns); got != activeBefore {
		t.Errorf("ActiveRuns = %v, want %v", got, activeBefore)
	}
	if got := testutil.ToFloat64(RunsStarted); got != startedBefore+1 {
		t.Errorf("RunsStarted = %v, want %v", got, startedBefore+1)
	}
	if got := testutil.ToFloat64(RunsFinished.WithLabelValues("failed", "classification_error")); got != finishedBefore+1 {
		t.Errorf("RunsFinished = %v, want %v", got, finishedBefore+1)
	}
}

func TestRecordCircuitBreaker(t *testing.T) {
	RecordCircuitBreakerState("remote-classifier", 2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("remote-classifier")); got != 2 {
		t.Errorf("CircuitBreakerState = %v, want 2", got)
	}

	before := testutil.ToFloat64(CircuitBreakerRequests.WithLabelValues("remote-classifier", "rejected"))
	RecordCircuitBreakerRequest("remote-classifier", "rejected")
	if got := testutil.ToFloat64(CircuitBreakerRequests.WithLabelValues("remote-classifier", "rejected")); got != before+1 {
		t.Errorf("CircuitBreakerRequests = %v, want %v", got, before+1)
	}

	RecordCircuitBreakerTransition("remote-classifier", "closed", "open")
}

func TestRecordEventPublished(t *testing.T) {
	okBefore := testutil.ToFloat64(EventsPublished.WithLabelValues("packet"))
	errBefore := testutil.ToFloat64(EventPublishErrors)

	RecordEventPublished("packet", nil)
	RecordEventPublished("packet", errors.New("closed"))

	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("packet")); got != okBefore+1 {
		t.Errorf("EventsPublished = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(EventPublishErrors); got != errBefore+1 {
		t.Errorf("EventPublishErrors = %v, want %v", got, errBefore+1)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/runs", "202"))
	RecordAPIRequest("POST", "/api/v1/runs", "202", 5*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/runs", "202")); got != before+1 {
		t.Errorf("APIRequestsTotal = %v, want %v", got, before+1)
	}
}

func TestRecordDatasetUpload(t *testing.T) {
	before := testutil.ToFloat64(DatasetUploads.WithLabelValues("rejected"))
	RecordDatasetUpload("rejected")
	if got := testutil.ToFloat64(DatasetUploads.WithLabelValues("rejected")); got != before+1 {
		t.Errorf("DatasetUploads = %v, want %v", got, before+1)
	}
}

func TestMetricGathering(t *testing.T) {
	RecordPacket("Normal", time.Millisecond)
	RecordAPIRequest("GET", "/health", "200", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s: %s", p.Metric, p.Text)
	}
}
