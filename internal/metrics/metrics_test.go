package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordUpstreamStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUpstreamStatus("generate_interview", 200)
	c.RecordUpstreamStatus("generate_interview", 200)
	c.RecordUpstreamStatus("generate_interview", 503)

	got := testutil.ToFloat64(c.upstreamStatus.WithLabelValues("generate_interview", "200"))
	if got != 2 {
		t.Errorf("status 200 count = %v, want 2", got)
	}
	got = testutil.ToFloat64(c.upstreamStatus.WithLabelValues("generate_interview", "503"))
	if got != 1 {
		t.Errorf("status 503 count = %v, want 1", got)
	}
}

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUpstreamUnreachable("generate_interview")
	c.RecordValidationFailure("generate_interview")
	c.RecordSessionEstablished()
	c.RecordSessionCleared()
	c.RecordProfileUpsert()
	c.RecordUpstreamLatency("generate_interview", 50*time.Millisecond)

	if got := testutil.ToFloat64(c.upstreamUnreachable.WithLabelValues("generate_interview")); got != 1 {
		t.Errorf("unreachable count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.validationFailures.WithLabelValues("generate_interview")); got != 1 {
		t.Errorf("validation failure count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.sessionsEstablished); got != 1 {
		t.Errorf("sessions established = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.sessionsCleared); got != 1 {
		t.Errorf("sessions cleared = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.profileUpserts); got != 1 {
		t.Errorf("profile upserts = %v, want 1", got)
	}
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordSessionEstablished()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body := w.Body.String()
	if !strings.Contains(body, "gateway_sessions_established_total 1") {
		t.Errorf("scrape output should contain session counter, got:\n%s", body)
	}
}
