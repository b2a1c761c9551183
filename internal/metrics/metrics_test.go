package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func findMetric(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("%s metric not found", name)
	return nil
}

func TestRecordOTP_LabelsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOTP(OTPIssued, "email")
	c.RecordOTP(OTPIssued, "email")
	c.RecordOTP(OTPRejected, "sms")

	mf := findMetric(t, reg, "heartcoach_otp_events_total")
	if len(mf.GetMetric()) != 2 {
		t.Fatalf("expected 2 series, got %d", len(mf.GetMetric()))
	}

	for _, m := range mf.GetMetric() {
		labels := map[string]string{}
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		if labels["outcome"] == OTPIssued && m.GetCounter().GetValue() != 2 {
			t.Errorf("issued = %v, want 2", m.GetCounter().GetValue())
		}
	}
}

func TestRecordIntakeUpsert(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordIntakeUpsert(true)
	c.RecordIntakeUpsert(false)
	c.RecordIntakeUpsert(false)
	c.RecordIntakeDuplicateRetry()

	mf := findMetric(t, reg, "heartcoach_intake_upserts_total")
	var total float64
	for _, m := range mf.GetMetric() {
		total += m.GetCounter().GetValue()
	}
	if total != 3 {
		t.Errorf("upserts = %v, want 3", total)
	}

	retries := findMetric(t, reg, "heartcoach_intake_duplicate_retries_total")
	if v := retries.GetMetric()[0].GetCounter().GetValue(); v != 1 {
		t.Errorf("retries = %v, want 1", v)
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordHTTPRequest(http.MethodGet, "/health", 200, 5*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "heartcoach_http_requests_total") {
		t.Error("response should contain heartcoach_http_requests_total metric")
	}
}
