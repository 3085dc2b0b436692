package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveDrop("bad-rating", 3)
	observability.ObserveStage("clean", 10)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	if !strings.Contains(out, "bankrev_http_requests_total") {
		t.Fatalf("expected bankrev_http_requests_total in output")
	}
	if !strings.Contains(out, "bankrev_rows_dropped_total") {
		t.Fatalf("expected bankrev_rows_dropped_total in output")
	}
}
