package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounts(t *testing.T) {
	c := New()
	c.Record("/api/v1/roles", http.MethodGet, 200, 15*time.Millisecond)
	c.Record("/api/v1/roles", http.MethodGet, 200, 5*time.Millisecond)
	c.Record("", http.MethodGet, 404, time.Millisecond)
	c.Decision("role", "forbidden")
	c.UnknownRole("ceo")

	if got := testutil.ToFloat64(c.requests.WithLabelValues("/api/v1/roles", "GET", "200")); got != 2 {
		t.Fatalf("expected 2 role requests, got %v", got)
	}
	if got := testutil.ToFloat64(c.requests.WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Fatalf("expected unmatched route counted, got %v", got)
	}
	if got := testutil.ToFloat64(c.decisions.WithLabelValues("role", "forbidden")); got != 1 {
		t.Fatalf("expected 1 forbidden decision, got %v", got)
	}
	if got := testutil.ToFloat64(c.unknownRoles.WithLabelValues("ceo")); got != 1 {
		t.Fatalf("expected 1 unknown role, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.Decision("authenticate", "allowed")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `tikidan_authz_decisions_total{gate="authenticate",outcome="allowed"} 1`) {
		t.Fatalf("decision counter missing from output:\n%s", rec.Body.String())
	}
}
