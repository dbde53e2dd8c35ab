package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	m.Handler().ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	return recorder.Body.String()
}

func TestCountersAreMonotonic(t *testing.T) {
	m := New(func() bool { return true })

	for i := 0; i < 5; i++ {
		m.Requests.Inc()
	}
	m.Errors.Inc()
	m.Errors.Inc()

	if got := testutil.ToFloat64(m.Requests); got != 5 {
		t.Fatalf("expected 5 requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.Errors); got != 2 {
		t.Fatalf("expected 2 errors, got %v", got)
	}

	// Counters never reset between scrapes.
	scrape(t, m)
	if got := testutil.ToFloat64(m.Requests); got != 5 {
		t.Fatalf("expected requests to survive a scrape, got %v", got)
	}
}

func TestExpositionFormat(t *testing.T) {
	m := New(func() bool { return true })
	m.Requests.Inc()

	body := scrape(t, m)

	for _, line := range []string{
		"# HELP campgo_requests_total Total number of requests",
		"# TYPE campgo_requests_total counter",
		"campgo_requests_total 1",
		"# HELP campgo_errors_total Total number of errors",
		"# TYPE campgo_errors_total counter",
		"campgo_errors_total 0",
		"# TYPE campgo_uptime_seconds gauge",
		"# TYPE campgo_memory_usage_bytes gauge",
		`campgo_memory_usage_bytes{type="rss"}`,
		`campgo_memory_usage_bytes{type="heapTotal"}`,
		`campgo_memory_usage_bytes{type="heapUsed"}`,
		"# TYPE campgo_db_status gauge",
		"campgo_db_status 1",
	} {
		if !strings.Contains(body, line) {
			t.Fatalf("exposition output missing %q:\n%s", line, body)
		}
	}
}

func TestDBStatusGauge(t *testing.T) {
	connected := false
	m := New(func() bool { return connected })

	if body := scrape(t, m); !strings.Contains(body, "campgo_db_status 0") {
		t.Fatalf("expected db status 0 when disconnected:\n%s", body)
	}

	connected = true
	if body := scrape(t, m); !strings.Contains(body, "campgo_db_status 1") {
		t.Fatalf("expected db status 1 when connected:\n%s", body)
	}
}

func TestConcurrentIncrementsNeverLoseUpdates(t *testing.T) {
	m := New(nil)

	const goroutines = 50
	const perGoroutine = 200

	done := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		go func() {
			for j := 0; j < perGoroutine; j++ {
				m.Requests.Inc()
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < goroutines; i++ {
		<-done
	}

	if got := testutil.ToFloat64(m.Requests); got != goroutines*perGoroutine {
		t.Fatalf("lost updates: expected %d, got %v", goroutines*perGoroutine, got)
	}
}
