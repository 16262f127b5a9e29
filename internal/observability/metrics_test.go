package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := newMetrics(time.Second)
	m.ObserveAPI("GET", "/api/chapters", "200", 20*time.Millisecond)
	m.ObserveAPI("GET", "/api/chapters", "503", time.Second)
	m.ObserveRenderCache("hit")
	m.ObserveRender("html", time.Millisecond)
	m.IncProgressUpdate("completed")
	m.SetSSEClients(3)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`tb_api_requests_total{method="GET",route="/api/chapters",status="200"} 1.000000`,
		"tb_api_requests_error_total 1.000000",
		`tb_render_cache_total{outcome="hit"} 1.000000`,
		`tb_section_render_duration_seconds_bucket{format="html",le="+Inf"} 1`,
		`tb_progress_updates_total{status="completed"} 1.000000`,
		"tb_sse_clients 3.000000",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ObserveRenderCache("miss")
	m.IncProgressUpdate("skipped")
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil write: %v", err)
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"a", "b"}, []string{`x"y`})
	if got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("labelString = %s", got)
	}
}
