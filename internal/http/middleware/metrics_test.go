package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/textbook-backend/internal/observability"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
)

func TestMetricsSkipsStreams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("METRICS_ENABLED", "true")
	m := observability.Init(logger.Nop())
	if m == nil {
		t.Fatalf("metrics not enabled")
	}

	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/metrics-test/chapters", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/metrics-test/stream", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/metrics-test/chapters", "/api/metrics-test/stream"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `route="/api/metrics-test/chapters",status="200"`) {
		t.Fatalf("chapters route not recorded:\n%s", out)
	}
	if strings.Contains(out, `route="/api/metrics-test/stream"`) {
		t.Fatalf("stream route recorded:\n%s", out)
	}
}

func TestMetricsNilPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("code = %d", rec.Code)
	}
}
