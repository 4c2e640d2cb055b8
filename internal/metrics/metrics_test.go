package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collectors) string {
	t.Helper()
	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveEngine(t *testing.T) {
	c := New()
	c.ObserveEngine("risk", 20*time.Millisecond)
	c.ObserveEngine("risk", 30*time.Millisecond)

	out := scrape(t, c)
	assert.Contains(t, out, `gradelens_engine_duration_seconds_count{engine="risk"} 2`)
}

func TestObserveUploadAndSummary(t *testing.T) {
	c := New()
	c.ObserveUpload(240)
	c.ObserveSummary("deterministic_fallback")

	out := scrape(t, c)
	assert.Contains(t, out, "gradelens_upload_rows_count 1")
	assert.Contains(t, out, `gradelens_parent_summaries_total{mode="deterministic_fallback"} 1`)
}

func TestMiddlewareLabelsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := New()
	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/items/:id", func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	for _, path := range []string{"/items/1", "/items/2", "/missing"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	out := scrape(t, c)
	assert.Contains(t, out, `gradelens_http_requests_total{method="GET",route="/items/:id",status="204"} 2`)
	assert.Contains(t, out, `gradelens_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveSummary("ai_openai")

	assert.NotContains(t, scrape(t, b), `mode="ai_openai"`)
}
