package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/craftledger/internal/http/handlers"
	"github.com/yungbote/craftledger/internal/observability"
	"github.com/yungbote/craftledger/internal/platform/logger"
)

func do(t *testing.T, h nethttp.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(nethttp.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthAndReadiness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var connected atomic.Bool
	r := NewRouter(RouterConfig{
		Log:           logger.Nop(),
		HealthHandler: httpH.NewHealthHandler(connected.Load),
	})

	rec := do(t, r, "/healthcheck", nil)
	if rec.Code != nethttp.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: want=200 ok got=%d %q", rec.Code, rec.Body.String())
	}

	rec = do(t, r, "/readyz", nil)
	if rec.Code != nethttp.StatusServiceUnavailable {
		t.Fatalf("readyz disconnected: want=%d got=%d", nethttp.StatusServiceUnavailable, rec.Code)
	}

	connected.Store(true)
	rec = do(t, r, "/readyz", nil)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("readyz connected: want=%d got=%d", nethttp.StatusOK, rec.Code)
	}
}

func TestRouterRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{Log: logger.Nop(), HealthHandler: httpH.NewHealthHandler(nil)})

	rec := do(t, r, "/healthcheck", map[string]string{"X-Request-Id": "abc"})
	if got := rec.Header().Get("X-Request-Id"); got != "abc" {
		t.Fatalf("echoed request id: want=abc got=%q", got)
	}

	rec = do(t, r, "/healthcheck", nil)
	if got := rec.Header().Get("X-Request-Id"); got == "" {
		t.Fatalf("generated request id: want non-empty")
	}
}

func TestRouterMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("METRICS_ENABLED", "true")
	m := observability.Init()
	if m == nil {
		t.Fatalf("metrics init: want non-nil")
	}
	m.IncEvent("message", "written")

	r := NewRouter(RouterConfig{Log: logger.Nop(), Metrics: m})
	rec := do(t, r, "/metrics", nil)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("metrics status: want=200 got=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "craftledger_events_total") {
		t.Fatalf("metrics body: want craftledger_events_total in %q", rec.Body.String())
	}
}

func TestRouterWithoutMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{Log: logger.Nop()})
	rec := do(t, r, "/metrics", nil)
	if rec.Code != nethttp.StatusNotFound {
		t.Fatalf("metrics route absent: want=404 got=%d", rec.Code)
	}
}
