package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type routes struct{}

func (routes) RegisterRoutes(e *echo.Echo) {
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/boom", func(c echo.Context) error { panic("boom") })
	e.GET("/gone", func(c echo.Context) error {
		return ErrorResponse(c, NotFoundError("gone").WithDetail("hint", "retry"))
	})
}

type denyAfter struct{ left int }

func (d *denyAfter) Allow(string, float64, float64) bool {
	if d.left <= 0 {
		return false
	}
	d.left--
	return true
}

func serve(s *Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func jsonBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("not json: %q", rec.Body.String())
	}
	return m
}

func TestServerUnknownRouteIsJSON404(t *testing.T) {
	s := NewServer(routes{}, nil, WithMetrics(false, 0))
	rec := serve(s, "/missing")
	if rec.Code != http.StatusNotFound || jsonBody(t, rec)["error"] != "Not Found" {
		t.Fatalf("unexpected %d %s", rec.Code, rec.Body.String())
	}
}

func TestServerRecoversPanics(t *testing.T) {
	s := NewServer(routes{}, nil, WithMetrics(false, 0))
	rec := serve(s, "/boom")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestAppErrorDetails(t *testing.T) {
	s := NewServer(routes{}, nil, WithMetrics(false, 0))
	body := jsonBody(t, serve(s, "/gone"))
	if body["error"] != "gone" || body["hint"] != "retry" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestServerRateLimit(t *testing.T) {
	s := NewServer(routes{}, nil, WithMetrics(false, 0), WithRateLimit(&denyAfter{left: 2}, 60))
	for i := 0; i < 2; i++ {
		if rec := serve(s, "/ok"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: %d", i, rec.Code)
		}
	}
	if rec := serve(s, "/ok"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestServerCORSPreflight(t *testing.T) {
	s := NewServer(routes{}, nil, WithMetrics(false, 0))
	req := httptest.NewRequest(http.MethodOptions, "/ok", nil)
	req.Header.Set(echo.HeaderOrigin, "https://example.com")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderAccessControlAllowOrigin) != "https://example.com" {
		t.Fatalf("origin not echoed: %v", rec.Header())
	}
}

func TestServerMetricsEndpoint(t *testing.T) {
	s := NewServer(routes{}, nil)
	_ = serve(s, "/ok")
	if rec := serve(s, "/metrics"); rec.Code != http.StatusOK {
		t.Fatalf("metrics status %d", rec.Code)
	}
}

func TestServerRequestID(t *testing.T) {
	s := NewServer(routes{}, nil, WithMetrics(false, 0))
	if rec := serve(s, "/ok"); rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatalf("request id not generated")
	}

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderXRequestID); got != "abc" {
		t.Fatalf("request id not propagated: %q", got)
	}
}
