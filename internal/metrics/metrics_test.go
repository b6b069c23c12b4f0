// metrics_test.go — Unit tests for Prometheus instrumentation.
package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTemplatePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/api/movies/trending", "/api/movies/trending"},
		{"/api/movies/search", "/api/movies/search"},
		{"/api/movies/550", "/api/movies/:id"},
		{"/api/movies/550/stream", "/api/movies/:id/stream"},
		{"/api/auth", "/api/auth"},
		{"/health", "/health"},
	}
	for _, tc := range cases {
		if got := templatePath(tc.in); got != tc.want {
			t.Errorf("templatePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMiddlewareCapturesStatus(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/movies/trending", nil))

	if rr.Code != http.StatusTeapot {
		t.Errorf("middleware altered status: got %d", rr.Code)
	}
}

func TestMiddlewareDefaultsTo200(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Handler writes a body without an explicit WriteHeader.
		w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics endpoint: expected 200, got %d", rr.Code)
	}
}
