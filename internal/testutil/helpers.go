// helpers.go — httptest request helpers shared by the handler tests.
//
// Marquee's API has exactly two request shapes: the JSON POST that redeems an
// access code, and Bearer-authenticated GETs against the movie routes. The
// helpers cover both plus response decoding/assertion.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// PostJSON sends a POST with a JSON-encoded body through the handler and
// returns the recorder.
func PostJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal %T: %v", body, err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return record(handler, req)
}

// GetJSON sends an unauthenticated GET through the handler.
func GetJSON(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	return record(handler, httptest.NewRequest(http.MethodGet, path, nil))
}

// GetJSONWithAuth sends a GET carrying a Bearer session token.
func GetJSONWithAuth(t *testing.T, handler http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return record(handler, req)
}

// DecodeJSON unmarshals the recorded response body into v.
func DecodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response (status %d, body %s): %v", rr.Code, rr.Body.String(), err)
	}
}

// AssertStatus fails the test when the recorded status differs from want.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Errorf("status = %d, want %d (body: %s)", rr.Code, want, rr.Body.String())
	}
}

func record(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}
