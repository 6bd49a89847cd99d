package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyMiddleware_Disabled(t *testing.T) {
	for _, keys := range [][]string{nil, {"", ""}} {
		rr := httptest.NewRecorder()
		APIKeyMiddleware(keys)(okHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/v1/search", http.NoBody))
		if rr.Code != http.StatusOK {
			t.Errorf("keys %q: got %d, want 200", keys, rr.Code)
		}
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		headers map[string]string
		want    int
		wantMsg string
	}{
		{name: "missing", path: "/v1/search", want: http.StatusUnauthorized, wantMsg: "missing api key"},
		{
			name:    "basic scheme",
			path:    "/v1/search",
			headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz"},
			want:    http.StatusUnauthorized,
			wantMsg: "authorization header must use Bearer scheme",
		},
		{
			name:    "wrong bearer",
			path:    "/v1/search",
			headers: map[string]string{"Authorization": "Bearer nope"},
			want:    http.StatusUnauthorized,
			wantMsg: "invalid api key",
		},
		{
			name:    "wrong header key",
			path:    "/v1/search/export.csv",
			headers: map[string]string{APIKeyHeader: "nope"},
			want:    http.StatusUnauthorized,
			wantMsg: "invalid api key",
		},
		{name: "bearer first key", path: "/v1/search", headers: map[string]string{"Authorization": "Bearer key1"}, want: http.StatusOK},
		{name: "bearer second key", path: "/v1/directives", headers: map[string]string{"Authorization": "Bearer key2"}, want: http.StatusOK},
		{name: "header key", path: "/v1/search/export.csv", headers: map[string]string{APIKeyHeader: "key2"}, want: http.StatusOK},
		{name: "health exempt", path: "/health", want: http.StatusOK},
		{name: "metrics exempt", path: "/metrics", want: http.StatusOK},
	}

	mw := APIKeyMiddleware([]string{"key1", "key2"}, DefaultAuthExempt...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, http.NoBody)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			mw(okHandler()).ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("got %d, want %d", rr.Code, tt.want)
			}
			if tt.want == http.StatusOK {
				return
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != CodeUnauthorized || errResp.Message != tt.wantMsg {
				t.Errorf("error = %+v, want message %q", errResp, tt.wantMsg)
			}
		})
	}
}

func TestAPIKeyMiddleware_NoExemptByDefault(t *testing.T) {
	rr := httptest.NewRecorder()
	APIKeyMiddleware([]string{"secret"})(okHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401", rr.Code)
	}
}
