package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, header, key string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	if key != "" {
		r.Header.Set(header, key)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name string
		mode string
		key  string
		sent string
		want int
	}{
		{"mode none passes without key", "none", "secret", "", http.StatusOK},
		{"unconfigured key passes", "apikey", "", "", http.StatusOK},
		{"correct key passes", "apikey", "secret", "secret", http.StatusOK},
		{"missing key rejected", "apikey", "secret", "", http.StatusUnauthorized},
		{"wrong key rejected", "apikey", "secret", "nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := APIKeyMiddleware(tt.mode, "x-api-key", tt.key)(okHandler())
			if got := doRequest(h, "x-api-key", tt.sent).Code; got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAPIKeyMiddlewareCustomHeader(t *testing.T) {
	h := APIKeyMiddleware("apikey", "x-drip-key", "secret")(okHandler())

	if got := doRequest(h, "x-drip-key", "secret").Code; got != http.StatusOK {
		t.Errorf("custom header: status = %d, want 200", got)
	}
	if got := doRequest(h, "x-api-key", "secret").Code; got != http.StatusUnauthorized {
		t.Errorf("wrong header name: status = %d, want 401", got)
	}
}
