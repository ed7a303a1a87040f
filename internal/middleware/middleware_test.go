package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		if r.Header.Get("X-Request-ID") != seen {
			t.Errorf("request header %q does not match context %q", r.Header.Get("X-Request-ID"), seen)
		}
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if seen == "" {
		t.Fatal("expected a generated request id")
	}
	if rr.Header().Get("X-Request-ID") != seen {
		t.Fatalf("expected response header %q, got %q", seen, rr.Header().Get("X-Request-ID"))
	}
}

func TestRequestID_KeepsIncoming(t *testing.T) {
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("expected incoming request id to be echoed, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := CORS("http://localhost:5173/")(next)

	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantAllowed string
	}{
		{"allowed origin", http.MethodGet, "http://localhost:5173", http.StatusOK, "http://localhost:5173"},
		{"allowed preflight", http.MethodOptions, "http://localhost:5173", http.StatusNoContent, "http://localhost:5173"},
		{"foreign origin passes without headers", http.MethodGet, "http://evil.example", http.StatusOK, ""},
		{"foreign preflight rejected", http.MethodOptions, "http://evil.example", http.StatusForbidden, ""},
		{"no origin", http.MethodGet, "", http.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/v1/meta", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, rr.Code)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tc.wantAllowed {
				t.Errorf("expected allow-origin %q, got %q", tc.wantAllowed, got)
			}
		})
	}
}

func TestWriteError_Envelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusForbidden, "FORBIDDEN", "nope", req)

	var body struct {
		Error struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Error.Code != "FORBIDDEN" || body.Error.RequestID != "abc" {
		t.Fatalf("unexpected envelope: %+v", body.Error)
	}
}
