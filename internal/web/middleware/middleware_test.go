package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sheetresolver/internal/config"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		header  http.Header
		want    string
	}{
		{
			name:    "trusted proxy with X-Real-IP",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:5555",
			header:  http.Header{"X-Real-Ip": {"203.0.113.7"}},
			want:    "203.0.113.7",
		},
		{
			name:    "trusted proxy with X-Forwarded-For takes first hop",
			trusted: []string{"10.1.2.3"},
			remote:  "10.1.2.3:5555",
			header:  http.Header{"X-Forwarded-For": {"203.0.113.7, 10.0.0.2"}},
			want:    "203.0.113.7",
		},
		{
			name:    "untrusted peer cannot spoof",
			trusted: []string{"10.0.0.0/8"},
			remote:  "198.51.100.9:5555",
			header:  http.Header{"X-Real-Ip": {"203.0.113.7"}},
			want:    "198.51.100.9:5555",
		},
		{
			name:    "garbage header is ignored",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:5555",
			header:  http.Header{"X-Real-Ip": {"not-an-ip"}},
			want:    "10.1.2.3:5555",
		},
		{
			name:    "invalid trusted entries are skipped",
			trusted: []string{"bogus", "10.0.0.0/8"},
			remote:  "10.1.2.3:5555",
			header:  http.Header{"X-Real-Ip": {"2001:db8::1"}},
			want:    "2001:db8::1",
		},
		{
			name:   "no trusted proxies",
			remote: "10.1.2.3:5555",
			header: http.Header{"X-Real-Ip": {"203.0.113.7"}},
			want:   "10.1.2.3:5555",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header[k] = v
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := &config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}}
	h := APIKeyAuth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
		code   string
	}{
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized, "AUTH_MISSING_KEY"},
		{"wrong", func(r *http.Request) { r.Header.Set("X-API-Key", "nope") }, http.StatusForbidden, "AUTH_INVALID_KEY"},
		{"header", func(r *http.Request) { r.Header.Set("X-API-Key", "k2") }, http.StatusOK, ""},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "bearer k1") }, http.StatusOK, ""},
		{"query", func(r *http.Request) { r.URL.RawQuery = "private_key=k1" }, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/linkable", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.code != "" {
				assert.Contains(t, rec.Body.String(), tt.code)
			}
		})
	}
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	h := APIKeyAuth(&config.SecurityConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(chimw.RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, seen)
	})

	t.Run("client supplied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(chimw.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(chimw.RequestIDHeader))
		assert.Equal(t, "abc-123", seen)
	})

	t.Run("oversized id is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(chimw.RequestIDHeader, strings.Repeat("x", 200))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		_, err := uuid.Parse(rec.Header().Get(chimw.RequestIDHeader))
		assert.NoError(t, err)
	})
}

func TestLogger_PassesThrough(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("done"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x?y=1", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
