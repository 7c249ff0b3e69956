package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// maxRequestIDLen bounds client-supplied request ids.
const maxRequestIDLen = 128

// RequestID assigns each request a UUID unless the client sent a usable
// X-Request-Id, stores it where chi's GetReqID finds it, and echoes it in
// the response.
func RequestID(next http.Handler) http.Handler {
	withID := chimw.RequestID(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(chimw.RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
			r.Header.Set(chimw.RequestIDHeader, id)
		}
		w.Header().Set(chimw.RequestIDHeader, id)
		withID.ServeHTTP(w, r)
	})
}
