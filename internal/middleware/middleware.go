package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"bookcurator/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags the request context with an id for log correlation. An id
// sent by a proxy is kept; otherwise a new one is generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.ContextWithID(r.Context(), id)))
	})
}
