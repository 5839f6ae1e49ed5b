package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	HeaderCorrelationID = "X-Correlation-Id"

	maxCorrelationIDLen = 128
)

// CorrelationID tags the request with an id shared by its logs, error
// bodies and published events. A usable caller id wins, then chi's
// request id, then a new uuid.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(HeaderCorrelationID)
		if !usableID(cid) {
			cid = chimw.GetReqID(r.Context())
		}
		if cid == "" {
			cid = uuid.NewString()
		}

		w.Header().Set(HeaderCorrelationID, cid)
		next.ServeHTTP(w, r.WithContext(WithCorrelationID(r.Context(), cid)))
	})
}

// usableID rejects ids that are empty, oversized or not printable ASCII.
func usableID(id string) bool {
	if id == "" || len(id) > maxCorrelationIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
