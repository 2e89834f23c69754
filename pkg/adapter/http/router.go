package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"filevault/internal/ratelimiter"
	"filevault/pkg/auth"
	"filevault/pkg/files"
	"filevault/pkg/registry"
)

// handlers groups the request handlers and their collaborators.
type handlers struct {
	reg       *registry.Registry
	hierarchy *files.Hierarchy
	gate      *auth.Gate
}

func newHandlers(reg *registry.Registry, hierarchy *files.Hierarchy, gate *auth.Gate) *handlers {
	return &handlers{
		reg:       reg,
		hierarchy: hierarchy,
		gate:      gate,
	}
}

// newRouter wires the REST surface. A nil limiter disables rate
// limiting.
func newRouter(h *handlers, limiter *ratelimiter.RateLimiter) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/status", h.getStatus).Methods(http.MethodGet)
	r.HandleFunc("/stats", h.getStats).Methods(http.MethodGet)

	r.HandleFunc("/users", h.postUsers).Methods(http.MethodPost)
	r.HandleFunc("/users/me", h.getMe).Methods(http.MethodGet)

	r.HandleFunc("/connect", h.getConnect).Methods(http.MethodGet)
	r.HandleFunc("/disconnect", h.getDisconnect).Methods(http.MethodGet)

	r.HandleFunc("/files", h.postFiles).Methods(http.MethodPost)
	r.HandleFunc("/files", h.getFiles).Methods(http.MethodGet)
	r.HandleFunc("/files/{id}", h.getFile).Methods(http.MethodGet)
	r.HandleFunc("/files/{id}/publish", h.putPublish).Methods(http.MethodPut)
	r.HandleFunc("/files/{id}/unpublish", h.putUnpublish).Methods(http.MethodPut)
	r.HandleFunc("/files/{id}/data", h.getFileData).Methods(http.MethodGet)

	if limiter == nil {
		return r
	}

	return rateLimited(limiter, r)
}

// rateLimited rejects requests exceeding the global budget with 429.
func rateLimited(limiter *ratelimiter.RateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeErrorMessage(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
