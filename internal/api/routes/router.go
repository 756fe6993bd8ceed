package routes

import (
	"net/http"

	"github.com/careatlas/provider-lookup/internal/api/handlers"
	"github.com/careatlas/provider-lookup/internal/api/middleware"
	"github.com/careatlas/provider-lookup/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler *handlers.SearchHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(searchHandler *handlers.SearchHandler, metrics *observability.Metrics) *Router {
	return &Router{
		mux:           http.NewServeMux(),
		searchHandler: searchHandler,
		metrics:       metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Provider search endpoint
	r.mux.HandleFunc("GET /api/providers/search", r.searchHandler.Search)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}
	handler = middleware.CORSMiddleware(handler)

	return handler
}
