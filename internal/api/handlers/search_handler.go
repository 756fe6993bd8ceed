package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/careatlas/provider-lookup/internal/application/services"
	apperrors "github.com/careatlas/provider-lookup/pkg/errors"
)

// SearchService defines the interface for provider search operations
type SearchService interface {
	Search(ctx context.Context, req services.SearchRequest) (*services.SearchResponse, error)
}

// SearchHandler handles provider search requests
type SearchHandler struct {
	service SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service SearchService) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// Search handles GET /api/providers/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}

	req := services.SearchRequest{
		Query:        query,
		RadiusMeters: intQueryParam(r, "radius", 0),
		Page:         intQueryParam(r, "page", 0),
		PageSize:     intQueryParam(r, "pageSize", 0),
	}

	resp, err := h.service.Search(r.Context(), req)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			switch appErr.Type {
			case apperrors.ErrorTypeValidation:
				respondWithError(w, http.StatusBadRequest, appErr.Message)
				return
			case apperrors.ErrorTypeTimeout:
				respondWithJSON(w, http.StatusGatewayTimeout, map[string]string{
					"error":      appErr.Message,
					"suggestion": "The provider registry timed out; please retry",
				})
				return
			case apperrors.ErrorTypeExternal:
				respondWithError(w, http.StatusBadGateway, appErr.Message)
				return
			default:
				respondWithError(w, http.StatusInternalServerError, appErr.Message)
				return
			}
		}
		respondWithError(w, http.StatusInternalServerError, "search failed")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func intQueryParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
