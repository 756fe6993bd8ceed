package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/careatlas/provider-lookup/internal/api/handlers"
	"github.com/careatlas/provider-lookup/internal/application/services"
	apperrors "github.com/careatlas/provider-lookup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSearchService defines the mock service
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, req services.SearchRequest) (*services.SearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SearchResponse), args.Error(1)
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	handler := handlers.NewSearchHandler(&MockSearchService{})

	req := httptest.NewRequest(http.MethodGet, "/api/providers/search", nil)
	rec := httptest.NewRecorder()
	handler.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchHandler_Success(t *testing.T) {
	svc := &MockSearchService{}
	svc.On("Search", mock.Anything, services.SearchRequest{
		Query:        "cardiologists in Houston, TX",
		RadiusMeters: 10000,
		Page:         2,
		PageSize:     10,
	}).Return(&services.SearchResponse{
		ResultsCount: 0,
		RadiusMeters: 10000,
		Pagination:   services.Pagination{Page: 2, PageSize: 10},
	}, nil)

	handler := handlers.NewSearchHandler(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/providers/search?q=cardiologists+in+Houston,+TX&radius=10000&page=2&pageSize=10", nil)
	rec := httptest.NewRecorder()
	handler.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp services.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Pagination.Page)
	svc.AssertExpectations(t)
}

func TestSearchHandler_TimeoutMapsTo504(t *testing.T) {
	svc := &MockSearchService{}
	svc.On("Search", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewTimeoutError("registry query timed out", nil))

	handler := handlers.NewSearchHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/providers/search?q=jane+smith", nil)
	rec := httptest.NewRecorder()
	handler.Search(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), "retry")
}

func TestSearchHandler_ExternalMapsTo502(t *testing.T) {
	svc := &MockSearchService{}
	svc.On("Search", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewExternalError("registry unavailable", nil))

	handler := handlers.NewSearchHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/providers/search?q=jane+smith", nil)
	rec := httptest.NewRecorder()
	handler.Search(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSearchHandler_InvalidIntParamsFallBack(t *testing.T) {
	svc := &MockSearchService{}
	svc.On("Search", mock.Anything, services.SearchRequest{Query: "jane smith"}).
		Return(&services.SearchResponse{}, nil)

	handler := handlers.NewSearchHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/providers/search?q=jane+smith&page=abc&radius=", nil)
	rec := httptest.NewRecorder()
	handler.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
