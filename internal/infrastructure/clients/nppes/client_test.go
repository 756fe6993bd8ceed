package nppes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/careatlas/provider-lookup/internal/domain/providers"
	"github.com/careatlas/provider-lookup/pkg/config"
	apperrors "github.com/careatlas/provider-lookup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "result_count": 1,
  "results": [
    {
      "number": "1234567893",
      "enumeration_type": "NPI-1",
      "created_epoch": "1100000000",
      "last_updated_epoch": 1700000000,
      "basic": {
        "first_name": "ANDREW",
        "last_name": "KOPSTEIN",
        "middle_name": "M",
        "credential": "MD",
        "enumeration_date": "2008-03-12",
        "status": "A"
      },
      "addresses": [
        {
          "address_purpose": "LOCATION",
          "address_1": "123 MAIN ST",
          "city": "TACOMA",
          "state": "WA",
          "postal_code": "98402",
          "telephone_number": "253-555-0100"
        }
      ],
      "taxonomies": [
        {"code": "207W00000X", "desc": "Ophthalmology", "primary": true}
      ]
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(&config.RegistryConfig{BaseURL: server.URL, Timeout: 2 * time.Second})
	return client, server
}

func TestSearchProviders_MapsResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "KOPSTEIN", r.URL.Query().Get("last_name"))
		assert.Equal(t, "WA", r.URL.Query().Get("state"))
		assert.Equal(t, "2.1", r.URL.Query().Get("version"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	})

	records, err := client.SearchProviders(context.Background(), providers.RegistryQuery{
		LastName: "KOPSTEIN",
		State:    "wa",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "1234567893", rec.NPI)
	assert.Equal(t, "ANDREW", rec.FirstName)
	assert.True(t, rec.Active())
	assert.Equal(t, "Ophthalmology", rec.PrimaryTaxonomy())

	addr := rec.LocationAddress()
	require.NotNil(t, addr)
	assert.Equal(t, "TACOMA", addr.City)
	assert.Equal(t, "123 MAIN ST", addr.Street)

	// Mixed string/int epochs both decode
	assert.Equal(t, int64(1700000000), rec.LastUpdated.Unix())
	assert.Equal(t, 2008, rec.EnumerationDate.Year())
}

func TestSearchProviders_EmptyQueryRejected(t *testing.T) {
	client := NewClient(nil)
	_, err := client.SearchProviders(context.Background(), providers.RegistryQuery{})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestSearchProviders_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.SearchProviders(context.Background(), providers.RegistryQuery{LastName: "SMITH"})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
}

func TestSearchProviders_LimitCapped(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"result_count":0,"results":[]}`))
	})

	records, err := client.SearchProviders(context.Background(), providers.RegistryQuery{
		LastName: "SMITH",
		Limit:    500,
	})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearchProviders_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})

	query := providers.RegistryQuery{LastName: "SMITH"}
	for i := 0; i < 5; i++ {
		_, err := client.SearchProviders(context.Background(), query)
		require.Error(t, err)
	}

	// Breaker is open now; the request never reaches the server.
	before := calls
	_, err := client.SearchProviders(context.Background(), query)
	require.Error(t, err)
	assert.Equal(t, before, calls)
}
