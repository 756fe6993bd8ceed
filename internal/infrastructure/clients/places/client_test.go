package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/careatlas/provider-lookup/internal/adapters/cache"
	"github.com/careatlas/provider-lookup/internal/domain/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	client := NewClientWithOptions("test-key", cache.NewMemoryAdapter(10, time.Hour), server.URL, server.Client())
	return client, &calls
}

func TestEnrichProvider_MapsSearchAndDetails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/textsearch/json":
			assert.Contains(t, r.URL.Query().Get("query"), "Andrew Kopstein")
			_, _ = w.Write([]byte(`{
				"status": "OK",
				"results": [{"place_id": "p1", "name": "Andrew Kopstein MD", "rating": 4.5,
					"photos": [{"photo_reference": "ref1"}]}]
			}`))
		case "/details/json":
			assert.Equal(t, "p1", r.URL.Query().Get("place_id"))
			_, _ = w.Write([]byte(`{
				"status": "OK",
				"result": {"formatted_phone_number": "253-555-0100", "website": "https://example.org"}
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	enrichment, err := client.EnrichProvider(context.Background(), providers.EnrichmentRequest{
		Name: "Andrew Kopstein", Specialty: "Ophthalmology", City: "Tacoma", State: "WA",
	})
	require.NoError(t, err)
	require.NotNil(t, enrichment)
	assert.Equal(t, "p1", enrichment.PlaceID)
	assert.Equal(t, 4.5, enrichment.Rating)
	assert.Equal(t, "253-555-0100", enrichment.Phone)
	assert.Equal(t, "https://example.org", enrichment.Website)
	assert.Contains(t, enrichment.PhotoURL, "ref1")
}

func TestEnrichProvider_CachedOnRepeat(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/textsearch/json" {
			_, _ = w.Write([]byte(`{"status": "OK", "results": [{"place_id": "p1", "rating": 4.0}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"status": "OK", "result": {}}`))
	})

	req := providers.EnrichmentRequest{Name: "Jane Smith", City: "Houston", State: "TX"}
	first, err := client.EnrichProvider(context.Background(), req)
	require.NoError(t, err)
	callsAfterFirst := *calls

	second, err := client.EnrichProvider(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, *calls, "repeat lookup must be served from cache")
	assert.Equal(t, first.PlaceID, second.PlaceID)
}

func TestEnrichProvider_ZeroResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	enrichment, err := client.EnrichProvider(context.Background(), providers.EnrichmentRequest{Name: "Nobody Here"})
	require.NoError(t, err)
	assert.Nil(t, enrichment)
}

func TestEnrichProvider_RequiresName(t *testing.T) {
	client := NewClientWithOptions("test-key", nil, "", nil)
	_, err := client.EnrichProvider(context.Background(), providers.EnrichmentRequest{})
	require.Error(t, err)
}

func TestEnrichProvider_DetailsFailureNotFatal(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/textsearch/json" {
			_, _ = w.Write([]byte(`{"status": "OK", "results": [{"place_id": "p1", "rating": 3.5}]}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	enrichment, err := client.EnrichProvider(context.Background(), providers.EnrichmentRequest{Name: "Jane Smith"})
	require.NoError(t, err)
	require.NotNil(t, enrichment)
	assert.Equal(t, "p1", enrichment.PlaceID)
	assert.Empty(t, enrichment.Phone)
}
