package places

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/careatlas/provider-lookup/internal/domain/entities"
	"github.com/careatlas/provider-lookup/internal/domain/providers"
	"github.com/careatlas/provider-lookup/pkg/retry"
	"github.com/rs/zerolog/log"
)

const (
	placesTextSearchURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	placesDetailsURL    = "https://maps.googleapis.com/maps/api/place/details/json"
	photoURLTemplate    = "https://maps.googleapis.com/maps/api/place/photo?maxwidth=400&photo_reference=%s&key=%s"
	enrichmentCacheTTL  = 60 * 60 * 24 // 24 hours
	defaultHTTPTimeout  = 8 * time.Second
)

// Client implements the enrichment provider using the Places text search and
// details APIs. Results are cached so repeat searches for the same provider
// do not re-bill.
type Client struct {
	apiKey     string
	httpClient *http.Client
	cache      providers.CacheProvider
	searchURL  string
	detailsURL string
}

// NewClient creates a new Places enrichment client.
func NewClient(apiKey string, cache providers.CacheProvider) *Client {
	return NewClientWithOptions(apiKey, cache, "", nil)
}

// NewClientWithOptions allows overriding base URL and HTTP client (used for tests).
func NewClientWithOptions(apiKey string, cache providers.CacheProvider, baseURL string, httpClient *http.Client) *Client {
	searchURL := placesTextSearchURL
	detailsURL := placesDetailsURL
	if strings.TrimSpace(baseURL) != "" {
		searchURL = strings.TrimRight(baseURL, "/") + "/textsearch/json"
		detailsURL = strings.TrimRight(baseURL, "/") + "/details/json"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      cache,
		searchURL:  searchURL,
		detailsURL: detailsURL,
	}
}

// EnrichProvider implements providers.EnrichmentProvider.
func (c *Client) EnrichProvider(ctx context.Context, req providers.EnrichmentRequest) (*entities.Enrichment, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("places api key is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("provider name is required")
	}

	query := buildSearchQuery(req)
	cacheKey := "places:v1:enrich:" + hashKey(strings.ToLower(query))
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var enrichment entities.Enrichment
			if err := json.Unmarshal(cached, &enrichment); err == nil {
				return &enrichment, nil
			}
		}
	}

	var result *textSearchResult
	cfg := retry.Config{
		MaxAttempts:     2,
		InitialDelay:    200 * time.Millisecond,
		MaxDelay:        time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: defaultHTTPTimeout * 2,
	}
	err := retry.DoWithLog(ctx, cfg, "places", func() error {
		var innerErr error
		result, innerErr = c.doTextSearch(ctx, query)
		return innerErr
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).Msg("places text search retry")
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	enrichment := &entities.Enrichment{
		PlaceID: result.PlaceID,
		Rating:  result.Rating,
	}
	if len(result.Photos) > 0 && result.Photos[0].PhotoReference != "" {
		enrichment.PhotoURL = fmt.Sprintf(photoURLTemplate, result.Photos[0].PhotoReference, c.apiKey)
	}

	// Phone and website require a details call; failure here is not fatal.
	if result.PlaceID != "" {
		if details, err := c.doDetails(ctx, result.PlaceID); err == nil && details != nil {
			enrichment.Phone = details.FormattedPhoneNumber
			enrichment.Website = details.Website
		} else if err != nil {
			log.Debug().Err(err).Str("place_id", result.PlaceID).Msg("places details lookup failed")
		}
	}

	if c.cache != nil {
		if payload, err := json.Marshal(enrichment); err == nil {
			_ = c.cache.Set(ctx, cacheKey, payload, enrichmentCacheTTL)
		}
	}

	return enrichment, nil
}

func buildSearchQuery(req providers.EnrichmentRequest) string {
	parts := []string{req.Name}
	if req.Specialty != "" {
		parts = append(parts, req.Specialty)
	}
	if req.City != "" {
		parts = append(parts, req.City)
	}
	if req.State != "" {
		parts = append(parts, req.State)
	}
	return strings.Join(parts, " ")
}

func (c *Client) doTextSearch(ctx context.Context, query string) (*textSearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)

	var payload textSearchResponse
	if err := c.doJSON(ctx, fmt.Sprintf("%s?%s", c.searchURL, params.Encode()), &payload); err != nil {
		return nil, err
	}

	if payload.Status == "ZERO_RESULTS" || len(payload.Results) == 0 {
		return nil, nil
	}
	if payload.Status != "OK" {
		if payload.ErrorMessage != "" {
			return nil, fmt.Errorf("places text search failed: %s - %s", payload.Status, payload.ErrorMessage)
		}
		return nil, fmt.Errorf("places text search failed: %s", payload.Status)
	}

	return &payload.Results[0], nil
}

func (c *Client) doDetails(ctx context.Context, placeID string) (*detailsResult, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "formatted_phone_number,website")
	params.Set("key", c.apiKey)

	var payload detailsResponse
	if err := c.doJSON(ctx, fmt.Sprintf("%s?%s", c.detailsURL, params.Encode()), &payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" {
		return nil, fmt.Errorf("places details failed: %s", payload.Status)
	}
	return &payload.Result, nil
}

func (c *Client) doJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build places request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("places request returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode places response: %w", err)
	}
	return nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

type textSearchResponse struct {
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message,omitempty"`
	Results      []textSearchResult `json:"results"`
}

type textSearchResult struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	Rating           float64 `json:"rating"`
	Photos           []photo `json:"photos"`
}

type photo struct {
	PhotoReference string `json:"photo_reference"`
}

type detailsResponse struct {
	Status string        `json:"status"`
	Result detailsResult `json:"result"`
}

type detailsResult struct {
	FormattedPhoneNumber string `json:"formatted_phone_number"`
	Website              string `json:"website"`
}
