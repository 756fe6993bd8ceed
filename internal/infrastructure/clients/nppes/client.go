package nppes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/careatlas/provider-lookup/internal/domain/entities"
	"github.com/careatlas/provider-lookup/internal/domain/providers"
	"github.com/careatlas/provider-lookup/pkg/config"
	apperrors "github.com/careatlas/provider-lookup/pkg/errors"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultBaseURL = "https://npiregistry.cms.hhs.gov/api/"
	apiVersion     = "2.1"
	maxLimit       = 50
	defaultTimeout = 25 * time.Second
)

// Client queries the public NPPES provider registry over HTTP. Calls go
// through a circuit breaker so a degraded registry fails fast instead of
// holding every in-flight search at the full timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a new NPPES registry client.
func NewClient(cfg *config.RegistryConfig) *Client {
	baseURL := defaultBaseURL
	timeout := defaultTimeout
	if cfg != nil {
		if strings.TrimSpace(cfg.BaseURL) != "" {
			baseURL = cfg.BaseURL
		}
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "nppes",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: breaker,
	}
}

// NewClientWithOptions allows overriding the HTTP client (used for tests).
func NewClientWithOptions(cfg *config.RegistryConfig, httpClient *http.Client) *Client {
	c := NewClient(cfg)
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

// SearchProviders implements providers.RegistryProvider.
func (c *Client) SearchProviders(ctx context.Context, query providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
	if query.Empty() {
		return nil, apperrors.NewValidationError("registry query requires at least one field")
	}

	params := url.Values{}
	params.Set("version", apiVersion)
	params.Set("enumeration_type", "NPI-1")
	if query.FirstName != "" {
		params.Set("first_name", query.FirstName)
	}
	if query.LastName != "" {
		params.Set("last_name", query.LastName)
	}
	if query.TaxonomyCode != "" {
		params.Set("taxonomy_description", query.TaxonomyCode)
	} else if query.Specialty != "" {
		params.Set("taxonomy_description", query.Specialty)
	}
	if query.City != "" {
		params.Set("city", query.City)
	}
	if query.State != "" {
		params.Set("state", strings.ToUpper(query.State))
	}

	limit := query.Limit
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}
	params.Set("limit", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s/?%s", c.baseURL, params.Encode())

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doSearch(ctx, endpoint)
	})
	recordRegistryMetric(ctx, time.Since(start), err)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("registry query timed out", err)
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperrors.NewExternalError("registry temporarily unavailable", err)
		}
		return nil, apperrors.NewExternalError("registry query failed", err)
	}

	resp := result.(*apiResponse)
	records := make([]*entities.RegistryRecord, 0, len(resp.Results))
	for i := range resp.Results {
		records = append(records, mapProvider(&resp.Results[i]))
	}
	return records, nil
}

func (c *Client) doSearch(ctx context.Context, endpoint string) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}

	return &payload, nil
}

func mapProvider(p *apiProvider) *entities.RegistryRecord {
	record := &entities.RegistryRecord{
		NPI:             p.Number,
		EnumerationType: p.EnumerationType,
		FirstName:       p.Basic.FirstName,
		LastName:        p.Basic.LastName,
		MiddleName:      p.Basic.MiddleName,
		Credential:      p.Basic.Credential,
		Status:          p.Basic.Status,
	}

	if ts := p.LastUpdatedEpoch.Int64(); ts > 0 {
		record.LastUpdated = time.Unix(ts, 0).UTC()
	}
	if p.Basic.EnumerationDate != "" {
		if t, err := time.Parse("2006-01-02", p.Basic.EnumerationDate); err == nil {
			record.EnumerationDate = t
		}
	}

	for _, a := range p.Addresses {
		record.Addresses = append(record.Addresses, entities.RegistryAddress{
			Purpose:    a.AddressPurpose,
			Street:     strings.TrimSpace(strings.TrimSpace(a.Address1) + " " + strings.TrimSpace(a.Address2)),
			City:       a.City,
			State:      a.State,
			PostalCode: a.PostalCode,
			Phone:      a.TelephoneNumber,
		})
	}

	for _, t := range p.Taxonomies {
		record.Taxonomies = append(record.Taxonomies, entities.RegistryTaxonomy{
			Code:        t.Code,
			Description: t.Desc,
			Primary:     t.Primary,
		})
	}

	return record
}

var (
	registryMetricsInit     bool
	registryRequestCount    metric.Int64Counter
	registryRequestDuration metric.Float64Histogram
)

func ensureRegistryMetrics() {
	if registryMetricsInit {
		return
	}
	meter := otel.Meter("github.com/careatlas/provider-lookup/nppes")

	count, err := meter.Int64Counter(
		"registry.request.count",
		metric.WithDescription("Number of NPPES registry requests"),
	)
	if err != nil {
		return
	}
	duration, err := meter.Float64Histogram(
		"registry.request.duration",
		metric.WithDescription("NPPES registry request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}

	registryRequestCount = count
	registryRequestDuration = duration
	registryMetricsInit = true
}

func recordRegistryMetric(ctx context.Context, duration time.Duration, err error) {
	ensureRegistryMetrics()
	if !registryMetricsInit {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.Bool("registry.error", err != nil),
	}
	registryRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	registryRequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
