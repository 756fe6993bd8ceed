package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/careatlas/provider-lookup/internal/domain/entities"
	"github.com/careatlas/provider-lookup/internal/domain/providers"
	"github.com/careatlas/provider-lookup/internal/infrastructure/observability"
	apperrors "github.com/careatlas/provider-lookup/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	minRadiusMeters     = 1
	maxRadiusMeters     = 50000
	defaultRadiusMeters = 5000

	// Enrichment is billed per lookup, so only the head of the candidate
	// set is sent to the collaborator.
	enrichmentCandidateCap = 15
	enrichmentConcurrency  = 5
)

// SearchRequest is the inbound search contract.
type SearchRequest struct {
	Query        string `json:"query"`
	RadiusMeters int    `json:"radius_meters"`
	Page         int    `json:"page"`
	PageSize     int    `json:"page_size"`
}

// SearchResponse is the inbound search result. Validation failures and zero
// results are success-shaped: Error and Suggestions are populated instead of
// failing the request.
type SearchResponse struct {
	Results            []entities.RankedResult `json:"results"`
	ResultsCount       int                     `json:"results_count"`
	Pagination         Pagination              `json:"pagination"`
	EffectiveSpecialty string                  `json:"effective_specialty,omitempty"`
	RadiusMeters       int                     `json:"radius_meters"`
	Error              string                  `json:"error,omitempty"`
	Suggestions        []string                `json:"suggestions,omitempty"`
}

// ProviderSearchService runs the full pipeline: parse, search, enrich, rank,
// paginate.
type ProviderSearchService struct {
	parser   *QueryParserService
	strategy *SearchStrategyService
	ranker   *RankingService
	enricher providers.EnrichmentProvider
	metrics  *observability.Metrics
}

// NewProviderSearchService creates the search pipeline. enricher may be nil;
// results then carry registry-only data with a zero rating.
func NewProviderSearchService(
	parser *QueryParserService,
	strategy *SearchStrategyService,
	ranker *RankingService,
	enricher providers.EnrichmentProvider,
	metrics *observability.Metrics,
) *ProviderSearchService {
	return &ProviderSearchService{
		parser:   parser,
		strategy: strategy,
		ranker:   ranker,
		enricher: enricher,
		metrics:  metrics,
	}
}

// Search executes one provider lookup. Only unrecoverable registry failures
// return a non-nil error; everything else is expressed in the response.
func (s *ProviderSearchService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, apperrors.NewValidationError("query text is required")
	}

	radius := clampRadius(req.RadiusMeters)
	intent := s.parser.Parse(ctx, req.Query)

	strategyResult, err := s.strategy.Search(ctx, intent)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Type == apperrors.ErrorTypeValidation {
			return &SearchResponse{
				Results:      []entities.RankedResult{},
				RadiusMeters: radius,
				Error:        appErr.Message,
				Suggestions:  s.validationSuggestions(intent),
			}, nil
		}
		return nil, err
	}

	candidates := strategyResult.Providers
	s.enrichCandidates(ctx, candidates, intent)

	anyEnriched := false
	for _, c := range candidates {
		if c.Enriched() {
			anyEnriched = true
			break
		}
	}

	threshold := s.ranker.Threshold(intent, anyEnriched)
	ranked := s.ranker.Rank(candidates, intent, threshold)
	page, pagination := s.ranker.Paginate(ranked, req.Page, req.PageSize)

	resp := &SearchResponse{
		Results:            page,
		ResultsCount:       pagination.Total,
		Pagination:         pagination,
		EffectiveSpecialty: strategyResult.EffectiveSpecialty,
		RadiusMeters:       radius,
	}
	if resp.Results == nil {
		resp.Results = []entities.RankedResult{}
	}
	if pagination.Total == 0 {
		resp.Suggestions = s.zeroResultSuggestions(intent, radius)
	}
	return resp, nil
}

// enrichCandidates calls the optional collaborator for the head of the
// candidate set, concurrently and best-effort.
func (s *ProviderSearchService) enrichCandidates(ctx context.Context, candidates []*entities.ProviderRecord, intent *entities.SearchIntent) {
	if s.enricher == nil || len(candidates) == 0 {
		return
	}

	head := candidates
	if len(head) > enrichmentCandidateCap {
		head = head[:enrichmentCandidateCap]
	}

	city, state := "", ""
	if intent.HasLocation() {
		city = intent.Location.City
		state = intent.Location.State
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, enrichmentConcurrency)
	for _, candidate := range head {
		wg.Add(1)
		sem <- struct{}{}
		go func(c *entities.ProviderRecord) {
			defer wg.Done()
			defer func() { <-sem }()

			enrichment, err := s.enricher.EnrichProvider(ctx, providers.EnrichmentRequest{
				Name:      c.Name,
				Specialty: c.Specialty,
				City:      city,
				State:     state,
			})
			if err != nil {
				log.Debug().Err(err).Str("npi", c.NPI).Msg("enrichment failed")
				return
			}
			if enrichment == nil {
				return
			}
			c.Rating = enrichment.Rating
			c.PlaceID = enrichment.PlaceID
			c.Website = enrichment.Website
			c.PhotoURL = enrichment.PhotoURL
			if c.Phone == "" {
				c.Phone = enrichment.Phone
			}
		}(candidate)
	}
	wg.Wait()
}

// validationSuggestions tells the user which fields would make the query
// searchable.
func (s *ProviderSearchService) validationSuggestions(intent *entities.SearchIntent) []string {
	suggestions := []string{
		"Provide at least two of: provider name, specialty, location (or a full provider name alone)",
	}
	if !intent.HasLocation() {
		suggestions = append(suggestions, "Add a city or state, e.g. \"in Houston, TX\"")
	}
	if !intent.HasSpecialty() {
		suggestions = append(suggestions, "Add a specialty, e.g. \"cardiologist\"")
	}
	if !intent.HasName() {
		suggestions = append(suggestions, "Add a provider name, e.g. \"Dr. Jane Smith\"")
	}
	return suggestions
}

// zeroResultSuggestions is generated deterministically from which fields were
// absent; zero results is a terminal state, not an error.
func (s *ProviderSearchService) zeroResultSuggestions(intent *entities.SearchIntent, radius int) []string {
	var suggestions []string
	if !intent.HasLocation() {
		suggestions = append(suggestions, "Add a location to narrow the search")
	} else if radius < maxRadiusMeters {
		suggestions = append(suggestions, "Try widening the search radius")
	}
	if !intent.HasSpecialty() {
		suggestions = append(suggestions, "Add a specialty to the search")
	} else {
		if broader := s.strategy.specialty.BroaderCategory(intent.Specialty); broader != "" {
			suggestions = append(suggestions, fmt.Sprintf("Try the broader specialty %q", broader))
		}
		for _, related := range s.strategy.specialty.RelatedCategories(intent.Specialty) {
			suggestions = append(suggestions, fmt.Sprintf("Try the related specialty %q", related))
		}
	}
	if intent.HasName() {
		suggestions = append(suggestions, "Check the spelling of the provider name")
	}
	return suggestions
}

func clampRadius(radius int) int {
	if radius <= 0 {
		return defaultRadiusMeters
	}
	if radius < minRadiusMeters {
		return minRadiusMeters
	}
	if radius > maxRadiusMeters {
		return maxRadiusMeters
	}
	return radius
}
