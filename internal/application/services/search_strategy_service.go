package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/careatlas/provider-lookup/internal/domain/entities"
	"github.com/careatlas/provider-lookup/internal/domain/providers"
	"github.com/careatlas/provider-lookup/internal/infrastructure/observability"
	"github.com/careatlas/provider-lookup/pkg/errors"
	"github.com/careatlas/provider-lookup/pkg/fuzzy"
	"github.com/rs/zerolog/log"
)

const (
	registryResultLimit  = 50
	lastResortCap        = 50
	activeUpdatedWithin  = 5 * 365 * 24 * time.Hour
	postHocNameThreshold = 60
)

// StrategyResult is the assembled candidate set plus the specialty that was
// actually searched, which may differ from the intent's after fallback.
type StrategyResult struct {
	Providers          []*entities.ProviderRecord
	EffectiveSpecialty string
	FallbackSteps      []string
}

// SearchStrategyService selects a registry query shape from the intent,
// executes the fallback expansion cascade while the result set is empty, and
// applies the post-assembly filters.
type SearchStrategyService struct {
	registry  providers.RegistryProvider
	specialty *SpecialtyNormalizer
	location  *LocationNormalizer
	metrics   *observability.Metrics
}

// NewSearchStrategyService creates a search strategy engine.
func NewSearchStrategyService(
	registry providers.RegistryProvider,
	specialty *SpecialtyNormalizer,
	location *LocationNormalizer,
	metrics *observability.Metrics,
) *SearchStrategyService {
	return &SearchStrategyService{
		registry:  registry,
		specialty: specialty,
		location:  location,
		metrics:   metrics,
	}
}

// Search executes the strategy for the intent. An unsearchable intent returns
// a validation error; zero results with a searchable intent is a valid state,
// not an error.
func (s *SearchStrategyService) Search(ctx context.Context, intent *entities.SearchIntent) (*StrategyResult, error) {
	if !intent.Searchable() {
		return nil, errors.NewValidationError(
			"insufficient search parameters: provide a provider name, or at least two of name, specialty and location")
	}

	result := &StrategyResult{EffectiveSpecialty: intent.Specialty}

	records, err := s.runStrategy(ctx, intent, intent.Specialty)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		records, err = s.runFallbacks(ctx, intent, result)
		if err != nil {
			return nil, err
		}
	}

	candidates := dedupeByNPI(s.toProviderRecords(records))
	candidates = s.applyLocationFilter(candidates, intent)
	candidates = s.applyNameFilter(candidates, intent)

	result.Providers = candidates
	return result, nil
}

// runStrategy issues one registry query keyed by which intent fields are
// present and applies the strategy's post-filter.
func (s *SearchStrategyService) runStrategy(ctx context.Context, intent *entities.SearchIntent, specialty string) ([]*entities.RegistryRecord, error) {
	query := s.buildQuery(intent, specialty, true, true)
	records, err := s.execute(ctx, string(intent.SearchType()), query)
	if err != nil {
		return nil, err
	}

	// Specialty-led queries without a name need the strict active-provider
	// filter; anything carrying a name gets the lenient one.
	if intent.HasName() {
		return filterRecords(records, lenientFilter), nil
	}
	return filterRecords(records, strictActiveFilter), nil
}

// runFallbacks walks the expansion cascade while the result set stays empty.
// Each step that substitutes a specialty updates the effective specialty so
// downstream display stays consistent with what was searched.
func (s *SearchStrategyService) runFallbacks(ctx context.Context, intent *entities.SearchIntent, result *StrategyResult) ([]*entities.RegistryRecord, error) {
	filter := lenientFilter
	if !intent.HasName() {
		filter = strictActiveFilter
	}

	trySpecialty := func(step, specialty string) ([]*entities.RegistryRecord, error) {
		s.recordFallback(ctx, step)
		result.FallbackSteps = append(result.FallbackSteps, step)
		records, err := s.execute(ctx, step, s.buildQuery(intent, specialty, true, true))
		if err != nil {
			return nil, err
		}
		records = filterRecords(records, filter)
		if len(records) > 0 {
			result.EffectiveSpecialty = specialty
		}
		return records, nil
	}

	// Steps 1-3 substitute progressively looser specialty terms.
	if intent.HasSpecialty() {
		if broader := s.specialty.BroaderCategory(intent.Specialty); broader != "" {
			records, err := trySpecialty("broader_specialty", broader)
			if err != nil || len(records) > 0 {
				return records, err
			}
		}

		for _, related := range s.specialty.RelatedCategories(intent.Specialty) {
			records, err := trySpecialty("related_specialty", related)
			if err != nil || len(records) > 0 {
				return records, err
			}
		}

		for _, legacy := range s.specialty.LegacyAlternatives(intent.Specialty) {
			records, err := trySpecialty("legacy_term", legacy)
			if err != nil || len(records) > 0 {
				return records, err
			}
		}
	}

	// Step 4: drop location, keep name+specialty.
	if intent.HasName() && intent.HasSpecialty() && intent.HasLocation() {
		s.recordFallback(ctx, "drop_location")
		result.FallbackSteps = append(result.FallbackSteps, "drop_location")
		records, err := s.execute(ctx, "drop_location", s.buildQuery(intent, intent.Specialty, false, true))
		if err != nil {
			return nil, err
		}
		if records = filterRecords(records, lenientFilter); len(records) > 0 {
			return records, nil
		}
	}

	// Step 5: drop specialty, keep name+location.
	if intent.HasName() && intent.HasSpecialty() && intent.HasLocation() {
		s.recordFallback(ctx, "drop_specialty")
		result.FallbackSteps = append(result.FallbackSteps, "drop_specialty")
		records, err := s.execute(ctx, "drop_specialty", s.buildQuery(intent, "", true, false))
		if err != nil {
			return nil, err
		}
		if records = filterRecords(records, lenientFilter); len(records) > 0 {
			result.EffectiveSpecialty = ""
			return records, nil
		}
	}

	// Step 6: broadest query on the single most informative field, with a
	// minimal validity filter and a hard cap.
	s.recordFallback(ctx, "last_resort")
	result.FallbackSteps = append(result.FallbackSteps, "last_resort")
	query := s.lastResortQuery(intent)
	if query.Empty() {
		return nil, nil
	}
	records, err := s.execute(ctx, "last_resort", query)
	if err != nil {
		return nil, err
	}
	records = filterRecords(records, minimalValidityFilter)
	if len(records) > lastResortCap {
		records = records[:lastResortCap]
	}
	if len(records) > 0 && query.Specialty == "" && query.TaxonomyCode == "" {
		result.EffectiveSpecialty = ""
	}
	return records, nil
}

// buildQuery maps the intent onto registry parameters. The taxonomy code is
// preferred over the free-text description when the specialty maps to one.
func (s *SearchStrategyService) buildQuery(intent *entities.SearchIntent, specialty string, includeLocation, includeSpecialty bool) providers.RegistryQuery {
	query := providers.RegistryQuery{Limit: registryResultLimit}

	if intent.HasName() {
		query.FirstName = intent.Name.First
		query.LastName = intent.Name.Last
	}
	if includeSpecialty && specialty != "" {
		if code := s.specialty.TaxonomyCode(specialty); code != "" {
			query.TaxonomyCode = code
		} else {
			query.Specialty = specialty
		}
	}
	if includeLocation && intent.HasLocation() {
		query.City = intent.Location.City
		query.State = strings.ToUpper(intent.Location.State)
		if query.City == "" && query.State == "" && intent.Location.Full != "" {
			loc := s.location.Parse(intent.Location.Full)
			query.City = loc.City
			query.State = loc.State
		}
	}

	return query
}

// lastResortQuery keeps only the single most informative field: last name,
// then specialty, then state.
func (s *SearchStrategyService) lastResortQuery(intent *entities.SearchIntent) providers.RegistryQuery {
	query := providers.RegistryQuery{Limit: lastResortCap}
	switch {
	case intent.HasName() && intent.Name.Last != "":
		query.LastName = intent.Name.Last
	case intent.HasSpecialty():
		if code := s.specialty.TaxonomyCode(intent.Specialty); code != "" {
			query.TaxonomyCode = code
		} else {
			query.Specialty = intent.Specialty
		}
	case intent.HasLocation() && intent.Location.State != "":
		query.State = strings.ToUpper(intent.Location.State)
	case intent.HasLocation() && intent.Location.City != "":
		query.City = intent.Location.City
	}
	return query
}

func (s *SearchStrategyService) execute(ctx context.Context, strategy string, query providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
	if query.Empty() {
		return nil, nil
	}
	start := time.Now()
	records, err := s.registry.SearchProviders(ctx, query)
	if s.metrics != nil {
		observability.RecordRegistryMetric(ctx, s.metrics, strategy, time.Since(start))
	}
	if err != nil {
		log.Warn().Err(err).Str("strategy", strategy).Msg("registry query failed")
		return nil, err
	}
	return records, nil
}

func (s *SearchStrategyService) recordFallback(ctx context.Context, step string) {
	if s.metrics != nil {
		observability.RecordFallback(ctx, s.metrics, step)
	}
}

// applyNameFilter drops candidates whose name scores under 60 against the
// intent name. An emptied set falls back to the unfiltered one; the registry's
// own name matching is sometimes stricter than ours.
func (s *SearchStrategyService) applyNameFilter(candidates []*entities.ProviderRecord, intent *entities.SearchIntent) []*entities.ProviderRecord {
	if !intent.HasName() || len(candidates) == 0 {
		return candidates
	}
	queryName := intent.Name.Full()
	filtered := make([]*entities.ProviderRecord, 0, len(candidates))
	for _, c := range candidates {
		if fuzzy.MatchName(queryName, c.Name).Score >= postHocNameThreshold {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return candidates
	}
	return filtered
}

// applyLocationFilter enforces the supplied city/state. Location is never
// soft: this runs regardless of which other fields were present.
func (s *SearchStrategyService) applyLocationFilter(candidates []*entities.ProviderRecord, intent *entities.SearchIntent) []*entities.ProviderRecord {
	if !intent.HasLocation() {
		return candidates
	}
	city := strings.ToLower(strings.TrimSpace(intent.Location.City))
	state := strings.ToUpper(strings.TrimSpace(intent.Location.State))

	filtered := make([]*entities.ProviderRecord, 0, len(candidates))
	for _, c := range candidates {
		loc := strings.ToLower(c.Location)
		cityOK := city == "" || strings.Contains(loc, city)
		stateOK := state == "" || strings.Contains(strings.ToUpper(c.Location), state)
		if cityOK && stateOK {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// toProviderRecords flattens registry records into search candidates.
func (s *SearchStrategyService) toProviderRecords(records []*entities.RegistryRecord) []*entities.ProviderRecord {
	out := make([]*entities.ProviderRecord, 0, len(records))
	for _, r := range records {
		out = append(out, &entities.ProviderRecord{
			NPI:             r.NPI,
			Name:            r.DisplayName(),
			Specialty:       r.PrimaryTaxonomy(),
			Location:        formatRecordLocation(r),
			Phone:           recordPhone(r),
			YearsExperience: yearsSince(r.EnumerationDate),
		})
	}
	return out
}

func formatRecordLocation(r *entities.RegistryRecord) string {
	addr := r.LocationAddress()
	if addr == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	if addr.Street != "" {
		parts = append(parts, addr.Street)
	}
	if addr.City != "" {
		parts = append(parts, addr.City)
	}
	if addr.State != "" {
		tail := addr.State
		if addr.PostalCode != "" {
			tail = fmt.Sprintf("%s %s", addr.State, addr.PostalCode)
		}
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

func recordPhone(r *entities.RegistryRecord) string {
	if addr := r.LocationAddress(); addr != nil {
		return addr.Phone
	}
	return ""
}

func yearsSince(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	years := int(time.Since(t).Hours() / (24 * 365))
	if years < 0 {
		return 0
	}
	return years
}

// lenientFilter keeps any record with both name parts and at least one
// address.
func lenientFilter(r *entities.RegistryRecord) bool {
	return r.FirstName != "" && r.LastName != "" && len(r.Addresses) > 0
}

// strictActiveFilter is applied to specialty-led queries with no name, where
// the registry returns a much noisier set.
func strictActiveFilter(r *entities.RegistryRecord) bool {
	if !r.Active() {
		return false
	}
	if r.LastUpdated.IsZero() || time.Since(r.LastUpdated) > activeUpdatedWithin {
		return false
	}
	addr := r.LocationAddress()
	if addr == nil || !strings.EqualFold(addr.Purpose, "LOCATION") || addr.Street == "" {
		return false
	}
	return r.FirstName != "" && r.LastName != ""
}

// minimalValidityFilter is the last-resort bar: a name, an address, and not
// explicitly deactivated.
func minimalValidityFilter(r *entities.RegistryRecord) bool {
	if r.LastName == "" || len(r.Addresses) == 0 {
		return false
	}
	return !strings.EqualFold(r.Status, "D") && !strings.EqualFold(r.Status, "Deactivated")
}

func filterRecords(records []*entities.RegistryRecord, keep func(*entities.RegistryRecord) bool) []*entities.RegistryRecord {
	out := make([]*entities.RegistryRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func dedupeByNPI(candidates []*entities.ProviderRecord) []*entities.ProviderRecord {
	seen := make(map[string]bool, len(candidates))
	out := make([]*entities.ProviderRecord, 0, len(candidates))
	for _, c := range candidates {
		if c.NPI != "" && seen[c.NPI] {
			continue
		}
		seen[c.NPI] = true
		out = append(out, c)
	}
	return out
}
