package services

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/careatlas/provider-lookup/internal/domain/entities"
	"github.com/careatlas/provider-lookup/internal/domain/providers"
	"github.com/careatlas/provider-lookup/internal/infrastructure/observability"
	"github.com/rs/zerolog/log"
)

const (
	intentCacheKeyPrefix = "intent:v1:"
	intentCacheTTL       = 60 * 60 * 24 // 24 hours
)

// QueryParserService turns one free-text query into a structured intent. The
// NLP collaborator is optional; the deterministic path always exists and the
// parser never returns an error to its caller.
type QueryParserService struct {
	intent    providers.IntentProvider
	specialty *SpecialtyNormalizer
	location  *LocationNormalizer
	names     *NameParser
	cache     providers.CacheProvider
	metrics   *observability.Metrics
}

// NewQueryParserService creates a query parser. intent may be nil, in which
// case only the deterministic path runs. cache may be nil to disable caching.
func NewQueryParserService(
	intent providers.IntentProvider,
	specialty *SpecialtyNormalizer,
	location *LocationNormalizer,
	names *NameParser,
	cache providers.CacheProvider,
	metrics *observability.Metrics,
) *QueryParserService {
	return &QueryParserService{
		intent:    intent,
		specialty: specialty,
		location:  location,
		names:     names,
		cache:     cache,
		metrics:   metrics,
	}
}

// Parse returns the structured intent for a query. Cache hits skip the
// collaborator entirely; collaborator failures fall through to the
// deterministic path.
func (s *QueryParserService) Parse(ctx context.Context, query string) *entities.SearchIntent {
	normalized := strings.ToLower(strings.TrimSpace(query))
	cacheKey := intentCacheKeyPrefix + normalized

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var intent entities.SearchIntent
			if err := json.Unmarshal(cached, &intent); err == nil {
				if s.metrics != nil {
					observability.RecordCacheHit(ctx, s.metrics, "query_parse")
				}
				return &intent
			}
		}
		if s.metrics != nil {
			observability.RecordCacheMiss(ctx, s.metrics, "query_parse")
		}
	}

	var intent *entities.SearchIntent
	if s.intent != nil {
		parsed, err := s.intent.ParseIntent(ctx, query)
		if err != nil {
			log.Warn().Err(err).Str("query", query).Msg("intent collaborator failed, using deterministic parser")
		} else {
			intent = s.sanitize(parsed, query)
		}
	}
	if intent == nil {
		intent = s.parseDeterministic(query)
		if s.metrics != nil && !intent.HasSpecialty() {
			observability.RecordSpecialtyMiss(ctx, s.metrics)
		}
	}

	if s.cache != nil {
		if payload, err := json.Marshal(intent); err == nil {
			_ = s.cache.Set(ctx, cacheKey, payload, intentCacheTTL)
		}
	}

	return intent
}

// sanitize validates every collaborator field defensively. A malformed shape
// returns nil so the caller falls through to the deterministic path.
func (s *QueryParserService) sanitize(parsed *entities.SearchIntent, query string) *entities.SearchIntent {
	if parsed == nil {
		return nil
	}

	intent := &entities.SearchIntent{
		RawQuery:   query,
		Confidence: parsed.Confidence,
	}

	if intent.Confidence < 0 {
		intent.Confidence = 0
	}
	if intent.Confidence > 1 {
		intent.Confidence = 1
	}

	// A present-but-empty name object collapses to no name at all.
	if !parsed.Name.Empty() {
		intent.Name = &entities.IntentName{
			First:  strings.TrimSpace(parsed.Name.First),
			Last:   strings.TrimSpace(parsed.Name.Last),
			Middle: strings.TrimSpace(parsed.Name.Middle),
		}
	}

	if spec := strings.TrimSpace(parsed.Specialty); spec != "" {
		if canonical := s.specialty.Normalize(spec); canonical != "" {
			intent.Specialty = canonical
		} else {
			intent.Specialty = spec
		}
	}

	if !parsed.Location.Empty() {
		loc := &entities.IntentLocation{
			City: strings.TrimSpace(parsed.Location.City),
			Full: strings.TrimSpace(parsed.Location.Full),
		}
		state := strings.ToUpper(strings.TrimSpace(parsed.Location.State))
		if s.location.ValidStateCode(state) {
			loc.State = state
		} else if state != "" {
			// The collaborator sometimes returns a full state name.
			if resolved := s.location.Parse(state); resolved.State != "" {
				loc.State = resolved.State
			}
		}
		if !loc.Empty() {
			intent.Location = loc
		}
	}

	if intent.SearchType() == entities.SearchTypeUnknown {
		return nil
	}
	return intent
}

var prepositionLocationPattern = regexp.MustCompile(`(?i)\b(?:in|near|at)\s+(.+)$`)
var trailingCityStatePattern = regexp.MustCompile(`(?i)(?:^|\s)([a-z .'-]+,\s*[a-z]{2})\s*$`)

// parseDeterministic runs location extraction, then specialty normalization,
// then name parsing against whatever text remains.
func (s *QueryParserService) parseDeterministic(query string) *entities.SearchIntent {
	intent := &entities.SearchIntent{RawQuery: query}
	remainder := collapseWhitespace(query)

	remainder = s.extractLocation(remainder, intent)

	if canonical, matched := s.specialty.NormalizeWithMatch(remainder); canonical != "" {
		intent.Specialty = canonical
		remainder = removeFirstFold(remainder, matched)
	}

	if first, last := s.names.Parse(remainder); first != "" || last != "" {
		intent.Name = &entities.IntentName{First: first, Last: last}
	}

	fields := 0
	if intent.HasName() {
		fields++
	}
	if intent.HasSpecialty() {
		fields++
	}
	if intent.HasLocation() {
		fields++
	}
	if fields == 0 {
		intent.Confidence = 0.1
	} else {
		intent.Confidence = 0.4 + 0.15*float64(fields)
	}

	return intent
}

// extractLocation recognizes "in/near/at X", trailing "City, ST" and trailing
// "City StateName" spans, returning the query with the matched span removed.
func (s *QueryParserService) extractLocation(remainder string, intent *entities.SearchIntent) string {
	if m := prepositionLocationPattern.FindStringSubmatchIndex(remainder); m != nil {
		span := remainder[m[2]:m[3]]
		loc := s.location.Parse(span)
		if !loc.Empty() {
			intent.Location = &entities.IntentLocation{City: loc.City, State: loc.State, Full: span}
			return strings.TrimSpace(remainder[:m[0]])
		}
	}

	if m := trailingCityStatePattern.FindStringSubmatchIndex(remainder); m != nil {
		span := remainder[m[2]:m[3]]
		loc := s.location.Parse(span)
		if loc.State != "" {
			intent.Location = &entities.IntentLocation{City: loc.City, State: loc.State, Full: span}
			return strings.TrimSpace(remainder[:m[2]])
		}
	}

	// Trailing "City StateName": the final one or two words resolve to a
	// state and the word before them is the city.
	words := strings.Fields(remainder)
	for take := 2; take >= 1; take-- {
		if len(words) < take+1 {
			continue
		}
		tail := strings.Join(words[len(words)-take:], " ")
		loc := s.location.Parse(tail)
		if loc.State == "" || loc.City != "" {
			continue
		}
		city := words[len(words)-take-1]
		intent.Location = &entities.IntentLocation{
			City:  city,
			State: loc.State,
			Full:  city + " " + tail,
		}
		return strings.TrimSpace(strings.Join(words[:len(words)-take-1], " "))
	}

	return remainder
}

// removeFirstFold removes the first case-insensitive occurrence of match.
func removeFirstFold(text, match string) string {
	if match == "" {
		return text
	}
	idx := strings.Index(strings.ToLower(text), strings.ToLower(match))
	if idx < 0 {
		return text
	}
	return collapseWhitespace(text[:idx] + " " + text[idx+len(match):])
}
