package services

import (
	"sort"
	"strings"

	"github.com/careatlas/provider-lookup/internal/domain/entities"
	"github.com/careatlas/provider-lookup/pkg/fuzzy"
)

const (
	// Threshold ladder. The exact values are tuned, not derived; only the
	// ordering matters: name queries tolerate a lower aggregate bar.
	thresholdDefault        = 60
	thresholdWithName       = 50
	thresholdNoName         = 40
	thresholdNoNameEnriched = 30

	preRankNameThreshold = 60
	enrichmentBonus      = 10

	minPageSize     = 5
	maxPageSize     = 50
	defaultPageSize = 15
)

// RankWeights are the component weights for the confidence total. They must
// sum to 1.
type RankWeights struct {
	Name      float64
	Specialty float64
	Location  float64
}

var weightsWithName = RankWeights{Name: 0.5, Specialty: 0.3, Location: 0.2}
var weightsNoName = RankWeights{Name: 0, Specialty: 0.5, Location: 0.5}

// Pagination describes one page of ranked output.
type Pagination struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	HasMore  bool `json:"has_more"`
}

// RankingService scores candidates against the intent and orders them by
// confidence.
type RankingService struct{}

// NewRankingService creates a ranker.
func NewRankingService() *RankingService {
	return &RankingService{}
}

// Rank scores every candidate, drops those under the threshold, and returns
// the survivors in descending confidence order. Ties keep registry order.
func (s *RankingService) Rank(candidates []*entities.ProviderRecord, intent *entities.SearchIntent, threshold int) []entities.RankedResult {
	candidates = s.preRankNameFilter(candidates, intent)

	results := make([]entities.RankedResult, 0, len(candidates))
	for _, c := range candidates {
		conf := s.score(c, intent)
		if conf.Total < threshold {
			continue
		}
		results = append(results, entities.RankedResult{Provider: c, Confidence: conf})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence.Total > results[j].Confidence.Total
	})
	return results
}

// Threshold picks the active confidence bar for this query shape.
func (s *RankingService) Threshold(intent *entities.SearchIntent, anyEnriched bool) int {
	if intent == nil {
		return thresholdDefault
	}
	if intent.HasName() {
		return thresholdWithName
	}
	if anyEnriched {
		return thresholdNoNameEnriched
	}
	return thresholdNoName
}

// Paginate slices the ranked set. page is 1-based; pageSize is clamped to
// [5,50] with 0 meaning the default.
func (s *RankingService) Paginate(results []entities.RankedResult, page, pageSize int) ([]entities.RankedResult, Pagination) {
	if page < 1 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if pageSize < minPageSize {
		pageSize = minPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total := len(results)
	offset := (page - 1) * pageSize
	pagination := Pagination{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasMore:  offset+pageSize < total,
	}

	if offset >= total {
		return nil, pagination
	}
	end := offset + pageSize
	if end > total {
		end = total
	}
	return results[offset:end], pagination
}

// preRankNameFilter drops sub-60 name matches before scoring. An emptied set
// falls back to the unfiltered one so this filter alone never zeroes a
// non-empty candidate list.
func (s *RankingService) preRankNameFilter(candidates []*entities.ProviderRecord, intent *entities.SearchIntent) []*entities.ProviderRecord {
	if intent == nil || !intent.HasName() || len(candidates) == 0 {
		return candidates
	}
	queryName := intent.Name.Full()
	filtered := make([]*entities.ProviderRecord, 0, len(candidates))
	for _, c := range candidates {
		if fuzzy.MatchName(queryName, c.Name).Score >= preRankNameThreshold {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return candidates
	}
	return filtered
}

func (s *RankingService) score(c *entities.ProviderRecord, intent *entities.SearchIntent) entities.Confidence {
	conf := entities.Confidence{}
	weights := weightsNoName
	if intent != nil && intent.HasName() {
		weights = weightsWithName
		conf.NameScore = fuzzy.MatchName(intent.Name.Full(), c.Name).Score
	}
	if intent != nil && intent.HasSpecialty() {
		conf.SpecialtyScore = specialtyScore(intent.Specialty, c.Specialty)
	}
	if intent != nil && intent.HasLocation() {
		conf.LocationScore = locationScore(intent.Location, c.Location)
	}
	if c.Enriched() {
		conf.SourceBonus = enrichmentBonus
	}

	total := weights.Name*float64(conf.NameScore) +
		weights.Specialty*float64(conf.SpecialtyScore) +
		weights.Location*float64(conf.LocationScore)
	conf.Total = int(total) + conf.SourceBonus
	if conf.Total > 100 {
		conf.Total = 100
	}
	if conf.Total < 0 {
		conf.Total = 0
	}
	return conf
}

// specialtyScore is containment first, fuzzy similarity as the fallback.
func specialtyScore(want, have string) int {
	want = strings.ToLower(strings.TrimSpace(want))
	have = strings.ToLower(strings.TrimSpace(have))
	if want == "" || have == "" {
		return 0
	}
	if strings.Contains(have, want) || strings.Contains(want, have) {
		return 100
	}
	return int(fuzzy.Similarity(want, have) * 100)
}

// locationScore checks city and state containment against the candidate's
// free-text address.
func locationScore(want *entities.IntentLocation, address string) int {
	if want.Empty() || address == "" {
		return 0
	}
	city := strings.ToLower(strings.TrimSpace(want.City))
	state := strings.ToUpper(strings.TrimSpace(want.State))

	cityHit := city != "" && strings.Contains(strings.ToLower(address), city)
	stateHit := state != "" && strings.Contains(strings.ToUpper(address), state)

	switch {
	case cityHit && stateHit:
		return 100
	case cityHit:
		return 80
	case stateHit:
		return 60
	default:
		return 0
	}
}
