package entities

// Confidence is the per-candidate ranking breakdown. All components and the
// total are in [0,100]. Total is computed exactly once by the ranker.
type Confidence struct {
	NameScore      int `json:"name_score"`
	SpecialtyScore int `json:"specialty_score"`
	LocationScore  int `json:"location_score"`
	SourceBonus    int `json:"source_bonus"`
	Total          int `json:"total"`
}

// RankedResult pairs a provider candidate with its confidence breakdown.
type RankedResult struct {
	Provider   *ProviderRecord `json:"provider"`
	Confidence Confidence      `json:"confidence"`
}
