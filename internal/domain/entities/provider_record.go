package entities

// ProviderRecord is a search candidate assembled from the registry response
// plus optional enrichment. Request-scoped; never persisted by this service.
type ProviderRecord struct {
	NPI             string  `json:"npi"`
	Name            string  `json:"name"`
	Specialty       string  `json:"specialty"`
	Location        string  `json:"location"`
	Phone           string  `json:"phone,omitempty"`
	Rating          float64 `json:"rating"`
	YearsExperience int     `json:"years_experience"`
	PlaceID         string  `json:"place_id,omitempty"`
	Website         string  `json:"website,omitempty"`
	PhotoURL        string  `json:"photo_url,omitempty"`
}

// Enriched reports whether a secondary data source confirmed this provider.
func (p *ProviderRecord) Enriched() bool {
	return p != nil && p.PlaceID != ""
}

// Enrichment holds the optional fields supplied by the Places collaborator.
type Enrichment struct {
	Phone    string  `json:"phone,omitempty"`
	Rating   float64 `json:"rating"`
	PlaceID  string  `json:"place_id,omitempty"`
	Website  string  `json:"website,omitempty"`
	PhotoURL string  `json:"photo_url,omitempty"`
}
