package entities

import "strings"

// SearchType identifies which structured fields a query resolved to.
type SearchType string

const (
	SearchTypeName              SearchType = "name"
	SearchTypeSpecialty         SearchType = "specialty"
	SearchTypeLocation          SearchType = "location"
	SearchTypeNameSpecialty     SearchType = "name_specialty"
	SearchTypeNameLocation      SearchType = "name_location"
	SearchTypeSpecialtyLocation SearchType = "specialty_location"
	SearchTypeAllFields         SearchType = "name_specialty_location"
	SearchTypeUnknown           SearchType = "unknown"
)

// IntentName holds the name tokens extracted from a query.
type IntentName struct {
	First  string `json:"first,omitempty"`
	Last   string `json:"last,omitempty"`
	Middle string `json:"middle,omitempty"`
}

// Empty reports whether no usable name token is present.
func (n *IntentName) Empty() bool {
	return n == nil || (strings.TrimSpace(n.First) == "" && strings.TrimSpace(n.Last) == "")
}

// Full returns the space-joined first and last name.
func (n *IntentName) Full() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSpace(n.First) + " " + strings.TrimSpace(n.Last))
}

// IntentLocation holds the location fields extracted from a query.
type IntentLocation struct {
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
	Full  string `json:"full,omitempty"`
}

// Empty reports whether no usable location field is present.
func (l *IntentLocation) Empty() bool {
	return l == nil || (strings.TrimSpace(l.City) == "" && strings.TrimSpace(l.State) == "" && strings.TrimSpace(l.Full) == "")
}

// SearchIntent is the structured interpretation of a free-text provider query.
type SearchIntent struct {
	RawQuery   string          `json:"raw_query"`
	Name       *IntentName     `json:"name,omitempty"`
	Specialty  string          `json:"specialty,omitempty"`
	Location   *IntentLocation `json:"location,omitempty"`
	Confidence float64         `json:"confidence"`
}

// HasName reports whether the intent carries a usable name.
func (i *SearchIntent) HasName() bool {
	return i != nil && !i.Name.Empty()
}

// HasSpecialty reports whether the intent carries a canonical specialty.
func (i *SearchIntent) HasSpecialty() bool {
	return i != nil && strings.TrimSpace(i.Specialty) != ""
}

// HasLocation reports whether the intent carries a usable location.
func (i *SearchIntent) HasLocation() bool {
	return i != nil && !i.Location.Empty()
}

// SearchType derives the query shape from which fields are present.
// Always derived, never trusted from an external parser.
func (i *SearchIntent) SearchType() SearchType {
	if i == nil {
		return SearchTypeUnknown
	}
	switch {
	case i.HasName() && i.HasSpecialty() && i.HasLocation():
		return SearchTypeAllFields
	case i.HasName() && i.HasSpecialty():
		return SearchTypeNameSpecialty
	case i.HasName() && i.HasLocation():
		return SearchTypeNameLocation
	case i.HasSpecialty() && i.HasLocation():
		return SearchTypeSpecialtyLocation
	case i.HasName():
		return SearchTypeName
	case i.HasSpecialty():
		return SearchTypeSpecialty
	case i.HasLocation():
		return SearchTypeLocation
	}
	return SearchTypeUnknown
}

// Searchable reports whether the intent carries enough fields to run a
// registry search: a name alone, or any two of name/specialty/location.
func (i *SearchIntent) Searchable() bool {
	if i == nil {
		return false
	}
	if i.HasName() {
		return true
	}
	count := 0
	if i.HasSpecialty() {
		count++
	}
	if i.HasLocation() {
		count++
	}
	return count >= 2
}
