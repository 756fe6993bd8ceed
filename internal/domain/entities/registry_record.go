package entities

import (
	"strings"
	"time"
)

// RegistryRecord is a provider as returned by the NPPES registry, normalized
// into the fields the search pipeline depends on. Every field may be missing
// in a real registry response.
type RegistryRecord struct {
	NPI             string
	EnumerationType string
	FirstName       string
	LastName        string
	MiddleName      string
	Credential      string
	Status          string
	EnumerationDate time.Time
	LastUpdated     time.Time
	Addresses       []RegistryAddress
	Taxonomies      []RegistryTaxonomy
}

// RegistryAddress is one practice or mailing address on a registry record.
type RegistryAddress struct {
	Purpose    string // LOCATION or MAILING
	Street     string
	City       string
	State      string
	PostalCode string
	Phone      string
}

// RegistryTaxonomy is one specialty classification on a registry record.
type RegistryTaxonomy struct {
	Code        string
	Description string
	Primary     bool
}

// DisplayName returns "First Last" with the credential appended when present.
func (r *RegistryRecord) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
	if cred := strings.TrimSpace(r.Credential); cred != "" && name != "" {
		return name + ", " + cred
	}
	return name
}

// PrimaryTaxonomy returns the primary specialty description, falling back to
// the first taxonomy entry when none is flagged primary.
func (r *RegistryRecord) PrimaryTaxonomy() string {
	for _, t := range r.Taxonomies {
		if t.Primary && t.Description != "" {
			return t.Description
		}
	}
	if len(r.Taxonomies) > 0 {
		return r.Taxonomies[0].Description
	}
	return ""
}

// LocationAddress returns the first LOCATION-purpose address, falling back to
// the first address of any purpose.
func (r *RegistryRecord) LocationAddress() *RegistryAddress {
	for i := range r.Addresses {
		if strings.EqualFold(r.Addresses[i].Purpose, "LOCATION") {
			return &r.Addresses[i]
		}
	}
	if len(r.Addresses) > 0 {
		return &r.Addresses[0]
	}
	return nil
}

// Active reports whether the record carries an Active status flag.
func (r *RegistryRecord) Active() bool {
	return strings.EqualFold(r.Status, "A") || strings.EqualFold(r.Status, "Active")
}
