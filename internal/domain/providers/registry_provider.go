package providers

import (
	"context"

	"github.com/careatlas/provider-lookup/internal/domain/entities"
)

// RegistryQuery is one lookup against the provider registry. Empty fields are
// omitted from the outbound request.
type RegistryQuery struct {
	FirstName    string
	LastName     string
	Specialty    string // free-text taxonomy description
	TaxonomyCode string // precise taxonomy code, preferred over Specialty when set
	City         string
	State        string // two-letter uppercase
	Limit        int    // registry caps at 50 for this service
}

// Empty reports whether the query carries no constraint at all.
func (q RegistryQuery) Empty() bool {
	return q.FirstName == "" && q.LastName == "" && q.Specialty == "" &&
		q.TaxonomyCode == "" && q.City == "" && q.State == ""
}

// RegistryProvider is the external NPPES collaborator.
type RegistryProvider interface {
	// SearchProviders returns a bounded candidate list. Records may have
	// partial or missing fields; callers must tolerate both.
	SearchProviders(ctx context.Context, query RegistryQuery) ([]*entities.RegistryRecord, error)
}
