package providers

import (
	"context"

	"github.com/careatlas/provider-lookup/internal/domain/entities"
)

// EnrichmentRequest identifies a provider for a secondary-source lookup.
type EnrichmentRequest struct {
	Name      string
	Specialty string
	City      string
	State     string
}

// EnrichmentProvider is the optional Places collaborator. Absence degrades
// gracefully to registry-only data.
type EnrichmentProvider interface {
	EnrichProvider(ctx context.Context, req EnrichmentRequest) (*entities.Enrichment, error)
}
