package providers

import (
	"context"

	"github.com/careatlas/provider-lookup/internal/domain/entities"
)

// IntentProvider is the optional NLP collaborator for query interpretation.
// Failures and malformed responses are treated identically by the caller:
// control falls through to the deterministic parser.
type IntentProvider interface {
	ParseIntent(ctx context.Context, query string) (*entities.SearchIntent, error)
}
