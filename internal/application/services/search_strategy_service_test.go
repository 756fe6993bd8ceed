package services

import (
	"context"
	"testing"
	"time"

	"github.com/careatlas/provider-lookup/internal/domain/entities"
	"github.com/careatlas/provider-lookup/internal/domain/providers"
	apperrors "github.com/careatlas/provider-lookup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	respond func(query providers.RegistryQuery) ([]*entities.RegistryRecord, error)
	queries []providers.RegistryQuery
}

func (f *fakeRegistry) SearchProviders(_ context.Context, query providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
	f.queries = append(f.queries, query)
	if f.respond == nil {
		return nil, nil
	}
	return f.respond(query)
}

func activeRecord(npi, first, last, specialty, city, state string) *entities.RegistryRecord {
	return &entities.RegistryRecord{
		NPI:             npi,
		FirstName:       first,
		LastName:        last,
		Status:          "A",
		EnumerationDate: time.Now().AddDate(-10, 0, 0),
		LastUpdated:     time.Now().AddDate(-1, 0, 0),
		Addresses: []entities.RegistryAddress{
			{Purpose: "LOCATION", Street: "100 Main St", City: city, State: state, Phone: "555-0100"},
		},
		Taxonomies: []entities.RegistryTaxonomy{
			{Description: specialty, Primary: true},
		},
	}
}

func newStrategy(registry *fakeRegistry) *SearchStrategyService {
	return NewSearchStrategyService(registry, NewSpecialtyNormalizer(), NewLocationNormalizer(), nil)
}

func specialtyLocationIntent(specialty, city, state string) *entities.SearchIntent {
	return &entities.SearchIntent{
		Specialty: specialty,
		Location:  &entities.IntentLocation{City: city, State: state},
	}
}

func TestStrategy_InsufficientParameters(t *testing.T) {
	strategy := newStrategy(&fakeRegistry{})

	// Specialty alone is not searchable.
	_, err := strategy.Search(context.Background(), &entities.SearchIntent{Specialty: "Retina Surgery"})
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)

	// Location alone is not searchable either.
	_, err = strategy.Search(context.Background(), &entities.SearchIntent{
		Location: &entities.IntentLocation{City: "Tacoma", State: "WA"},
	})
	require.Error(t, err)
}

func TestStrategy_NameAloneSearchable(t *testing.T) {
	registry := &fakeRegistry{respond: func(q providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
		return []*entities.RegistryRecord{activeRecord("1", "Andrew", "Kopstein", "Ophthalmology", "Tacoma", "WA")}, nil
	}}
	strategy := newStrategy(registry)

	result, err := strategy.Search(context.Background(), &entities.SearchIntent{
		Name: &entities.IntentName{First: "Andrew", Last: "Kopstein"},
	})
	require.NoError(t, err)
	require.Len(t, result.Providers, 1)
	assert.Equal(t, "1", result.Providers[0].NPI)

	require.Len(t, registry.queries, 1)
	assert.Equal(t, "Andrew", registry.queries[0].FirstName)
	assert.Equal(t, "Kopstein", registry.queries[0].LastName)
	assert.Empty(t, registry.queries[0].Specialty)
}

func TestStrategy_SpecialtyLocationUsesTaxonomyCode(t *testing.T) {
	registry := &fakeRegistry{respond: func(q providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
		return []*entities.RegistryRecord{activeRecord("1", "Jane", "Smith", "Cardiology", "Houston", "TX")}, nil
	}}
	strategy := newStrategy(registry)

	result, err := strategy.Search(context.Background(), specialtyLocationIntent("Cardiology", "Houston", "TX"))
	require.NoError(t, err)
	require.Len(t, result.Providers, 1)
	assert.Equal(t, "Cardiology", result.EffectiveSpecialty)

	require.Len(t, registry.queries, 1)
	assert.Equal(t, "207RC0000X", registry.queries[0].TaxonomyCode)
	assert.Equal(t, "Houston", registry.queries[0].City)
	assert.Equal(t, "TX", registry.queries[0].State)
}

func TestStrategy_StrictFilterWithoutName(t *testing.T) {
	stale := activeRecord("2", "Old", "Record", "Cardiology", "Houston", "TX")
	stale.LastUpdated = time.Now().AddDate(-8, 0, 0)
	inactive := activeRecord("3", "Gone", "Away", "Cardiology", "Houston", "TX")
	inactive.Status = "D"
	noStreet := activeRecord("4", "No", "Street", "Cardiology", "Houston", "TX")
	noStreet.Addresses[0].Street = ""

	registry := &fakeRegistry{respond: func(q providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
		return []*entities.RegistryRecord{
			activeRecord("1", "Jane", "Smith", "Cardiology", "Houston", "TX"),
			stale, inactive, noStreet,
		}, nil
	}}
	strategy := newStrategy(registry)

	result, err := strategy.Search(context.Background(), specialtyLocationIntent("Cardiology", "Houston", "TX"))
	require.NoError(t, err)
	require.Len(t, result.Providers, 1)
	assert.Equal(t, "1", result.Providers[0].NPI)
}

func TestStrategy_LenientFilterWithName(t *testing.T) {
	// A stale update timestamp is fine when the query carries a name.
	stale := activeRecord("1", "Andrew", "Kopstein", "Ophthalmology", "Tacoma", "WA")
	stale.LastUpdated = time.Now().AddDate(-8, 0, 0)

	registry := &fakeRegistry{respond: func(q providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
		return []*entities.RegistryRecord{stale}, nil
	}}
	strategy := newStrategy(registry)

	result, err := strategy.Search(context.Background(), &entities.SearchIntent{
		Name: &entities.IntentName{First: "Andrew", Last: "Kopstein"},
	})
	require.NoError(t, err)
	assert.Len(t, result.Providers, 1)
}

func TestStrategy_FallbackBroaderThenRelated(t *testing.T) {
	// Zero hits for Retina Surgery and its broader category Ophthalmology;
	// the related Optometry query finally lands.
	registry := &fakeRegistry{respond: func(q providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
		if q.TaxonomyCode == "152W00000X" { // Optometry
			return []*entities.RegistryRecord{activeRecord("9", "Pat", "Lee", "Optometry", "Tacoma", "WA")}, nil
		}
		return nil, nil
	}}
	strategy := newStrategy(registry)

	result, err := strategy.Search(context.Background(), specialtyLocationIntent("Retina Surgery", "Tacoma", "WA"))
	require.NoError(t, err)
	require.Len(t, result.Providers, 1)
	assert.Equal(t, "Optometry", result.EffectiveSpecialty, "effective specialty follows the fallback that landed")
	assert.Contains(t, result.FallbackSteps, "broader_specialty")
	assert.Contains(t, result.FallbackSteps, "related_specialty")

	// First query is the original intent, second the broader category.
	require.GreaterOrEqual(t, len(registry.queries), 3)
	assert.Equal(t, "207WX0107X", registry.queries[0].TaxonomyCode)
	assert.Equal(t, "207W00000X", registry.queries[1].TaxonomyCode)
}

func TestStrategy_DropLocationFallback(t *testing.T) {
	registry := &fakeRegistry{respond: func(q providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
		if q.City == "" && q.State == "" && q.LastName == "Nelson" {
			return []*entities.RegistryRecord{activeRecord("7", "Mark", "Nelson", "Retina Surgery", "Portland", "OR")}, nil
		}
		return nil, nil
	}}
	strategy := newStrategy(registry)

	intent := &entities.SearchIntent{
		Name:      &entities.IntentName{First: "Mark", Last: "Nelson"},
		Specialty: "Retina Surgery",
		Location:  &entities.IntentLocation{City: "Tacoma", State: "WA"},
	}
	result, err := strategy.Search(context.Background(), intent)
	require.NoError(t, err)
	assert.Contains(t, result.FallbackSteps, "drop_location")
	// The hard location filter still applies to the assembled set, so the
	// Portland record is excluded from output.
	assert.Empty(t, result.Providers)
}

func TestStrategy_LastResortCapped(t *testing.T) {
	many := make([]*entities.RegistryRecord, 0, 80)
	for i := 0; i < 80; i++ {
		many = append(many, activeRecord(string(rune('A'+i%26))+"x", "Jane", "Smith", "Cardiology", "Houston", "TX"))
	}
	registry := &fakeRegistry{respond: func(q providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
		// Only the bare last-name query returns anything.
		if q.LastName == "Smith" && q.FirstName == "" && q.TaxonomyCode == "" && q.State == "" {
			return many, nil
		}
		return nil, nil
	}}
	strategy := newStrategy(registry)

	intent := &entities.SearchIntent{
		Name:      &entities.IntentName{First: "Jane", Last: "Smith"},
		Specialty: "Cardiology",
		Location:  &entities.IntentLocation{City: "Houston", State: "TX"},
	}
	result, err := strategy.Search(context.Background(), intent)
	require.NoError(t, err)
	assert.Contains(t, result.FallbackSteps, "last_resort")
	assert.LessOrEqual(t, len(result.Providers), 50)
	assert.NotEmpty(t, result.Providers)
}

func TestStrategy_DedupesByNPI(t *testing.T) {
	registry := &fakeRegistry{respond: func(q providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
		dup := activeRecord("1", "Jane", "Smith", "Cardiology", "Houston", "TX")
		return []*entities.RegistryRecord{dup, dup, activeRecord("2", "John", "Smith", "Cardiology", "Houston", "TX")}, nil
	}}
	strategy := newStrategy(registry)

	result, err := strategy.Search(context.Background(), specialtyLocationIntent("Cardiology", "Houston", "TX"))
	require.NoError(t, err)
	require.Len(t, result.Providers, 2)
	assert.Equal(t, "1", result.Providers[0].NPI)
	assert.Equal(t, "2", result.Providers[1].NPI)
}

func TestStrategy_PostHocNameFilter(t *testing.T) {
	registry := &fakeRegistry{respond: func(q providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
		return []*entities.RegistryRecord{
			activeRecord("1", "Andrew", "Kopstein", "Ophthalmology", "Tacoma", "WA"),
			activeRecord("2", "Beatrice", "Zimmerman", "Ophthalmology", "Tacoma", "WA"),
		}, nil
	}}
	strategy := newStrategy(registry)

	result, err := strategy.Search(context.Background(), &entities.SearchIntent{
		Name: &entities.IntentName{First: "Andrew", Last: "Kopstein"},
	})
	require.NoError(t, err)
	require.Len(t, result.Providers, 1)
	assert.Equal(t, "1", result.Providers[0].NPI)
}

// Name filter safety: when no candidate clears the name bar, the unfiltered
// set is returned rather than zero results.
func TestStrategy_NameFilterNeverEmptiesSet(t *testing.T) {
	registry := &fakeRegistry{respond: func(q providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
		return []*entities.RegistryRecord{
			activeRecord("1", "Beatrice", "Zimmerman", "Ophthalmology", "Tacoma", "WA"),
		}, nil
	}}
	strategy := newStrategy(registry)

	result, err := strategy.Search(context.Background(), &entities.SearchIntent{
		Name: &entities.IntentName{First: "Andrew", Last: "Kopstein"},
	})
	require.NoError(t, err)
	assert.Len(t, result.Providers, 1)
}

func TestStrategy_HardLocationFilter(t *testing.T) {
	registry := &fakeRegistry{respond: func(q providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
		return []*entities.RegistryRecord{
			activeRecord("1", "Jane", "Smith", "Cardiology", "Houston", "TX"),
			activeRecord("2", "John", "Smith", "Cardiology", "Dallas", "TX"),
		}, nil
	}}
	strategy := newStrategy(registry)

	result, err := strategy.Search(context.Background(), specialtyLocationIntent("Cardiology", "Houston", "TX"))
	require.NoError(t, err)
	require.Len(t, result.Providers, 1)
	assert.Equal(t, "1", result.Providers[0].NPI)
}

func TestStrategy_RegistryErrorPropagates(t *testing.T) {
	registry := &fakeRegistry{respond: func(q providers.RegistryQuery) ([]*entities.RegistryRecord, error) {
		return nil, apperrors.NewExternalError("registry unavailable", nil)
	}}
	strategy := newStrategy(registry)

	_, err := strategy.Search(context.Background(), specialtyLocationIntent("Cardiology", "Houston", "TX"))
	require.Error(t, err)
}
