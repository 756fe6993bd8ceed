package services

import (
	"sort"
	"strings"

	"github.com/careatlas/provider-lookup/pkg/fuzzy"
)

const (
	wordMatchThreshold = 0.75
	pairMatchThreshold = 0.70
)

// SpecialtyNormalizer maps free-text specialty phrases, including typos,
// plurals and lay terms, to one canonical specialty label, and supplies the
// broader/related category tables used by fallback expansion. All tables are
// immutable after construction.
type SpecialtyNormalizer struct {
	synonyms map[string]string
	ordered  []string // synonym keys, longest first, for deterministic substring matching
	broader  map[string]string
	related  map[string][]string
	legacy   map[string][]string
	taxonomy map[string]string
}

// NewSpecialtyNormalizer builds a normalizer with the built-in tables.
func NewSpecialtyNormalizer() *SpecialtyNormalizer {
	return NewSpecialtyNormalizerWithTables(defaultSynonyms, defaultBroader, defaultRelated, defaultLegacy, defaultTaxonomyCodes)
}

// NewSpecialtyNormalizerWithTables builds a normalizer from caller-supplied
// tables. Canonical names are added as synonyms of themselves so normalization
// is idempotent.
func NewSpecialtyNormalizerWithTables(synonyms map[string]string, broader map[string]string, related map[string][]string, legacy map[string][]string, taxonomy map[string]string) *SpecialtyNormalizer {
	merged := make(map[string]string, len(synonyms)*2)
	for variant, canonical := range synonyms {
		merged[strings.ToLower(strings.TrimSpace(variant))] = canonical
		merged[strings.ToLower(canonical)] = canonical
	}

	ordered := make([]string, 0, len(merged))
	for variant := range merged {
		ordered = append(ordered, variant)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})

	return &SpecialtyNormalizer{
		synonyms: merged,
		ordered:  ordered,
		broader:  broader,
		related:  related,
		legacy:   legacy,
		taxonomy: taxonomy,
	}
}

// Normalize returns the canonical specialty for the input, or "" when nothing
// clears the matching thresholds. Callers treat "" as "no specialty detected",
// not as an error.
func (n *SpecialtyNormalizer) Normalize(text string) string {
	canonical, _ := n.NormalizeWithMatch(text)
	return canonical
}

// NormalizeWithMatch additionally returns the variant text that matched, so
// the query parser can strip it from the remaining query.
func (n *SpecialtyNormalizer) NormalizeWithMatch(text string) (canonical string, matched string) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return "", ""
	}

	// Stage 1: substring containment, longest synonym first so "retina
	// surgeon" wins over "surgeon". Variants under 4 chars ("ent", "pcp")
	// must match a whole word or they hit inside unrelated words.
	for _, variant := range n.ordered {
		if len(variant) < 4 {
			continue
		}
		if strings.Contains(lowered, variant) {
			return n.synonyms[variant], variant
		}
	}
	for _, word := range splitWords(lowered) {
		if canonical, ok := n.synonyms[word]; ok {
			return canonical, word
		}
	}

	// Stage 2: per-word fuzzy match for typos like "cardiolgist".
	words := splitWords(lowered)
	bestScore := 0.0
	for _, word := range words {
		if len(word) < 3 {
			continue
		}
		for _, variant := range n.ordered {
			score := fuzzy.Similarity(word, variant)
			if score >= wordMatchThreshold && score > bestScore {
				bestScore = score
				canonical = n.synonyms[variant]
				matched = word
			}
		}
	}
	if canonical != "" {
		return canonical, matched
	}

	// Stage 3: adjacent word pairs, for split phrases like "heart doctor".
	for i := 0; i+1 < len(words); i++ {
		pair := words[i] + " " + words[i+1]
		for _, variant := range n.ordered {
			if strings.Contains(pair, variant) {
				return n.synonyms[variant], pair
			}
			score := fuzzy.Similarity(pair, variant)
			if score >= pairMatchThreshold && score > bestScore {
				bestScore = score
				canonical = n.synonyms[variant]
				matched = pair
			}
		}
	}

	return canonical, matched
}

// BroaderCategory returns the one-level-up category for a canonical specialty,
// or "" when none is known.
func (n *SpecialtyNormalizer) BroaderCategory(canonical string) string {
	return n.broader[canonical]
}

// RelatedCategories returns sibling specialties for a canonical specialty.
func (n *SpecialtyNormalizer) RelatedCategories(canonical string) []string {
	return n.related[canonical]
}

// LegacyAlternatives returns older registry terms for a canonical specialty,
// used as a late fallback expansion step.
func (n *SpecialtyNormalizer) LegacyAlternatives(canonical string) []string {
	return n.legacy[canonical]
}

// TaxonomyCode returns the registry taxonomy code for a canonical specialty,
// or "" when none is mapped. Codes give more precise registry queries than
// free-text descriptions.
func (n *SpecialtyNormalizer) TaxonomyCode(canonical string) string {
	return n.taxonomy[canonical]
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ' ', '\t', ',', '.', ';', '/':
			return true
		}
		return false
	})
}
