package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity_Identical(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("cardiology", "cardiology"))
}

func TestSimilarity_CaseInsensitive(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Cardiology", "CARDIOLOGY"))
}

func TestSimilarity_BothEmpty(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
}

func TestSimilarity_OneEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("cardiology", ""))
}

func TestSimilarity_Typo(t *testing.T) {
	// One substitution across ten characters
	sim := Similarity("cardiology", "cardioligy")
	assert.InDelta(t, 0.8, sim, 0.11)
	assert.Greater(t, sim, 0.75)
}

func TestSimilarity_Unrelated(t *testing.T) {
	assert.Less(t, Similarity("dermatology", "xyz"), 0.3)
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, EditDistance("Smith", "smith"))
	assert.Equal(t, 1, EditDistance("smith", "smyth"))
	assert.Equal(t, 3, EditDistance("kitten", "sitting"))
}

func TestMatchName_Exact(t *testing.T) {
	m := MatchName("Andrew Kopstein", "Andrew Kopstein")
	assert.True(t, m.Match)
	assert.Equal(t, 100, m.Score)
}

func TestMatchName_MiddleInitialOnCandidate(t *testing.T) {
	m := MatchName("Andrew Kopstein", "Andrew M Kopstein")
	assert.True(t, m.Match)
	assert.GreaterOrEqual(t, m.Score, 70)
}

func TestMatchName_MiddleInitialOnQuery(t *testing.T) {
	m := MatchName("Mark L Nelson", "Mark Nelson")
	assert.True(t, m.Match)
	assert.GreaterOrEqual(t, m.Score, 70)
}

func TestMatchName_MinorMisspelling(t *testing.T) {
	m := MatchName("Jon Smith", "John Smith")
	assert.True(t, m.Match)
	assert.GreaterOrEqual(t, m.Score, 70)
}

func TestMatchName_DifferentPerson(t *testing.T) {
	m := MatchName("Andrew Kopstein", "Maria Gonzalez")
	assert.False(t, m.Match)
	assert.Less(t, m.Score, 60)
}

func TestMatchName_EmptyInputs(t *testing.T) {
	assert.False(t, MatchName("", "Andrew Kopstein").Match)
	assert.False(t, MatchName("Andrew", "").Match)
	assert.Equal(t, 0, MatchName("", "").Score)
}

func TestMatchName_PunctuationIgnored(t *testing.T) {
	m := MatchName("O'Brien, Patrick", "Patrick O'Brien")
	assert.True(t, m.Match)
}
