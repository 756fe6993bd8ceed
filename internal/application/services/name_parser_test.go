package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameParser_MiddleInitialAndStopWords(t *testing.T) {
	p := NewNameParser()

	first, last := p.Parse("Dr. Mark L. Nelson retina surgeon")
	assert.Equal(t, "Mark", first)
	assert.Equal(t, "Nelson", last)
}

func TestNameParser_TitleStripping(t *testing.T) {
	p := NewNameParser()

	for _, query := range []string{"Dr. Jane Smith", "dr Jane Smith", "Doctor Jane Smith", "DOCTOR Jane Smith"} {
		first, last := p.Parse(query)
		assert.Equal(t, "Jane", first, "query %q", query)
		assert.Equal(t, "Smith", last, "query %q", query)
	}
}

func TestNameParser_TwoTokens(t *testing.T) {
	p := NewNameParser()

	first, last := p.Parse("Andrew Kopstein")
	assert.Equal(t, "Andrew", first)
	assert.Equal(t, "Kopstein", last)
}

func TestNameParser_MiddleInitialVariants(t *testing.T) {
	p := NewNameParser()

	first, last := p.Parse("Andrew M Kopstein")
	assert.Equal(t, "Andrew", first)
	assert.Equal(t, "Kopstein", last)

	first, last = p.Parse("Andrew M. Kopstein")
	assert.Equal(t, "Andrew", first)
	assert.Equal(t, "Kopstein", last)
}

// With three or more tokens and no middle initial, only the first two are
// taken; later tokens are assumed to be specialty or location leakage.
func TestNameParser_ExtraTokensIgnored(t *testing.T) {
	p := NewNameParser()

	first, last := p.Parse("John Van Der Berg")
	assert.Equal(t, "John", first)
	assert.Equal(t, "Van", last)
}

func TestNameParser_InsufficientTokens(t *testing.T) {
	p := NewNameParser()

	first, last := p.Parse("Nelson")
	assert.Empty(t, first)
	assert.Empty(t, last)

	first, last = p.Parse("")
	assert.Empty(t, first)
	assert.Empty(t, last)

	// Everything is a stop word.
	first, last = p.Parse("retina surgeon")
	assert.Empty(t, first)
	assert.Empty(t, last)
}

func TestNameParser_StopWordInsideSurnameNotCut(t *testing.T) {
	p := NewNameParser()

	// "eye" is a stop word but "Meyer" must survive.
	first, last := p.Parse("Tom Meyer")
	assert.Equal(t, "Tom", first)
	assert.Equal(t, "Meyer", last)
}
