package services

import (
	"regexp"
	"strings"
)

// NameParser extracts (first, last) name tokens from a query fragment,
// stripping titles and truncating at the first specialty/body-part stop-word
// so a trailing phrase like "retina surgeon" is never absorbed into the
// surname.
type NameParser struct {
	stopWords []string
}

// NewNameParser builds a parser with the built-in stop-word list.
func NewNameParser() *NameParser {
	return &NameParser{stopWords: nameStopWords}
}

var titlePattern = regexp.MustCompile(`(?i)^\s*(?:dr\.?|doctor)\s+`)
var middleInitialPattern = regexp.MustCompile(`^[A-Za-z]\.?$`)

// Parse returns the (first, last) pair, or ("", "") when fewer than two name
// tokens remain after cleanup.
func (p *NameParser) Parse(query string) (first, last string) {
	cleaned := titlePattern.ReplaceAllString(query, "")
	cleaned = p.truncateAtStopWord(cleaned)

	tokens := strings.Fields(cleaned)
	if len(tokens) < 2 {
		return "", ""
	}

	// "Mark L. Nelson": the middle initial consumes its slot but is
	// dropped from the output.
	if len(tokens) >= 3 && len(tokens[1]) <= 2 && middleInitialPattern.MatchString(tokens[1]) {
		return tokens[0], tokens[2]
	}

	// With three or more tokens and no initial, later tokens are more
	// likely specialty or location leakage than a multi-word surname, so
	// only the first two are taken.
	return tokens[0], tokens[1]
}

// truncateAtStopWord cuts the string at the earliest stop-word occurrence.
func (p *NameParser) truncateAtStopWord(text string) string {
	lowered := strings.ToLower(text)
	cut := -1
	for _, stop := range p.stopWords {
		idx := indexWord(lowered, stop)
		if idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut < 0 {
		return text
	}
	return strings.TrimSpace(text[:cut])
}

// indexWord finds a whole-word occurrence so "hart" inside "Hartman" is not a
// stop-word hit.
func indexWord(text, word string) int {
	start := 0
	for {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return -1
		}
		abs := start + idx
		end := abs + len(word)
		beforeOK := abs == 0 || text[abs-1] == ' '
		afterOK := end == len(text) || text[end] == ' ' || text[end] == ','
		if beforeOK && afterOK {
			return abs
		}
		start = abs + 1
	}
}

// Specialty and body-part words that leak into name queries.
var nameStopWords = []string{
	"surgeon", "surgeons", "doctor", "doctors", "specialist", "specialists",
	"physician", "physicians",
	"cardiologist", "dermatologist", "ophthalmologist", "optometrist",
	"pediatrician", "neurologist", "oncologist", "psychiatrist",
	"gynecologist", "urologist", "gastroenterologist", "orthopedist",
	"internist", "podiatrist", "chiropractor", "dentist", "radiologist",
	"anesthesiologist", "pathologist", "rheumatologist", "pulmonologist",
	"nephrologist", "endocrinologist", "allergist", "immunologist",
	"retina", "retinal", "eye", "eyes", "heart", "skin", "bone", "bones",
	"brain", "spine", "knee", "hip", "foot", "feet", "ear", "nose", "throat",
	"lung", "lungs", "kidney", "liver", "stomach", "cancer",
	"cardiology", "dermatology", "ophthalmology", "pediatrics", "neurology",
	"oncology", "psychiatry", "urology", "orthopedic", "orthopedics",
	"in", "near", "at",
}
