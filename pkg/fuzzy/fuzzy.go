package fuzzy

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// NameMatch holds the outcome of a token-aware name comparison.
type NameMatch struct {
	Match bool
	Score int // 0-100, higher is better
}

// MatchThreshold is the conventional score callers require for a confident
// name match. Callers wanting broader recall may use a lower bar.
const MatchThreshold = 70

// EditDistance computes the case-insensitive Levenshtein distance between two strings.
func EditDistance(a, b string) int {
	return levenshtein.ComputeDistance(strings.ToLower(a), strings.ToLower(b))
}

// Similarity returns a normalized similarity in [0,1] based on edit distance.
// Two empty strings are considered identical.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}

	dist := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}

// MatchName compares a query name against a candidate name token by token.
// It tolerates middle names/initials present on one side only and minor
// misspellings. The score is the average of each query token's best
// similarity against the candidate tokens.
func MatchName(queryName, candidateName string) NameMatch {
	qTokens := nameTokens(queryName)
	cTokens := nameTokens(candidateName)
	if len(qTokens) == 0 || len(cTokens) == 0 {
		return NameMatch{}
	}

	if strings.Join(qTokens, " ") == strings.Join(cTokens, " ") {
		return NameMatch{Match: true, Score: 100}
	}

	var total float64
	counted := 0
	for _, qt := range qTokens {
		// Initials on the query side are too weak to score against full tokens.
		if len(qt) == 1 && len(qTokens) > 1 {
			continue
		}
		best := 0.0
		for _, ct := range cTokens {
			if sim := tokenSimilarity(qt, ct); sim > best {
				best = sim
			}
		}
		total += best
		counted++
	}

	if counted == 0 {
		return NameMatch{}
	}

	score := int(total / float64(counted) * 100)
	if score > 100 {
		score = 100
	}
	return NameMatch{Match: score >= MatchThreshold, Score: score}
}

func tokenSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	// An initial matches any token that starts with it.
	if len(a) == 1 && strings.HasPrefix(b, a) {
		return 1.0
	}
	if len(b) == 1 && strings.HasPrefix(a, b) {
		return 1.0
	}
	return Similarity(a, b)
}

// nameTokens lowercases, strips punctuation, and splits a name into tokens.
func nameTokens(name string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '\'' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}
