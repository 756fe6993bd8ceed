package services

import (
	"regexp"
	"strings"
)

// Location is a parsed (city, state) pair. State is always a two-letter
// uppercase code; city preserves the input casing with whitespace collapsed.
type Location struct {
	City  string
	State string
}

// Empty reports whether neither field was recognized.
func (l Location) Empty() bool {
	return l.City == "" && l.State == ""
}

// LocationNormalizer parses free-text location phrases against a 51-entry
// state table (including DC) and a small typo-alias table. Tables are
// immutable after construction.
type LocationNormalizer struct {
	stateByName map[string]string // lowercase full name -> code
	stateCodes  map[string]bool
	aliases     map[string]string // lowercase misspelling -> canonical "City, ST"
}

// NewLocationNormalizer builds a normalizer with the built-in tables.
func NewLocationNormalizer() *LocationNormalizer {
	return NewLocationNormalizerWithAliases(defaultCityAliases)
}

// NewLocationNormalizerWithAliases builds a normalizer with a caller-supplied
// typo-alias table.
func NewLocationNormalizerWithAliases(aliases map[string]string) *LocationNormalizer {
	codes := make(map[string]bool, len(stateTable))
	byName := make(map[string]string, len(stateTable))
	for name, code := range stateTable {
		byName[name] = code
		codes[code] = true
	}
	lowered := make(map[string]string, len(aliases))
	for typo, canonical := range aliases {
		lowered[strings.ToLower(strings.TrimSpace(typo))] = canonical
	}
	return &LocationNormalizer{
		stateByName: byName,
		stateCodes:  codes,
		aliases:     lowered,
	}
}

var commaLocationPattern = regexp.MustCompile(`^(.+?),\s*(.+)$`)

// Parse maps a free-text location phrase to a (city, state) pair. When no
// state is recognized the entire input is treated as a city name.
func (n *LocationNormalizer) Parse(text string) Location {
	cleaned := collapseWhitespace(text)
	if cleaned == "" {
		return Location{}
	}

	// Typo correction runs before shape parsing.
	if canonical, ok := n.aliases[strings.ToLower(cleaned)]; ok {
		cleaned = canonical
	}

	// Shape 1: "City, ST" or "City, StateName".
	if m := commaLocationPattern.FindStringSubmatch(cleaned); m != nil {
		city := collapseWhitespace(m[1])
		if state := n.resolveState(m[2]); state != "" {
			return Location{City: city, State: state}
		}
		return Location{City: city}
	}

	words := strings.Fields(cleaned)

	// Shape 2: trailing one-or-two-word state name, "Houston Texas" or
	// "Albany New York".
	if len(words) >= 2 {
		for take := 2; take >= 1; take-- {
			if len(words) <= take {
				continue
			}
			tail := strings.Join(words[len(words)-take:], " ")
			if state, ok := n.stateByName[strings.ToLower(tail)]; ok {
				city := strings.Join(words[:len(words)-take], " ")
				return Location{City: city, State: state}
			}
		}
	}

	// Shape 3: bare two-letter state code.
	if len(words) == 1 {
		if upper := strings.ToUpper(words[0]); n.stateCodes[upper] {
			return Location{State: upper}
		}
	}

	// Shape 4: bare full state name.
	if state, ok := n.stateByName[strings.ToLower(cleaned)]; ok {
		return Location{State: state}
	}

	return Location{City: cleaned}
}

// Format renders a (city, state) pair back into the canonical "City, ST"
// form. Either field may be empty.
func (n *LocationNormalizer) Format(city, state string) string {
	city = collapseWhitespace(city)
	state = strings.ToUpper(strings.TrimSpace(state))
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}

// ValidStateCode reports whether the input is one of the 51 known codes.
func (n *LocationNormalizer) ValidStateCode(code string) bool {
	return n.stateCodes[strings.ToUpper(strings.TrimSpace(code))]
}

// resolveState accepts either a code or a full name, in any casing.
func (n *LocationNormalizer) resolveState(text string) string {
	cleaned := collapseWhitespace(text)
	if upper := strings.ToUpper(cleaned); len(upper) == 2 && n.stateCodes[upper] {
		return upper
	}
	return n.stateByName[strings.ToLower(cleaned)]
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// stateTable covers the 50 states plus DC.
var stateTable = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"district of columbia": "DC", "florida": "FL", "georgia": "GA", "hawaii": "HI",
	"idaho": "ID", "illinois": "IL", "indiana": "IN", "iowa": "IA",
	"kansas": "KS", "kentucky": "KY", "louisiana": "LA", "maine": "ME",
	"maryland": "MD", "massachusetts": "MA", "michigan": "MI", "minnesota": "MN",
	"mississippi": "MS", "missouri": "MO", "montana": "MT", "nebraska": "NE",
	"nevada": "NV", "new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM",
	"new york": "NY", "north carolina": "NC", "north dakota": "ND", "ohio": "OH",
	"oklahoma": "OK", "oregon": "OR", "pennsylvania": "PA", "rhode island": "RI",
	"south carolina": "SC", "south dakota": "SD", "tennessee": "TN", "texas": "TX",
	"utah": "UT", "vermont": "VT", "virginia": "VA", "washington": "WA",
	"west virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
}

// Misspellings seen often enough in query logs to hardcode.
var defaultCityAliases = map[string]string{
	"tacomma":      "Tacoma, WA",
	"taccoma":      "Tacoma, WA",
	"seatle":       "Seattle, WA",
	"seattel":      "Seattle, WA",
	"houstan":      "Houston, TX",
	"huston":       "Houston, TX",
	"pheonix":      "Phoenix, AZ",
	"phenix":       "Phoenix, AZ",
	"philidelphia": "Philadelphia, PA",
	"philladelphia": "Philadelphia, PA",
	"cincinatti":   "Cincinnati, OH",
	"cinncinati":   "Cincinnati, OH",
	"albuqerque":   "Albuquerque, NM",
	"albequerque":  "Albuquerque, NM",
	"pittsburg":    "Pittsburgh, PA",
	"tuscon":       "Tucson, AZ",
}
