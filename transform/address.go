package transform

import (
	"regexp"
	"strings"
)

// streetAbbrev expands the street-type shorthand that turns up in card
// titles against the full spellings the finance sheet uses.
var streetAbbrev = map[string]string{
	"st":   "Street",
	"rd":   "Road",
	"ave":  "Avenue",
	"av":   "Avenue",
	"dr":   "Drive",
	"ct":   "Court",
	"cres": "Crescent",
	"pl":   "Place",
	"hwy":  "Highway",
	"tce":  "Terrace",
}

var spaceRe = regexp.MustCompile(`\s+`)

// CleanAddress normalizes a free-text site address: collapsed whitespace,
// title-cased words, street-type shorthand expanded.
func CleanAddress(s string) string {
	s = spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	if s == "" {
		return ""
	}

	words := strings.Split(s, " ")
	for i, word := range words {
		trailing := ""
		bare := strings.TrimRight(word, ",.")
		if len(bare) < len(word) && strings.HasSuffix(word, ",") {
			trailing = ","
		}
		if full, ok := streetAbbrev[strings.ToLower(bare)]; ok {
			words[i] = full + trailing
			continue
		}
		words[i] = titleWord(bare) + trailing
	}
	return strings.Join(words, " ")
}

func titleWord(word string) string {
	if word == "" {
		return word
	}
	// unit/street numbers like 1/12 or 12a pass through untouched
	if word[0] >= '0' && word[0] <= '9' {
		return word
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9 ]`)

// MatchKey reduces an address to its comparable form: lowercase, shorthand
// expanded, punctuation stripped.
func MatchKey(s string) string {
	s = strings.ToLower(CleanAddress(s))
	s = nonAlnumRe.ReplaceAllString(s, "")
	return spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}
