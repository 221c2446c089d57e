// Package query classifies free-text user queries into the data domains
// the gateway can serve. Matching is fixed keyword/pattern based; there is
// deliberately no natural-language understanding beyond it.
package query

import (
	"regexp"
	"strings"
)

// Patterns run against the lowercased query text. The weather pattern
// captures the remainder of the text after the keyword and an optional
// connective as the city phrase. Joke keywords match anywhere in the text.
var (
	weatherPattern = regexp.MustCompile(`(weather|forecast|temperature)\s+(?:in|for|about|of)?\s*(.+)`)
	jokePattern    = regexp.MustCompile(`joke|funny|humor`)
)

// Routed is the classification of one raw query. City is non-empty iff
// WantsWeather is true: a weather keyword with no usable city phrase is
// treated as no weather match at all.
type Routed struct {
	WantsWeather bool
	City         string
	WantsJoke    bool
}

// Classify derives the requested domains from raw query text. The two
// intents are evaluated independently; a query can match both, one, or
// neither.
func Classify(raw string) Routed {
	lower := strings.ToLower(raw)

	var routed Routed
	if m := weatherPattern.FindStringSubmatch(lower); m != nil {
		city := strings.TrimRight(strings.TrimSpace(m[2]), "?")
		if city != "" {
			routed.WantsWeather = true
			routed.City = city
		}
	}
	routed.WantsJoke = jokePattern.MatchString(lower)
	return routed
}
