package command

import (
	"sort"
	"strings"
)

// ExtractIntents scans the transcript for catalog phrases and returns one
// intent per matched definition, ordered by where in the transcript the
// earliest phrase of each definition starts. Ties keep catalog declaration
// order. Matching is case-insensitive; a blank transcript matches nothing.
func ExtractIntents(catalog *Catalog, transcript string) []Intent {
	if strings.TrimSpace(transcript) == "" {
		return nil
	}

	lowered := strings.ToLower(transcript)

	type match struct {
		index int
		kind  string
	}

	var matches []match
	for _, def := range catalog.Definitions() {
		best := -1
		for _, phrase := range def.Phrases {
			if i := strings.Index(lowered, phrase); i >= 0 && (best < 0 || i < best) {
				best = i
			}
		}
		if best >= 0 {
			matches = append(matches, match{index: best, kind: def.Kind})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].index < matches[j].index
	})

	intents := make([]Intent, 0, len(matches))
	for _, m := range matches {
		intents = append(intents, Intent{Kind: m.kind, RawText: transcript})
	}
	return intents
}
