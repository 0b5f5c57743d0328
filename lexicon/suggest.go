package lexicon

import "github.com/antzucaro/matchr"

// maxSuggestDistance bounds how far a suggestion may be from the unknown
// word. Anything farther is noise rather than a plausible misspelling.
const maxSuggestDistance = 3

// Suggest returns the dictionary word closest to the unknown word by
// Levenshtein distance, for use in validation error details. The second
// return value is false when no word is within maxSuggestDistance.
func (d *Dictionary) Suggest(word string) (string, bool) {
	best := ""
	bestDist := maxSuggestDistance + 1

	for candidate := range d.entries {
		dist := matchr.Levenshtein(word, candidate)
		if dist < bestDist || (dist == bestDist && candidate < best) {
			best = candidate
			bestDist = dist
		}
	}

	if bestDist > maxSuggestDistance {
		return "", false
	}
	return best, true
}
