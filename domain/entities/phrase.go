package entities

import "strings"

// phrasePunctuation lists the punctuation characters removed from a phrase
// before lookup and scoring.
var phrasePunctuation = strings.NewReplacer(
	"?", "",
	"¿", "",
	".", "",
	",", "",
	":", "",
	";", "",
)

// SanitizePhrase lower-cases the phrase and strips the punctuation set
// `? ¿ . , : ;`. The operation is idempotent.
func SanitizePhrase(phrase string) string {
	return strings.TrimSpace(strings.ToLower(phrasePunctuation.Replace(phrase)))
}

// PhraseWords splits a sanitized phrase into its whitespace-separated words.
func PhraseWords(phrase string) []string {
	return strings.Fields(phrase)
}
