package entities

import "testing"

func TestSanitizePhrase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"¿Cómo estás?", "cómo estás"},
		{"Hola, mundo.", "hola mundo"},
		{"ya: listo; ok", "ya listo ok"},
		{"hola mundo", "hola mundo"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := SanitizePhrase(tc.in); got != tc.want {
			t.Errorf("SanitizePhrase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizePhraseIsIdempotent(t *testing.T) {
	once := SanitizePhrase("¿Cómo estás, mundo?")
	twice := SanitizePhrase(once)
	if once != twice {
		t.Errorf("Sanitizing twice changed the phrase: %q != %q", once, twice)
	}
}

func TestPhraseWords(t *testing.T) {
	words := PhraseWords("hola  mundo")
	if len(words) != 2 || words[0] != "hola" || words[1] != "mundo" {
		t.Errorf("Expected [hola mundo], got %v", words)
	}

	if words := PhraseWords(""); len(words) != 0 {
		t.Errorf("Expected no words for empty phrase, got %v", words)
	}
}
