package lexicon

import (
	"errors"
	"strings"
	"testing"

	"github.com/hablalab/fonema/domain/entities"
)

const sampleDict = `hola [] o l a
mundo [] m u n d o
cómo [] k o m o
estás [] e s t a s
hola [] x x x
casa [] k a s a
`

func TestLoadAndLookup(t *testing.T) {
	dict, err := Load(strings.NewReader(sampleDict))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if dict.Len() != 5 {
		t.Errorf("Expected 5 distinct words, got %d", dict.Len())
	}

	phonemes, err := dict.Lookup("mundo")
	if err != nil {
		t.Fatalf("Lookup(mundo) failed: %v", err)
	}
	if phonemes != "m-u-n-d-o" {
		t.Errorf("Expected dash-joined phonemes m-u-n-d-o, got %q", phonemes)
	}
}

func TestFirstOccurrenceWins(t *testing.T) {
	dict, err := Load(strings.NewReader(sampleDict))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	phonemes, err := dict.Lookup("hola")
	if err != nil {
		t.Fatalf("Lookup(hola) failed: %v", err)
	}
	if phonemes != "o-l-a" {
		t.Errorf("Expected first entry o-l-a to win, got %q", phonemes)
	}
}

func TestLookupUnknownWord(t *testing.T) {
	dict, err := Load(strings.NewReader(sampleDict))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	_, err = dict.Lookup("xyzzy")
	if !errors.Is(err, entities.ErrUnknownWord) {
		t.Errorf("Expected ErrUnknownWord, got %v", err)
	}
}

func TestLookupNonEmptyForAllWords(t *testing.T) {
	dict, err := Load(strings.NewReader(sampleDict))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for _, w := range dict.Words() {
		phonemes, err := dict.Lookup(w)
		if err != nil {
			t.Errorf("Lookup(%q) failed: %v", w, err)
		}
		if phonemes == "" {
			t.Errorf("Lookup(%q) returned an empty phoneme string", w)
		}
	}
}

func TestLoadRejectsMalformedLines(t *testing.T) {
	cases := []string{
		"hola o l a", // missing separator
		"hola [] ",   // empty phoneme sequence
		" [] o l a",  // empty word
	}

	for _, line := range cases {
		if _, err := Load(strings.NewReader(line + "\n")); err == nil {
			t.Errorf("Expected error for malformed line %q", line)
		}
	}
}

func TestLoadSkipsBlankAndCommentLines(t *testing.T) {
	content := "# pronunciation dictionary\n\nhola [] o l a\n"
	dict, err := Load(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if dict.Len() != 1 {
		t.Errorf("Expected 1 word, got %d", dict.Len())
	}
}

func TestSuggest(t *testing.T) {
	dict, err := Load(strings.NewReader(sampleDict))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	suggestion, ok := dict.Suggest("mundos")
	if !ok {
		t.Fatal("Expected a suggestion for mundos")
	}
	if suggestion != "mundo" {
		t.Errorf("Expected suggestion mundo, got %q", suggestion)
	}

	if _, ok := dict.Suggest("qwertyuiop"); ok {
		t.Error("Expected no suggestion for a word far from the dictionary")
	}
}
