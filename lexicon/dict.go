// Package lexicon loads the pronunciation dictionary used to build the
// expected phoneme rendering of a phrase.
//
// Dictionary format: one entry per line, `word [] phoneme1 phoneme2 ...`.
// The first `[] `-delimited occurrence of a word wins; later occurrences are
// discarded, not merged. The dictionary is loaded once at service start and
// is immutable afterwards, so lookups are safe for concurrent use.
package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hablalab/fonema/domain/entities"
)

// entrySeparator splits the word from its phoneme sequence.
const entrySeparator = " [] "

// Dictionary holds word-to-pronunciation mappings.
type Dictionary struct {
	entries map[string]string // word -> dash-joined phoneme string
}

// Load reads a pronunciation dictionary from r.
// Blank lines and lines starting with "#" are skipped.
func Load(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{entries: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		word, phonemes, found := strings.Cut(line, entrySeparator)
		if !found {
			return nil, fmt.Errorf("line %d: missing %q separator", lineNum, "[]")
		}

		word = strings.TrimSpace(word)
		fields := strings.Fields(phonemes)
		if word == "" || len(fields) == 0 {
			return nil, fmt.Errorf("line %d: empty word or phoneme sequence", lineNum)
		}

		// First occurrence wins.
		if _, ok := d.entries[word]; ok {
			continue
		}
		d.entries[word] = strings.Join(fields, "-")
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return d, nil
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Lookup returns the canonical phoneme string for word, rendered with "-" as
// the intra-word phoneme separator. An absent word fails with
// entities.ErrUnknownWord; callers must treat that as a phrase-level
// validation error, not a scoring error.
func (d *Dictionary) Lookup(word string) (string, error) {
	phonemes, ok := d.entries[word]
	if !ok {
		return "", fmt.Errorf("%w: %q", entities.ErrUnknownWord, word)
	}
	return phonemes, nil
}

// Len returns the number of distinct words in the dictionary.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Words returns all words in the dictionary in unspecified order.
func (d *Dictionary) Words() []string {
	words := make([]string, 0, len(d.entries))
	for w := range d.entries {
		words = append(words, w)
	}
	return words
}
