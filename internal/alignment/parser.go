// Package alignment parses the per-phoneme alignment tables produced by the
// external forced-alignment pipeline and exposes the typed views the scorer
// works with.
//
// Table format: CSV without header, four columns `kind,start,end,label`.
// Rows of one kind are sorted by start time; the first and last row of each
// kind are silence/boundary markers by aligner convention and are excluded
// from every query.
package alignment

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/hablalab/fonema/domain/entities"
)

// orderTolerance absorbs float noise when validating that same-kind rows do
// not overlap.
const orderTolerance = 1e-6

// Parse reads one *-palign.csv into an AlignmentTable, validating row kinds,
// time bounds and same-kind ordering.
func Parse(r io.Reader) (entities.AlignmentTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4

	var table entities.AlignmentTable
	lastEnd := map[entities.AlignmentKind]float64{}
	lineNum := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entities.AlignmentTable{}, fmt.Errorf("read alignment row: %w", err)
		}
		lineNum++

		kind := entities.AlignmentKind(strings.TrimSpace(record[0]))
		if !kind.IsValid() {
			return entities.AlignmentTable{}, fmt.Errorf("row %d: unknown row kind %q", lineNum, record[0])
		}

		start, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return entities.AlignmentTable{}, fmt.Errorf("row %d: bad start time: %w", lineNum, err)
		}
		end, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return entities.AlignmentTable{}, fmt.Errorf("row %d: bad end time: %w", lineNum, err)
		}

		if start < 0 || end < start {
			return entities.AlignmentTable{}, fmt.Errorf("row %d: invalid span [%v, %v]", lineNum, start, end)
		}
		if prev, seen := lastEnd[kind]; seen && prev > start+orderTolerance {
			return entities.AlignmentTable{}, fmt.Errorf("row %d: %s rows overlap: %v > %v", lineNum, kind, prev, start)
		}
		lastEnd[kind] = end

		table.Rows = append(table.Rows, entities.AlignmentRow{
			Kind:     kind,
			Start:    start,
			End:      end,
			Label:    record[3],
			Duration: end - start,
		})
	}

	return table, nil
}

// ParseFile is a convenience wrapper that opens a file path.
func ParseFile(path string) (entities.AlignmentTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return entities.AlignmentTable{}, err
	}
	defer f.Close()
	return Parse(f)
}

// roundTenth rounds to one decimal place. Every duration the scorer compares
// goes through this rounding first.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// inner drops the first and last row of the slice, the aligner's
// silence/boundary markers.
func inner(rows []entities.AlignmentRow) []entities.AlignmentRow {
	if len(rows) <= 2 {
		return nil
	}
	return rows[1 : len(rows)-1]
}

// PhraseSpan returns the start and end of the spoken phrase, taken from the
// PhonAlign rows without the boundary markers. ok is false when the table
// has no inner PhonAlign rows.
func PhraseSpan(t entities.AlignmentTable) (start, end float64, ok bool) {
	rows := inner(t.OfKind(entities.KindPhonAlign))
	if len(rows) == 0 {
		return 0, 0, false
	}
	return rows[0].Start, rows[len(rows)-1].End, true
}

// PhraseDuration returns the phrase span length rounded to one decimal.
func PhraseDuration(t entities.AlignmentTable) (float64, bool) {
	start, end, ok := PhraseSpan(t)
	if !ok {
		return 0, false
	}
	return roundTenth(end - start), true
}

// TokenDurations returns the word-level durations, rounded to one decimal.
func TokenDurations(t entities.AlignmentTable) []float64 {
	return durations(inner(t.OfKind(entities.KindTokensAlign)))
}

// PhonemeDurations returns the phoneme-level durations, rounded to one decimal.
func PhonemeDurations(t entities.AlignmentTable) []float64 {
	return durations(inner(t.OfKind(entities.KindPhonAlign)))
}

func durations(rows []entities.AlignmentRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = roundTenth(r.Duration)
	}
	return out
}

// RecognizedPhonemes joins the surface side of each inner PronTokAlign label
// (form "surface=canonical") with spaces. The result is empty when the table
// carries no recognized tokens.
func RecognizedPhonemes(t entities.AlignmentTable) string {
	rows := inner(t.OfKind(entities.KindPronTokAlign))
	surfaces := make([]string, 0, len(rows))
	for _, r := range rows {
		surface, _, _ := strings.Cut(r.Label, "=")
		surfaces = append(surfaces, surface)
	}
	return strings.Join(surfaces, " ")
}

// DurationProfile builds the duration list the fluency score compares:
// the phrase duration followed by token durations followed by phoneme
// durations, all rounded to one decimal.
func DurationProfile(t entities.AlignmentTable) []float64 {
	var profile []float64
	if d, ok := PhraseDuration(t); ok {
		profile = append(profile, d)
	}
	profile = append(profile, TokenDurations(t)...)
	profile = append(profile, PhonemeDurations(t)...)
	return profile
}
