package entities

// AlignmentKind identifies the granularity of an alignment row.
type AlignmentKind string

const (
	// KindPhonAlign rows time-stamp individual phonemes.
	KindPhonAlign AlignmentKind = "PhonAlign"
	// KindTokensAlign rows time-stamp whole words.
	KindTokensAlign AlignmentKind = "TokensAlign"
	// KindPronTokAlign rows carry the recognized token with its canonical
	// form attached as "surface=canonical".
	KindPronTokAlign AlignmentKind = "PronTokAlign"
)

// IsValid reports whether k is one of the three alignment row kinds.
func (k AlignmentKind) IsValid() bool {
	switch k {
	case KindPhonAlign, KindTokensAlign, KindPronTokAlign:
		return true
	}
	return false
}

// AlignmentRow is a single time-stamped label from a forced-alignment table.
// Duration is derived on parse as End - Start.
type AlignmentRow struct {
	Kind     AlignmentKind
	Start    float64
	End      float64
	Label    string
	Duration float64
}

// AlignmentTable holds the ordered rows parsed from one *-palign.csv file.
// Rows of the same kind are sorted by start time.
type AlignmentTable struct {
	Rows []AlignmentRow
}

// OfKind returns the rows of the given kind in table order.
func (t AlignmentTable) OfKind(kind AlignmentKind) []AlignmentRow {
	var rows []AlignmentRow
	for _, r := range t.Rows {
		if r.Kind == kind {
			rows = append(rows, r)
		}
	}
	return rows
}
