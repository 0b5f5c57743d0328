package usecase

import (
	"fmt"
	"math"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"

	"github.com/hablalab/fonema/domain/entities"
	"github.com/hablalab/fonema/internal/alignment"
	"github.com/hablalab/fonema/lexicon"
)

// Composite score weights. The last weight is 0.3334 so the three sum to
// exactly 1.0 in decimal arithmetic; this asymmetry is part of the response
// contract and must not be "fixed".
const (
	completenessWeight = 0.3333
	accuracyWeight     = 0.3333
	fluencyWeight      = 0.3334
)

// Scorer computes the four rubric scores from the recognizer transcript, the
// phoneme dictionary and the two parsed alignment tables. It holds no
// per-request state and is safe for concurrent use.
type Scorer struct {
	dictionary *lexicon.Dictionary
	logger     *zap.Logger
}

// NewScorer creates a new scorer backed by the process-wide dictionary.
func NewScorer(dictionary *lexicon.Dictionary, logger *zap.Logger) *Scorer {
	return &Scorer{
		dictionary: dictionary,
		logger:     logger,
	}
}

// Score computes the score bundle for one request. phrase must already be
// sanitized (lower-cased, punctuation stripped); transcript is the learner
// transcript and may be empty. Identical inputs yield bit-identical scores.
func (s *Scorer) Score(phrase, transcript string, learner, native entities.AlignmentTable) (entities.ScoreBundle, error) {
	nativeProfile := alignment.DurationProfile(native)
	if len(nativeProfile) < 2 {
		return entities.ScoreBundle{}, fmt.Errorf("%w: native profile has %d positions", entities.ErrReferenceUnusable, len(nativeProfile))
	}

	expected, err := s.expectedPhonemes(phrase)
	if err != nil {
		return entities.ScoreBundle{}, err
	}

	completeness := ratio(transcript, phrase)
	accuracy := s.accuracy(expected, learner)
	fluency := fluency(alignment.DurationProfile(learner), nativeProfile)
	pronunciation := round2(100 * (float64(completeness)/100*completenessWeight +
		float64(accuracy)/100*accuracyWeight +
		fluency/100*fluencyWeight))

	return entities.ScoreBundle{
		Completeness:  completeness,
		Accuracy:      accuracy,
		Fluency:       fluency,
		Pronunciation: pronunciation,
	}, nil
}

// expectedPhonemes renders the phrase through the dictionary: each word
// becomes its dash-joined phoneme string, words joined with single spaces.
// An unresolvable word makes the whole phrase unscorable.
func (s *Scorer) expectedPhonemes(phrase string) (string, error) {
	words := entities.PhraseWords(phrase)
	rendered := make([]string, len(words))
	for i, word := range words {
		phonemes, err := s.dictionary.Lookup(word)
		if err != nil {
			return "", fmt.Errorf("%w: %v", entities.ErrPhraseNotScorable, err)
		}
		rendered[i] = phonemes
	}
	return strings.Join(rendered, " "), nil
}

// accuracy compares the recognized phoneme sequence against the expected
// one. A table without recognized tokens scores zero.
func (s *Scorer) accuracy(expected string, learner entities.AlignmentTable) int {
	actual := alignment.RecognizedPhonemes(learner)
	if actual == "" {
		s.logger.Warn("no recognized tokens in learner alignment, accuracy is zero")
		return 0
	}
	return ratio(actual, expected)
}

// fluency is the percentage of positions at which the learner and native
// duration profiles agree exactly at one-decimal precision. The learner
// profile is truncated, never padded, to the native length.
func fluency(learnerProfile, nativeProfile []float64) float64 {
	total := len(nativeProfile)
	if len(learnerProfile) > total {
		learnerProfile = learnerProfile[:total]
	}

	equal := 0
	for i, d := range learnerProfile {
		if d == nativeProfile[i] {
			equal++
		}
	}
	return round2(100 * float64(equal) / float64(total))
}

// ratio is the symmetric, order-preserving sequence similarity in [0, 100]:
// identical strings score 100, disjoint strings 0, and a permutation of the
// words does not score 100.
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	return fuzzy.Ratio(a, b)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
