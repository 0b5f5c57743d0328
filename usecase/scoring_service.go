package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hablalab/fonema/adapters/audio"
	"github.com/hablalab/fonema/domain/entities"
	"github.com/hablalab/fonema/domain/repositories"
	"github.com/hablalab/fonema/internal/alignment"
	"github.com/hablalab/fonema/lexicon"
)

// ScoringService orchestrates one scoring request: normalization,
// recognition, forced alignment and scoring run strictly in sequence inside
// a working directory owned by the request alone. The directory is removed
// on every exit path.
type ScoringService struct {
	normalizer   repositories.AudioNormalizer
	speechToText repositories.SpeechToText
	aligner      repositories.Aligner
	scorer       *Scorer
	dictionary   *lexicon.Dictionary
	locale       string
	workRoot     string
	logger       *zap.Logger
}

// NewScoringService creates a new scoring service
func NewScoringService(
	normalizer repositories.AudioNormalizer,
	stt repositories.SpeechToText,
	aligner repositories.Aligner,
	scorer *Scorer,
	dictionary *lexicon.Dictionary,
	locale string,
	workRoot string,
	logger *zap.Logger,
) *ScoringService {
	return &ScoringService{
		normalizer:   normalizer,
		speechToText: stt,
		aligner:      aligner,
		scorer:       scorer,
		dictionary:   dictionary,
		locale:       locale,
		workRoot:     workRoot,
		logger:       logger,
	}
}

// Execute scores one request and returns the score bundle.
func (s *ScoringService) Execute(ctx context.Context, req entities.ScoreRequest) (entities.ScoreBundle, error) {
	sessionID := uuid.NewString()
	logger := s.logger.With(zap.String("sessionID", sessionID))

	phrase := entities.SanitizePhrase(req.Phrase)
	if err := s.validatePhrase(phrase); err != nil {
		return entities.ScoreBundle{}, err
	}

	learnerRaw, err := base64.StdEncoding.DecodeString(req.Pronunciation)
	if err != nil {
		return entities.ScoreBundle{}, fmt.Errorf("%w: invalid base64 learner audio", entities.ErrAudioDecode)
	}
	nativeRaw, err := base64.StdEncoding.DecodeString(req.PronunciationNative)
	if err != nil {
		return entities.ScoreBundle{}, fmt.Errorf("%w: invalid base64 native audio", entities.ErrAudioDecode)
	}

	workDir := filepath.Join(s.workRoot, "score-"+sessionID)
	rawDir := filepath.Join(workDir, "raw")
	audioDir := filepath.Join(workDir, "audios")
	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		return entities.ScoreBundle{}, fmt.Errorf("create working directory: %w", err)
	}
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		os.RemoveAll(workDir)
		return entities.ScoreBundle{}, fmt.Errorf("create working directory: %w", err)
	}
	// Everything under workDir belongs to this request alone.
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Error("failed to remove working directory", zap.Error(err))
		}
	}()

	logger.Info("scoring request accepted",
		zap.String("phrase", phrase),
		zap.String("learnerFormat", req.PronunciationFormat),
		zap.String("nativeFormat", req.PronunciationNativeFormat))

	if err := os.WriteFile(filepath.Join(rawDir, "pronunciation."+req.PronunciationFormat), learnerRaw, 0o644); err != nil {
		return entities.ScoreBundle{}, fmt.Errorf("write raw learner audio: %w", err)
	}
	if err := os.WriteFile(filepath.Join(rawDir, "pronunciationNative."+req.PronunciationNativeFormat), nativeRaw, 0o644); err != nil {
		return entities.ScoreBundle{}, fmt.Errorf("write raw native audio: %w", err)
	}

	learnerAudio, err := s.normalizer.Normalize(ctx, learnerRaw, req.PronunciationFormat)
	if err != nil {
		return entities.ScoreBundle{}, fmt.Errorf("normalize learner audio: %w", err)
	}
	nativeAudio, err := s.normalizer.Normalize(ctx, nativeRaw, req.PronunciationNativeFormat)
	if err != nil {
		return entities.ScoreBundle{}, fmt.Errorf("normalize native audio: %w", err)
	}

	if err := audio.WriteWAVFile(filepath.Join(audioDir, repositories.LearnerAudioFile), learnerAudio); err != nil {
		return entities.ScoreBundle{}, fmt.Errorf("write learner audio: %w", err)
	}
	if err := audio.WriteWAVFile(filepath.Join(audioDir, repositories.NativeAudioFile), nativeAudio); err != nil {
		return entities.ScoreBundle{}, fmt.Errorf("write native audio: %w", err)
	}
	if err := os.WriteFile(filepath.Join(audioDir, repositories.NativePhraseFile), []byte(phrase+"\n"), 0o644); err != nil {
		return entities.ScoreBundle{}, fmt.Errorf("write phrase file: %w", err)
	}

	transcript := s.recognize(ctx, learnerAudio, logger)
	if err := os.WriteFile(filepath.Join(audioDir, repositories.LearnerTranscriptFile), []byte(transcript+"\n"), 0o644); err != nil {
		return entities.ScoreBundle{}, fmt.Errorf("write transcript file: %w", err)
	}

	if err := s.aligner.Align(ctx, audioDir); err != nil {
		return entities.ScoreBundle{}, err
	}

	learnerTable, err := alignment.ParseFile(filepath.Join(audioDir, repositories.LearnerAlignmentTable))
	if err != nil {
		return entities.ScoreBundle{}, fmt.Errorf("parse learner alignment: %w", err)
	}
	nativeTable, err := alignment.ParseFile(filepath.Join(audioDir, repositories.NativeAlignmentTable))
	if err != nil {
		return entities.ScoreBundle{}, fmt.Errorf("parse native alignment: %w", err)
	}

	bundle, err := s.scorer.Score(phrase, transcript, learnerTable, nativeTable)
	if err != nil {
		return entities.ScoreBundle{}, err
	}

	logger.Info("scoring completed",
		zap.Int("completeness", bundle.Completeness),
		zap.Int("accuracy", bundle.Accuracy),
		zap.Float64("fluency", bundle.Fluency),
		zap.Float64("pronunciation", bundle.Pronunciation))

	return bundle, nil
}

// validatePhrase checks every phrase word against the dictionary before any
// expensive work happens. An unknown word is a phrase-level validation
// error; the detail names the closest dictionary word when one exists.
func (s *ScoringService) validatePhrase(phrase string) error {
	words := entities.PhraseWords(phrase)
	if len(words) == 0 {
		return fmt.Errorf("%w: phrase is empty after sanitization", entities.ErrPhraseNotScorable)
	}

	for _, word := range words {
		if _, err := s.dictionary.Lookup(word); err != nil {
			if suggestion, ok := s.dictionary.Suggest(word); ok {
				return fmt.Errorf("%w: %q is not in the dictionary (closest match: %q)", entities.ErrPhraseNotScorable, word, suggestion)
			}
			return fmt.Errorf("%w: %q is not in the dictionary", entities.ErrPhraseNotScorable, word)
		}
	}
	return nil
}

// recognize produces the learner transcript. A backend failure degrades to
// an empty transcript so the response stays defined; scoring continues.
func (s *ScoringService) recognize(ctx context.Context, learner entities.CanonicalAudio, logger *zap.Logger) string {
	transcript, err := s.speechToText.TranscribeAudio(ctx, learner.PCM, repositories.AudioConfig{
		SampleRate: learner.SampleRate,
		Encoding:   "LINEAR16",
		Language:   s.locale,
	})
	if err != nil {
		logger.Warn("recognizer backend unavailable, continuing with empty transcript",
			zap.String("kind", entities.ErrRecognitionUnavailable.Error()),
			zap.Error(err))
		return ""
	}
	return transcript
}
