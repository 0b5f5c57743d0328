package stt

import (
	"context"

	"go.uber.org/zap"

	"github.com/hablalab/fonema/domain/repositories"
)

// MockSpeechToText is a placeholder implementation for speech recognition,
// used in local runs without Google credentials and in tests.
type MockSpeechToText struct {
	logger *zap.Logger
}

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) repositories.SpeechToText {
	return &MockSpeechToText{
		logger: logger,
	}
}

// TranscribeAudio implements repositories.SpeechToText
func (s *MockSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	s.logger.Info("Processing speech-to-text",
		zap.Int("audioSize", len(audioData)),
		zap.Int("sampleRate", config.SampleRate),
		zap.String("encoding", config.Encoding),
		zap.String("language", config.Language))

	// Mock transcription based on audio size
	switch {
	case len(audioData) > 64000:
		return "hola mundo cómo estás", nil
	case len(audioData) > 32000:
		return "hola mundo", nil
	case len(audioData) > 8000:
		return "hola", nil
	default:
		return "", nil
	}
}
