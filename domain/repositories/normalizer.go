package repositories

import (
	"context"

	"github.com/hablalab/fonema/domain/entities"
)

// AudioNormalizer turns a container-formatted audio payload into canonical
// mono 16 kHz 16-bit PCM with comparable loudness.
type AudioNormalizer interface {
	// Normalize decodes raw according to declaredFormat (e.g. "wav", "m4a"),
	// down-mixes, resamples, applies peak loudness normalization and
	// quantizes to 16-bit signed PCM. An empty or undecodable payload fails
	// with entities.ErrAudioDecode.
	Normalize(ctx context.Context, raw []byte, declaredFormat string) (entities.CanonicalAudio, error)
}
