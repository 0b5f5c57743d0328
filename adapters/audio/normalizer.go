// Package audio converts arbitrary container-formatted audio payloads into
// the canonical form the rest of the pipeline works with: mono, 16 kHz,
// signed 16-bit PCM, peak-normalized so silence floors are comparable across
// submissions. Container decoding and resampling are delegated to ffmpeg;
// loudness normalization happens in-process on the decoded samples.
package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hablalab/fonema/domain/entities"
	"github.com/hablalab/fonema/domain/repositories"
)

// peakTarget is the post-normalization peak amplitude: -0.1 dBFS of
// headroom, matching the loudness convention of the annotation toolkit.
const peakTarget = 0.9886

// Decoder converts a raw payload of the declared format into canonical WAV
// bytes. Injectable so tests can avoid the ffmpeg dependency.
type Decoder func(ctx context.Context, raw []byte, declaredFormat string) ([]byte, error)

// FFmpegNormalizer implements repositories.AudioNormalizer on top of an
// ffmpeg subprocess.
type FFmpegNormalizer struct {
	decode Decoder
	logger *zap.Logger
}

// NormalizerOption configures an FFmpegNormalizer.
type NormalizerOption func(*FFmpegNormalizer)

// WithDecoder replaces the ffmpeg decoder, for tests.
func WithDecoder(decode Decoder) NormalizerOption {
	return func(n *FFmpegNormalizer) {
		n.decode = decode
	}
}

// NewFFmpegNormalizer creates a normalizer that shells out to the ffmpeg
// binary at ffmpegPath ("ffmpeg" resolves via PATH).
func NewFFmpegNormalizer(ffmpegPath string, logger *zap.Logger, opts ...NormalizerOption) *FFmpegNormalizer {
	n := &FFmpegNormalizer{
		decode: ffmpegDecoder(ffmpegPath),
		logger: logger,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Normalize decodes raw according to declaredFormat and returns canonical
// audio. An empty or undecodable payload fails with entities.ErrAudioDecode.
func (n *FFmpegNormalizer) Normalize(ctx context.Context, raw []byte, declaredFormat string) (entities.CanonicalAudio, error) {
	if len(raw) == 0 {
		return entities.CanonicalAudio{}, fmt.Errorf("%w: empty payload", entities.ErrAudioDecode)
	}

	wavBytes, err := n.decode(ctx, raw, declaredFormat)
	if err != nil {
		n.logger.Warn("audio decode failed",
			zap.String("format", declaredFormat),
			zap.Int("payloadSize", len(raw)),
			zap.Error(err))
		return entities.CanonicalAudio{}, fmt.Errorf("%w: %v", entities.ErrAudioDecode, err)
	}

	pcm, sampleRate, channels, err := DecodeWAV(wavBytes)
	if err != nil {
		return entities.CanonicalAudio{}, fmt.Errorf("%w: %v", entities.ErrAudioDecode, err)
	}
	if sampleRate != entities.CanonicalSampleRate || channels != entities.CanonicalChannels {
		return entities.CanonicalAudio{}, fmt.Errorf("%w: decoder produced %d Hz / %d channels", entities.ErrAudioDecode, sampleRate, channels)
	}
	if len(pcm) == 0 {
		return entities.CanonicalAudio{}, fmt.Errorf("%w: no samples decoded", entities.ErrAudioDecode)
	}

	return entities.CanonicalAudio{
		PCM:        normalizePeak(pcm),
		SampleRate: entities.CanonicalSampleRate,
		Channels:   entities.CanonicalChannels,
		SampleSize: entities.CanonicalSampleSize,
	}, nil
}

// normalizePeak scales the samples so the peak sits at peakTarget of full
// scale. All-silence buffers are returned unchanged.
func normalizePeak(pcm []byte) []byte {
	samples := make([]int16, len(pcm)/2)
	peak := 0
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
		samples[i] = s
		abs := int(s)
		if abs < 0 {
			abs = -abs
		}
		if abs > peak {
			peak = abs
		}
	}

	if peak == 0 {
		return pcm
	}

	scale := peakTarget * 32767.0 / float64(peak)
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := float64(s) * scale
		switch {
		case v > 32767:
			v = 32767
		case v < -32768:
			v = -32768
		}
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(v)))
	}
	return out
}

// ffmpegDecoder shells out to ffmpeg through temporary files; several input
// containers (m4a among them) need seekable inputs, so pipes are not enough.
func ffmpegDecoder(ffmpegPath string) Decoder {
	return func(ctx context.Context, raw []byte, declaredFormat string) ([]byte, error) {
		tmp, err := os.MkdirTemp("", "fonema-decode-")
		if err != nil {
			return nil, fmt.Errorf("create decode dir: %w", err)
		}
		defer os.RemoveAll(tmp)

		inPath := filepath.Join(tmp, "input."+declaredFormat)
		outPath := filepath.Join(tmp, "output.wav")
		if err := os.WriteFile(inPath, raw, 0o644); err != nil {
			return nil, fmt.Errorf("write decode input: %w", err)
		}

		cmd := exec.CommandContext(ctx, ffmpegPath,
			"-hide_banner", "-loglevel", "error",
			"-i", inPath,
			"-ac", "1",
			"-ar", "16000",
			"-acodec", "pcm_s16le",
			"-y", outPath,
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			return nil, fmt.Errorf("ffmpeg: %w (output: %s)", err, out)
		}

		return os.ReadFile(outPath)
	}
}

var _ repositories.AudioNormalizer = &FFmpegNormalizer{}
