package entities

// Canonical audio parameters. Every audio buffer handed to the recognizer or
// written for the aligner uses this format.
const (
	CanonicalSampleRate = 16000
	CanonicalChannels   = 1
	CanonicalSampleSize = 2 // bytes per sample, signed 16-bit PCM
)

// CanonicalAudio is an immutable mono 16 kHz 16-bit PCM buffer produced by
// the audio normalizer. PCM holds little-endian samples without any
// container header.
type CanonicalAudio struct {
	PCM        []byte
	SampleRate int
	Channels   int
	SampleSize int
}

// DurationSeconds returns the audio length in seconds.
func (a CanonicalAudio) DurationSeconds() float64 {
	bytesPerSecond := a.SampleRate * a.Channels * a.SampleSize
	if bytesPerSecond == 0 {
		return 0
	}
	return float64(len(a.PCM)) / float64(bytesPerSecond)
}

// Empty reports whether the buffer carries no samples.
func (a CanonicalAudio) Empty() bool {
	return len(a.PCM) == 0
}
