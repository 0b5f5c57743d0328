package entities

import "testing"

func TestCanonicalAudioDuration(t *testing.T) {
	a := CanonicalAudio{
		PCM:        make([]byte, CanonicalSampleRate*CanonicalSampleSize), // one second
		SampleRate: CanonicalSampleRate,
		Channels:   CanonicalChannels,
		SampleSize: CanonicalSampleSize,
	}

	if d := a.DurationSeconds(); d != 1.0 {
		t.Errorf("Expected 1.0s, got %v", d)
	}

	var zero CanonicalAudio
	if d := zero.DurationSeconds(); d != 0 {
		t.Errorf("Expected 0s for empty audio, got %v", d)
	}
	if !zero.Empty() {
		t.Error("Expected zero-value audio to be empty")
	}
}
