package repositories

import "context"

// Names of the files the aligner gateway reads from and produces in the
// working directory.
const (
	LearnerAudioFile      = "pronunciation.wav"
	NativeAudioFile       = "pronunciationNative.wav"
	NativePhraseFile      = "pronunciationNative.txt"
	LearnerTranscriptFile = "pronunciation.txt"
	LearnerAlignmentTable = "pronunciation-palign.csv"
	NativeAlignmentTable  = "pronunciationNative-palign.csv"
)

// Aligner drives the external forced-alignment pipeline over a working
// directory until both per-phoneme alignment tables exist.
type Aligner interface {
	// Align runs the pipeline against dir, which must already contain the
	// two canonical audio files and the phrase text file. On success both
	// alignment CSVs exist in dir. Exceeding the internal attempt cap fails
	// with entities.ErrAlignmentTimeout.
	Align(ctx context.Context, dir string) error
}
