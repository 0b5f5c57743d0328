package entities

import "errors"

// Client-visible error kinds. The API layer maps these to HTTP statuses and
// to the "error" field of the error response; everything else is reported as
// an internal error without detail.
var (
	// ErrAudioDecode indicates an audio payload that could not be decoded.
	ErrAudioDecode = errors.New("audio_decode_error")

	// ErrRecognitionUnavailable indicates a transient recognizer backend
	// failure. Scoring continues with an empty transcript; the error is
	// logged, never returned to the client.
	ErrRecognitionUnavailable = errors.New("recognition_unavailable")

	// ErrAlignmentTimeout indicates the forced-alignment pipeline did not
	// produce both alignment tables within the attempt cap.
	ErrAlignmentTimeout = errors.New("alignment_timeout")

	// ErrUnknownWord indicates a word absent from the phoneme dictionary.
	ErrUnknownWord = errors.New("unknown_word")

	// ErrPhraseNotScorable indicates the phrase contains at least one word
	// the dictionary cannot resolve.
	ErrPhraseNotScorable = errors.New("phrase_not_scorable")

	// ErrReferenceUnusable indicates the native alignment is too short to
	// serve as a scoring reference.
	ErrReferenceUnusable = errors.New("reference_unusable")
)
