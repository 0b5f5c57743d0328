// Package config provides the configuration schema and loader for the
// scoring service. Settings come from an optional YAML file with environment
// variable overrides on top.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Aligner     AlignerConfig     `yaml:"aligner"`
	Audio       AudioConfig       `yaml:"audio"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Lexicon     LexiconConfig     `yaml:"lexicon"`
}

// ServerConfig holds network and auth settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// AuthSecret enables bearer-token authentication on the scoring
	// endpoint when non-empty.
	AuthSecret string `yaml:"auth_secret"`
}

// RecognitionConfig selects the speech recognizer.
type RecognitionConfig struct {
	// Locale is the recognition language code, e.g. "es-CO".
	Locale string `yaml:"locale"`

	// UseMock replaces the Google backend with the mock recognizer for
	// local runs without credentials.
	UseMock bool `yaml:"use_mock"`
}

// AlignerConfig drives the external forced-alignment pipeline.
type AlignerConfig struct {
	// Command is the pipeline executable; the working directory is appended
	// as the final argument.
	Command string `yaml:"command"`

	// Args are passed before the working directory.
	Args []string `yaml:"args"`

	// MaxAttempts caps pipeline invocations per request.
	MaxAttempts int `yaml:"max_attempts"`

	// AttemptTimeout bounds a single invocation.
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
}

// AudioConfig holds decoder settings.
type AudioConfig struct {
	// FFmpegPath is the ffmpeg binary; "ffmpeg" resolves via PATH.
	FFmpegPath string `yaml:"ffmpeg_path"`
}

// ScoringConfig holds per-request orchestration settings.
type ScoringConfig struct {
	// WorkRoot is the directory under which per-request working
	// directories are created.
	WorkRoot string `yaml:"work_root"`

	// RequestTimeout is the overall deadline for one scoring request.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// LexiconConfig locates the pronunciation dictionary.
type LexiconConfig struct {
	DictionaryPath string `yaml:"dictionary_path"`
}
