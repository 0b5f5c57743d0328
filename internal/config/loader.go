package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied before the file and environment are consulted.
const (
	DefaultListenAddr     = ":8080"
	DefaultLocale         = "es-CO"
	DefaultMaxAttempts    = 5
	DefaultAttemptTimeout = 60 * time.Second
	DefaultRequestTimeout = 5 * time.Minute
	DefaultFFmpegPath     = "ffmpeg"
)

// Default returns a Config with every defaulted field populated.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: DefaultListenAddr,
		},
		Recognition: RecognitionConfig{
			Locale: DefaultLocale,
		},
		Aligner: AlignerConfig{
			MaxAttempts:    DefaultMaxAttempts,
			AttemptTimeout: DefaultAttemptTimeout,
		},
		Audio: AudioConfig{
			FFmpegPath: DefaultFFmpegPath,
		},
		Scoring: ScoringConfig{
			WorkRoot:       os.TempDir(),
			RequestTimeout: DefaultRequestTimeout,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (when
// path is non-empty), then environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: open %q: %w", path, err)
		}
		defer f.Close()
		if err := decodeInto(cfg, f); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of the defaults and
// validates the result. Useful in tests where configs are constructed from
// string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decodeInto(cfg, r); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeInto(cfg *Config, r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv layers environment overrides over cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.ListenAddr = ":" + v
	}
	if v := os.Getenv("SCORER_AUTH_SECRET"); v != "" {
		cfg.Server.AuthSecret = v
	}
	if v := os.Getenv("SCORER_LOCALE"); v != "" {
		cfg.Recognition.Locale = v
	}
	if v := os.Getenv("SCORER_ALIGNER_CMD"); v != "" {
		cfg.Aligner.Command = v
	}
	if v := os.Getenv("SCORER_DICTIONARY"); v != "" {
		cfg.Lexicon.DictionaryPath = v
	}
	if v := os.Getenv("SCORER_WORK_ROOT"); v != "" {
		cfg.Scoring.WorkRoot = v
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.ListenAddr == "" {
		errs = append(errs, errors.New("server.listen_addr must not be empty"))
	}
	if cfg.Recognition.Locale == "" {
		errs = append(errs, errors.New("recognition.locale must not be empty"))
	}
	if cfg.Aligner.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("aligner.max_attempts must be at least 1, got %d", cfg.Aligner.MaxAttempts))
	}
	if cfg.Aligner.AttemptTimeout <= 0 {
		errs = append(errs, errors.New("aligner.attempt_timeout must be positive"))
	}
	if cfg.Scoring.RequestTimeout <= 0 {
		errs = append(errs, errors.New("scoring.request_timeout must be positive"))
	}
	if cfg.Lexicon.DictionaryPath == "" {
		errs = append(errs, errors.New("lexicon.dictionary_path is required"))
	}

	return errors.Join(errs...)
}
