package config

import (
	"strings"
	"testing"
	"time"
)

const validYAML = `
server:
  listen_addr: ":9090"
recognition:
  locale: es-MX
aligner:
  command: /opt/align/run.sh
  max_attempts: 3
  attempt_timeout: 30s
lexicon:
  dictionary_path: /data/es.dict
`

func TestLoadFromReaderAppliesFileOverDefaults(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(validYAML))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}

	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("Expected listen_addr :9090, got %q", cfg.Server.ListenAddr)
	}
	if cfg.Recognition.Locale != "es-MX" {
		t.Errorf("Expected locale es-MX, got %q", cfg.Recognition.Locale)
	}
	if cfg.Aligner.MaxAttempts != 3 {
		t.Errorf("Expected max_attempts 3, got %d", cfg.Aligner.MaxAttempts)
	}
	if cfg.Aligner.AttemptTimeout != 30*time.Second {
		t.Errorf("Expected attempt_timeout 30s, got %v", cfg.Aligner.AttemptTimeout)
	}

	// Untouched fields keep their defaults.
	if cfg.Audio.FFmpegPath != DefaultFFmpegPath {
		t.Errorf("Expected default ffmpeg path, got %q", cfg.Audio.FFmpegPath)
	}
	if cfg.Scoring.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("Expected default request timeout, got %v", cfg.Scoring.RequestTimeout)
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	yaml := "server:\n  listen_port: 8080\n"
	if _, err := LoadFromReader(strings.NewReader(yaml)); err == nil {
		t.Error("Expected error for unknown config field")
	}
}

func TestValidateRequiresDictionary(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error without a dictionary path")
	}

	cfg.Lexicon.DictionaryPath = "/data/es.dict"
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestValidateRejectsBadAttemptCap(t *testing.T) {
	cfg := Default()
	cfg.Lexicon.DictionaryPath = "/data/es.dict"
	cfg.Aligner.MaxAttempts = 0

	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for max_attempts 0")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("SCORER_LOCALE", "es-AR")
	t.Setenv("SCORER_DICTIONARY", "/env/es.dict")

	cfg := Default()
	applyEnv(cfg)

	if cfg.Server.ListenAddr != ":7070" {
		t.Errorf("Expected listen addr :7070, got %q", cfg.Server.ListenAddr)
	}
	if cfg.Recognition.Locale != "es-AR" {
		t.Errorf("Expected locale es-AR, got %q", cfg.Recognition.Locale)
	}
	if cfg.Lexicon.DictionaryPath != "/env/es.dict" {
		t.Errorf("Expected dictionary /env/es.dict, got %q", cfg.Lexicon.DictionaryPath)
	}
}
