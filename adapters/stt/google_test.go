package stt_test

import (
	"github.com/hablalab/fonema/adapters/stt"
	"github.com/hablalab/fonema/domain/repositories"
)

var _ repositories.SpeechToText = &stt.GoogleSpeechToText{}
