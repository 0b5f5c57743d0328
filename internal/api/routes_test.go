package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hablalab/fonema/domain/entities"
	"github.com/hablalab/fonema/domain/repositories"
	"github.com/hablalab/fonema/internal/auth"
	"github.com/hablalab/fonema/lexicon"
	"github.com/hablalab/fonema/usecase"
)

const testDict = `hola [] o l a
mundo [] m u n d o
`

const testAlignmentCSV = `PhonAlign,0.0,0.2,#
PhonAlign,0.2,0.5,o
PhonAlign,0.5,0.8,l
PhonAlign,0.8,1.1,a
PhonAlign,1.1,1.3,#
TokensAlign,0.0,0.2,#
TokensAlign,0.2,1.1,hola
TokensAlign,1.1,1.3,#
PronTokAlign,0.0,0.2,#
PronTokAlign,0.2,1.1,o-l-a=hola
PronTokAlign,1.1,1.3,#
`

type stubNormalizer struct{}

func (stubNormalizer) Normalize(ctx context.Context, raw []byte, format string) (entities.CanonicalAudio, error) {
	return entities.CanonicalAudio{
		PCM:        make([]byte, 3200),
		SampleRate: entities.CanonicalSampleRate,
		Channels:   entities.CanonicalChannels,
		SampleSize: entities.CanonicalSampleSize,
	}, nil
}

type stubSTT struct{}

func (stubSTT) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	return "hola", nil
}

type stubAligner struct {
	err error
}

func (s stubAligner) Align(ctx context.Context, dir string) error {
	if s.err != nil {
		return s.err
	}
	for _, name := range []string{repositories.LearnerAlignmentTable, repositories.NativeAlignmentTable} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(testAlignmentCSV), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func newTestServer(t *testing.T, authSecret string, aligner repositories.Aligner) *echo.Echo {
	t.Helper()

	dict, err := lexicon.Load(strings.NewReader(testDict))
	if err != nil {
		t.Fatalf("Failed to load dictionary: %v", err)
	}

	logger := zap.NewNop()
	svc := usecase.NewScoringService(
		stubNormalizer{},
		stubSTT{},
		aligner,
		usecase.NewScorer(dict, logger),
		dict,
		"es-CO",
		t.TempDir(),
		logger,
	)

	e := echo.New()
	InitRoutes(e, svc, authSecret, time.Minute, logger)
	return e
}

func scoreBody(phrase string) string {
	payload := base64.StdEncoding.EncodeToString([]byte("audio"))
	body, _ := json.Marshal(entities.ScoreRequest{
		Pronunciation:             payload,
		PronunciationFormat:       "wav",
		PronunciationNative:       payload,
		PronunciationNativeFormat: "wav",
		Phrase:                    phrase,
	})
	return string(body)
}

func postScore(e *echo.Echo, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t, "", stubAligner{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestScoreHappyPath(t *testing.T) {
	e := newTestServer(t, "", stubAligner{})

	rec := postScore(e, scoreBody("¿Hola?"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var bundle entities.ScoreBundle
	if err := json.Unmarshal(rec.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if bundle.Completeness != 100 || bundle.Accuracy != 100 {
		t.Errorf("Expected perfect completeness and accuracy, got %+v", bundle)
	}
	if bundle.Fluency != 100.00 {
		t.Errorf("Expected Fluency 100.00, got %v", bundle.Fluency)
	}
}

func TestScoreUnknownWordIs422(t *testing.T) {
	e := newTestServer(t, "", stubAligner{})

	rec := postScore(e, scoreBody("hola xyzzy"), "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error != "phrase_not_scorable" {
		t.Errorf("Expected kind phrase_not_scorable, got %q", resp.Error)
	}
}

func TestScoreAlignmentTimeoutIs504(t *testing.T) {
	e := newTestServer(t, "", stubAligner{err: entities.ErrAlignmentTimeout})

	rec := postScore(e, scoreBody("hola"), "")
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("Expected 504, got %d", rec.Code)
	}
}

func TestScoreMissingFieldsIs400(t *testing.T) {
	e := newTestServer(t, "", stubAligner{})

	rec := postScore(e, `{"Phrase":"hola"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestScoreInternalErrorHidesDetail(t *testing.T) {
	e := newTestServer(t, "", stubAligner{err: os.ErrPermission})

	rec := postScore(e, scoreBody("hola"), "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if strings.Contains(resp.Detail, "permission") {
		t.Errorf("Internal error detail must not leak causes, got %q", resp.Detail)
	}
}

func TestScoreRequiresTokenWhenSecretSet(t *testing.T) {
	e := newTestServer(t, "super-secret", stubAligner{})

	rec := postScore(e, scoreBody("hola"), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", rec.Code)
	}

	token, err := auth.GenerateServiceToken([]byte("super-secret"), "test-client", time.Hour)
	if err != nil {
		t.Fatalf("GenerateServiceToken failed: %v", err)
	}

	rec = postScore(e, scoreBody("hola"), token)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid token, got %d: %s", rec.Code, rec.Body.String())
	}
}
