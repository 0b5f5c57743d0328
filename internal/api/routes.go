package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hablalab/fonema/domain/entities"
	"github.com/hablalab/fonema/internal/auth"
	"github.com/hablalab/fonema/usecase"
)

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, scoring *usecase.ScoringService, authSecret string, requestTimeout time.Duration, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "fonema-server",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")
	if authSecret != "" {
		v1.Use(bearerAuth([]byte(authSecret), logger))
	}

	v1.POST("/score", func(c echo.Context) error {
		return score(c, scoring, requestTimeout, logger)
	})
}

func score(c echo.Context, scoring *usecase.ScoringService, requestTimeout time.Duration, logger *zap.Logger) error {
	var req entities.ScoreRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind score request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "invalid_request",
			Detail: "Invalid request format",
		})
	}

	if req.Pronunciation == "" || req.PronunciationNative == "" || req.Phrase == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "missing_fields",
			Detail: "Pronunciation, PronunciationNative and Phrase are required",
		})
	}
	if req.PronunciationFormat == "" {
		req.PronunciationFormat = "wav"
	}
	if req.PronunciationNativeFormat == "" {
		req.PronunciationNativeFormat = "wav"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	bundle, err := scoring.Execute(ctx, req)
	if err != nil {
		return errorResponse(c, err, logger)
	}

	return c.JSON(http.StatusOK, bundle)
}

// errorResponse maps pipeline errors to HTTP statuses. Only the documented
// client-facing kinds carry detail; everything else is an opaque internal
// error so filesystem paths and subprocess output never reach the client.
func errorResponse(c echo.Context, err error, logger *zap.Logger) error {
	switch {
	case errors.Is(err, entities.ErrAudioDecode):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  entities.ErrAudioDecode.Error(),
			Detail: detailFor(err, entities.ErrAudioDecode),
		})
	case errors.Is(err, entities.ErrPhraseNotScorable), errors.Is(err, entities.ErrUnknownWord):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  entities.ErrPhraseNotScorable.Error(),
			Detail: detailFor(err, entities.ErrPhraseNotScorable),
		})
	case errors.Is(err, entities.ErrReferenceUnusable):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  entities.ErrReferenceUnusable.Error(),
			Detail: detailFor(err, entities.ErrReferenceUnusable),
		})
	case errors.Is(err, entities.ErrAlignmentTimeout):
		return c.JSON(http.StatusGatewayTimeout, ErrorResponse{
			Error:  entities.ErrAlignmentTimeout.Error(),
			Detail: "forced alignment did not complete",
		})
	default:
		logger.Error("Scoring request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:  "internal_error",
			Detail: "The request could not be processed",
		})
	}
}

// detailFor strips the leading error kind from the message so the detail
// field does not repeat the kind field.
func detailFor(err error, kind error) string {
	return strings.TrimPrefix(err.Error(), kind.Error()+": ")
}

// bearerAuth requires a valid service token in the Authorization header.
func bearerAuth(secret []byte, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var token string
			authHeader := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = authHeader[len("Bearer "):]
			}

			if token == "" {
				logger.Warn("Request rejected: missing token")
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:  "missing_token",
					Detail: "A bearer token is required in the Authorization header",
				})
			}

			claims, err := auth.ValidateToken(secret, token)
			if err != nil {
				logger.Warn("Request rejected: invalid token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:  "invalid_token",
					Detail: "Invalid or expired token",
				})
			}

			if claims.Role != auth.RoleService {
				logger.Warn("Request rejected: invalid role", zap.String("role", claims.Role))
				return c.JSON(http.StatusForbidden, ErrorResponse{
					Error:  "invalid_role",
					Detail: "Only service tokens may call the scoring API",
				})
			}

			return next(c)
		}
	}
}
