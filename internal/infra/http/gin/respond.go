package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/apperr"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

// fail renders err as a tagged result. The message is passed through as is,
// backend failures included; those are also logged.
func fail(c *gin.Context, logger *slog.Logger, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindBackendFailure && logger != nil {
		logger.Error("request failed", "route", c.FullPath(), "error", err, "request_id", c.GetString("request_id"))
	}
	c.AbortWithStatusJSON(statusFor(kind), envelope{Error: err.Error(), Kind: string(kind)})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Error: message, Kind: string(apperr.KindValidation)})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuthRequired:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAvailabilityConflict, apperr.KindAlreadyCancelled, apperr.KindDuplicateReview:
		return http.StatusConflict
	case apperr.KindWithinCancellationWindow, apperr.KindNotEligible:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIntDefault(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}

func parseFloatPtr(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
