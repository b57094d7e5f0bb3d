package sandbox

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/paquexpress/client-go/internal/core/domain"
	"github.com/paquexpress/client-go/internal/sandbox/repository"
)

// errorResponse is the canonical error envelope; the client gateway decodes
// the same shape.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler maps known errors to deterministic HTTP codes, logs
// unexpected ones, and renders the {"error": "<message>"} envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, repository.ErrTokenNotFound):
		return http.StatusUnauthorized, "invalid or expired refresh token"
	case errors.Is(err, repository.ErrAccountNotFound):
		return http.StatusUnauthorized, "account no longer exists"
	case errors.Is(err, domain.ErrTenantNotFound):
		return http.StatusNotFound, "empresa not found"
	case errors.Is(err, repository.ErrNotMember):
		return http.StatusNotFound, "no profile in this empresa"
	case errors.Is(err, domain.ErrUnknownRole):
		return http.StatusInternalServerError, "corrupt membership role"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
