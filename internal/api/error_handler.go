package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/accessdesk/user-portal/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the core error taxonomy to deterministic HTTP status codes.
//   - Keeps login failures generic: an unknown email and a wrong password
//     produce the identical response.
//   - Logs unexpected errors internally without leaking details to the client.
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
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrPrincipalNotFound):
		// Never reveal whether the email existed.
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "too many login attempts"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, domain.ErrRoleNotFound):
		return http.StatusNotFound, "role not found"
	case errors.Is(err, domain.ErrDuplicateKey):
		return http.StatusConflict, "already exists"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, domain.ErrCacheNotInitialized),
		errors.Is(err, domain.ErrUnknownCacheKey):
		// Startup-ordering bug: log loudly, answer generically.
		log.Error().Err(err).Msg("credential cache misuse at request time")
		return http.StatusInternalServerError, "internal server error"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
