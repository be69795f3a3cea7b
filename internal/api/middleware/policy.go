package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/accessdesk/user-portal/internal/api/metrics"
	"github.com/accessdesk/user-portal/internal/core/access"
	"github.com/accessdesk/user-portal/internal/core/domain"
)

// PolicyGate evaluates the access policy for every request before any
// business handler runs. A denied request short-circuits here: no
// directory lookup or password work happens for it. The two deny kinds
// map to distinct errors so the error handler can answer "please sign in"
// vs "forbidden".
func PolicyGate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := access.Authorize(c.Request().URL.Path, RoleSet(c))
			metrics.AuthzDecisionsTotal.WithLabelValues(decision.Outcome.String()).Inc()

			switch decision.Outcome {
			case access.Allow:
				return next(c)
			case access.DenyUnauthorized:
				return domain.ErrUnauthorized
			default:
				return domain.ErrForbidden
			}
		}
	}
}
