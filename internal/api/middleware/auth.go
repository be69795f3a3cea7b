package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/accessdesk/user-portal/internal/core/service"
)

// Context keys populated by Session for downstream handlers.
const (
	CtxEmail = "email"
	CtxRoles = "roles"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

// Session validates the session token and injects the principal's email
// and role set into the request context. The token is read from the
// Authorization bearer header or, failing that, the session cookie. An
// absent or invalid token leaves the request unauthenticated (empty role
// set): the policy gate decides whether that is acceptable for the path.
func Session(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr := bearerToken(c)
			if tokenStr == "" {
				if cookie, err := c.Cookie(SessionCookie); err == nil {
					tokenStr = cookie.Value
				}
			}
			if tokenStr == "" {
				return next(c)
			}

			claims, err := service.ParseSessionToken(jwtSecret, tokenStr)
			if err != nil {
				// An invalid token is treated as no session, not as an
				// error: the policy gate produces the 401 where required.
				return next(c)
			}

			c.Set(CtxEmail, claims.Subject)
			c.Set(CtxRoles, claims.Roles)
			return next(c)
		}
	}
}

// RoleSet extracts the authenticated role set from the context. An
// unauthenticated request yields an empty set.
func RoleSet(c echo.Context) []string {
	roles, _ := c.Get(CtxRoles).([]string)
	return roles
}

// PrincipalEmail extracts the authenticated principal's email, empty when
// unauthenticated.
func PrincipalEmail(c echo.Context) string {
	email, _ := c.Get(CtxEmail).(string)
	return email
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
