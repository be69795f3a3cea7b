package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/accessdesk/user-portal/internal/api/metrics"
	"github.com/accessdesk/user-portal/internal/api/middleware"
	"github.com/accessdesk/user-portal/internal/core/domain"
	"github.com/accessdesk/user-portal/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookieTTL   time.Duration
}

func NewAuthHandler(authService ports.AuthService, cookieTTL time.Duration) *AuthHandler {
	if cookieTTL <= 0 {
		cookieTTL = 24 * time.Hour
	}
	return &AuthHandler{authService: authService, cookieTTL: cookieTTL}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type principalResponse struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type loginResponse struct {
	Token       string            `json:"token"`
	Destination string            `json:"destination"`
	User        principalResponse `json:"user"`
}

type registerRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Age       int    `json:"age" validate:"gte=0"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=3"`
}

// Login authenticates a principal and establishes a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, view, destination, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		default:
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, loginResponse{
		Token:       token,
		Destination: destination,
		User:        principalResponse{Email: view.Email, Roles: view.Roles},
	})
}

// Logout clears the session cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

// Register creates a standard-role account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.authService.Register(c.Request().Context(), req.FirstName, req.LastName, req.Age, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusCreated, account)
}
