package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accessdesk/user-portal/internal/api/middleware"
	"github.com/accessdesk/user-portal/internal/core/domain"
	"github.com/accessdesk/user-portal/internal/core/ports"
)

// UserHandler exposes the self-service surface for authenticated users.
type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Me returns the authenticated principal's own account.
//
// @Summary      Current user profile
// @Tags         user
// @Produce      json
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  map[string]string
// @Router       /api/user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	email := middleware.PrincipalEmail(c)
	if email == "" {
		return domain.ErrUnauthorized
	}
	account, err := h.accounts.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}
