package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/accessdesk/user-portal/internal/core/ports"
)

// AdminHandler exposes the admin user-management surface. Authorization
// has already happened in the policy gate by the time these run.
type AdminHandler struct {
	accounts ports.AccountService
}

func NewAdminHandler(accounts ports.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

type accountRequest struct {
	FirstName string   `json:"first_name" validate:"required"`
	LastName  string   `json:"last_name" validate:"required"`
	Age       int      `json:"age" validate:"gte=0"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password"`
	Roles     []string `json:"roles"`
}

func (r accountRequest) toInput() ports.AccountInput {
	return ports.AccountInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Age:       r.Age,
		Email:     r.Email,
		Password:  r.Password,
		Roles:     r.Roles,
	}
}

// ListUsers returns all accounts.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {array}  domain.Account
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	accounts, err := h.accounts.ListAccounts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// GetUser returns one account by id.
//
// @Summary      Get user
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  domain.Account
// @Failure      404  {object}  map[string]string
// @Router       /api/admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	account, err := h.accounts.GetAccount(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// CreateUser creates an account with an explicit role set.
//
// @Summary      Create user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      accountRequest  true  "Account details"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req accountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.CreateAccount(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, account)
}

// UpdateUser rewrites an account.
//
// @Summary      Update user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "Account ID"
// @Param        body  body      accountRequest  true  "Account details"
// @Success      200   {object}  domain.Account
// @Failure      404   {object}  map[string]string
// @Router       /api/admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req accountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.UpdateAccount(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// DeleteUser removes an account.
//
// @Summary      Delete user
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "Account ID"
// @Success      204  "No Content"
// @Failure      404  {object}  map[string]string
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.accounts.DeleteAccount(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListRoles returns the role vocabulary.
//
// @Summary      List roles
// @Tags         admin
// @Produce      json
// @Success      200  {array}  domain.Role
// @Router       /api/admin/roles [get]
func (h *AdminHandler) ListRoles(c echo.Context) error {
	roles, err := h.accounts.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
