package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuslink/auth-portal/internal/core/domain"
	"github.com/campuslink/auth-portal/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// StudentLogin verifies student credentials and returns a session token.
//
// @Summary      Student login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      studentLoginRequest  true  "Student credentials"
// @Success      200   {object}  studentLoginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/student/login [post]
func (h *AuthHandler) StudentLogin(c echo.Context) error {
	var req studentLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	session, err := h.authService.LoginStudent(c.Request().Context(), toStudentLogin(req))
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toStudentLoginResponse(session))
}

// CompanyLogin verifies company credentials and the company code.
//
// @Summary      Company login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      companyLoginRequest  true  "Company credentials"
// @Success      200   {object}  companyLoginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/company/login [post]
func (h *AuthHandler) CompanyLogin(c echo.Context) error {
	var req companyLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	session, err := h.authService.LoginCompany(c.Request().Context(), toCompanyLogin(req))
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials or company code")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCompanyLoginResponse(session))
}

// CurrentUser returns the account behind the bearer token.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/user [get]
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	accountID, _, err := ctxSession(c)
	if err != nil {
		return err
	}

	acc, err := h.authService.CurrentAccount(c.Request().Context(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acc)
}

// Logout revokes the session behind the bearer token.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	_, sessionID, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), sessionID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// StudentRegister is reserved; registration runs through portalctl.
//
// @Summary      Student registration
// @Tags         auth
// @Failure      501  {object}  map[string]string
// @Router       /api/auth/student/register [post]
func (h *AuthHandler) StudentRegister(c echo.Context) error {
	return domain.ErrNotImplemented
}

// CompanyRegister is reserved; registration runs through portalctl.
//
// @Summary      Company registration
// @Tags         auth
// @Failure      501  {object}  map[string]string
// @Router       /api/auth/company/register [post]
func (h *AuthHandler) CompanyRegister(c echo.Context) error {
	return domain.ErrNotImplemented
}
