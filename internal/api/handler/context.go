package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuslink/auth-portal/internal/api/middleware"
)

// ctxSession extracts the identity injected by the Auth middleware. An empty
// account id means the middleware did not run.
func ctxSession(c echo.Context) (accountID, sessionID string, err error) {
	accountID, _ = c.Get(middleware.ContextAccountID).(string)
	if accountID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	sessionID, _ = c.Get(middleware.ContextSessionID).(string)
	return accountID, sessionID, nil
}
