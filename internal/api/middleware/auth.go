package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by Auth.
const (
	ContextAccountID = "account_id"
	ContextTenant    = "tenant"
	ContextSessionID = "session_id"
)

// SessionChecker reports whether a session id is still live.
type SessionChecker interface {
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// Auth validates the JWT and injects its claims into the context. When
// sessions is non-nil, tokens whose session was revoked are rejected.
func Auth(jwtSecret string, sessions SessionChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			sid, _ := claims["sid"].(string)

			if sessions != nil {
				live, err := sessions.Exists(c.Request().Context(), sid)
				if err != nil {
					return err
				}
				if !live {
					return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
				}
			}

			c.Set(ContextAccountID, sub)
			c.Set(ContextTenant, claims["tenant"])
			c.Set(ContextSessionID, sid)

			return next(c)
		}
	}
}
