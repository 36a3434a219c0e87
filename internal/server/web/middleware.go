package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dbalakin/userman/internal/common"
	"github.com/dbalakin/userman/internal/server/auth"
)

// Context keys under which the authenticated subject is stored.
const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// accessToken verifies the bearer token and stores the subject's identity
// and role on the request context.
func accessToken(secretKey []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return respondFailure(c, http.StatusUnauthorized, "missing token")
			}

			claims, err := auth.ParseToken(token, secretKey)
			if err != nil {
				if errors.Is(err, common.ErrTokenExpired) {
					return respondFailure(c, http.StatusUnauthorized, "token expired")
				}
				return respondFailure(c, http.StatusUnauthorized, "invalid token")
			}

			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxRole, claims.Role)

			return next(c)
		}
	}
}

// requireRole guards an endpoint behind an exact role match. It must run
// after accessToken.
func requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r, _ := c.Get(ctxRole).(string); r != role {
				return respondFailure(c, http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
