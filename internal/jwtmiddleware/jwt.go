package jwtmiddleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zelora/backend/internal/service/token"
)

// RequireAuth parses the bearer token from the Authorization header and puts
// the customer identity on the request context.
func RequireAuth(ts *token.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := claimsFromHeader(c, ts)
			if err != nil {
				return err
			}
			setUserContext(c, claims)
			return next(c)
		}
	}
}

// RequireAdmin is RequireAuth plus a role check.
func RequireAdmin(ts *token.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := claimsFromHeader(c, ts)
			if err != nil {
				return err
			}
			if role, _ := claims["role"].(string); role != "ADMIN" {
				return echo.NewHTTPError(http.StatusUnauthorized, "admin access required")
			}
			setUserContext(c, claims)
			return next(c)
		}
	}
}

func claimsFromHeader(c echo.Context, ts *token.TokenService) (map[string]interface{}, error) {
	raw := BearerToken(c)
	if raw == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}
	claims, err := ts.ParseAccess(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func BearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func setUserContext(c echo.Context, claims map[string]interface{}) {
	if id, ok := claims["customerId"].(float64); ok {
		c.Set("customerID", int(id))
	}
	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}
}
