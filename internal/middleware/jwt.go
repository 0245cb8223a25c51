package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"mealmart/internal/common"
	"mealmart/internal/services"
)

// JWTMiddleware validates the bearer token and puts the acting identity on
// the request context. Role and country come from the token claims, not
// from a database round trip.
func JWTMiddleware(authService services.AuthServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return common.SendUnauthorizedError(c)
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return common.SendUnauthorizedError(c)
			}

			actor, err := authService.ParseAccessToken(tokenString)
			if err != nil {
				return common.SendUnauthorizedError(c)
			}

			ctx := common.WithActor(c.Request().Context(), actor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
