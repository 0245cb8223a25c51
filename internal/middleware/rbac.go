package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mealmart/internal/common"
	"mealmart/internal/models"
)

// RequireRole admits only the listed roles. It runs after JWTMiddleware;
// finer rules (ownership, country) stay in the services.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := common.GetActorFromContext(c.Request().Context())
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			for _, role := range roles {
				if actor.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, common.CreateErrorResponse(string(common.KindForbidden), "insufficient role for this operation", nil))
		}
	}
}
