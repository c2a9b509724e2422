package api

import (
	"strings"

	"github.com/example/pintask/modules/auth"
	"github.com/example/pintask/modules/task"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"
)

// AuthMiddleware creates a middleware that validates JWT access tokens.
func AuthMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Authorization header is required",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid authorization header format. Use: Bearer <token>",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Token is required",
			})
		}

		claims, err := authAdapter.ValidateToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
			})
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

// AdminMiddleware rejects requests whose token does not carry the admin
// role. It must run after AuthMiddleware.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := claimsFromCtx(c)
		if claims == nil || !claims.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Error:   "forbidden",
				Message: "Admin access required",
			})
		}
		return c.Next()
	}
}

// claimsFromCtx returns the claims AuthMiddleware stored, or nil.
func claimsFromCtx(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(UserContextKey).(*auth.Claims)
	return claims
}

// callerFromCtx converts the stored claims into the task module's caller
// identity.
func callerFromCtx(c *fiber.Ctx) task.Caller {
	claims := claimsFromCtx(c)
	if claims == nil {
		return task.Caller{}
	}
	return task.Caller{UserID: claims.UserID, IsAdmin: claims.IsAdmin()}
}
