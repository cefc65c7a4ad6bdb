package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
)

// Authorizer lo implementa *access.Resolver.
type Authorizer interface {
	Authorize(ctx context.Context, userID string, required ...string) error
}

// RequirePermissions exige que el usuario del token tenga al menos uno de perms
// (o el rol admin). Debe ir DESPUÉS de AuthMiddleware.
//
//   - 401 → sin usuario en el contexto.
//   - 403 → sin ninguno de los permisos.
//   - 503 → no se pudieron consultar los roles.
func RequirePermissions(authz Authorizer, perms ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := authz.Authorize(c.UserContext(), GetUserID(c), perms...)
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, domain.ErrUnauthenticated):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "usuario no encontrado en el token",
			})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "no tiene permisos para este recurso",
			})
		default:
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PERMISSION_CHECK_FAILED",
				Message: "no se pudieron verificar los permisos, intente más tarde",
			})
		}
	}
}
