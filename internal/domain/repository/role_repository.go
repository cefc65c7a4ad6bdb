package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// RoleRepository define el puerto de persistencia para roles, permisos y asignaciones.
type RoleRepository interface {
	// GrantsForUser carga los roles asignados al usuario con los nombres de sus permisos.
	GrantsForUser(ctx context.Context, userID string) ([]entity.RoleGrant, error)
	// FindByName devuelve (nil, nil) si el rol no existe.
	FindByName(ctx context.Context, name string) (*entity.Role, error)
	// ReplaceUserRoles borra todas las asignaciones del usuario e inserta solo roleID.
	ReplaceUserRoles(ctx context.Context, userID, roleID string) error
}
