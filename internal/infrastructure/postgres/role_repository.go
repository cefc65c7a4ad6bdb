package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo roles, permisos y asignaciones sobre PostgreSQL.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador; q puede ser el pool o una transacción.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// GrantsForUser roles del usuario con sus permisos, en una sola consulta.
func (r *RoleRepo) GrantsForUser(ctx context.Context, userID string) ([]entity.RoleGrant, error) {
	if !isUUID(userID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT r.id, r.name,
			COALESCE(array_agg(p.name ORDER BY p.name) FILTER (WHERE p.name IS NOT NULL), '{}')
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		LEFT JOIN role_permissions rp ON rp.role_id = r.id
		LEFT JOIN permissions p ON p.id = rp.permission_id
		WHERE ur.user_id = $1
		GROUP BY r.id, r.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("grants for user: %w", err)
	}
	defer rows.Close()

	var grants []entity.RoleGrant
	for rows.Next() {
		var g entity.RoleGrant
		if err := rows.Scan(&g.RoleID, &g.RoleName, &g.Permissions); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("grants for user: %w", err)
	}
	return grants, nil
}

// FindByName obtiene un rol por nombre.
func (r *RoleRepo) FindByName(ctx context.Context, name string) (*entity.Role, error) {
	var role entity.Role
	err := r.q.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at, updated_at FROM roles WHERE name = $1`, name,
	).Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role by name: %w", err)
	}
	return &role, nil
}

// ReplaceUserRoles borra las asignaciones del usuario e inserta roleID.
// Debe ejecutarse con un Querier transaccional (TxRunner.RunUserRoles).
func (r *RoleRepo) ReplaceUserRoles(ctx context.Context, userID, roleID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user roles: %w", err)
	}
	if _, err := r.q.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id, assigned_at) VALUES ($1, $2, NOW())`, userID, roleID,
	); err != nil {
		return fmt.Errorf("insert user role: %w", err)
	}
	return nil
}
