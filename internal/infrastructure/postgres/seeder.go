package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/taller-api/internal/domain"
)

// Seeder altas idempotentes de roles, permisos y el usuario administrador (cmd/seed).
type Seeder struct {
	q Querier
}

// NewSeeder construye el seeder; usar dentro de TxRunner.RunSeed.
func NewSeeder(q Querier) *Seeder {
	return &Seeder{q: q}
}

// EnsurePermission crea el permiso si no existe y devuelve su id.
func (s *Seeder) EnsurePermission(ctx context.Context, name, description string) (string, error) {
	var id string
	err := s.q.QueryRow(ctx, `
		INSERT INTO permissions (name, description) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
		RETURNING id`, name, description).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("ensure permission %s: %w", name, err)
	}
	return id, nil
}

// EnsureRole crea el rol si no existe y devuelve su id.
func (s *Seeder) EnsureRole(ctx context.Context, name, description string) (string, error) {
	var id string
	err := s.q.QueryRow(ctx, `
		INSERT INTO roles (name, description) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, updated_at = NOW()
		RETURNING id`, name, description).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("ensure role %s: %w", name, err)
	}
	return id, nil
}

// Grant asigna el permiso al rol (sin error si ya estaba).
func (s *Seeder) Grant(ctx context.Context, roleID, permissionID string) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, roleID, permissionID)
	if err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}
	return nil
}

// UpsertUser crea el usuario por email o actualiza nombre, teléfono y hash si ya existe.
// Devuelve domain.ErrDuplicate si el teléfono ya pertenece a otra cuenta.
func (s *Seeder) UpsertUser(ctx context.Context, fullName, phone, email, passwordHash string) (string, error) {
	var id string
	err := s.q.QueryRow(ctx, `
		INSERT INTO users (full_name, phone, email, password_hash) VALUES ($1, NULLIF($2, ''), $3, $4)
		ON CONFLICT (email) DO UPDATE
			SET full_name = EXCLUDED.full_name,
			    phone = COALESCE(EXCLUDED.phone, users.phone),
			    password_hash = EXCLUDED.password_hash,
			    updated_at = NOW()
		RETURNING id`, fullName, phone, email, passwordHash).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: el teléfono %s ya está en uso", domain.ErrDuplicate, phone)
		}
		return "", fmt.Errorf("upsert user: %w", err)
	}
	return id, nil
}

// AssignOnlyRole deja al usuario con un único rol.
func (s *Seeder) AssignOnlyRole(ctx context.Context, userID, roleID string) error {
	return NewRoleRepository(s.q).ReplaceUserRoles(ctx, userID, roleID)
}
