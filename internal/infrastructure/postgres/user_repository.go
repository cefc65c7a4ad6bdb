package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador; q puede ser el pool o una transacción.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `u.id, u.full_name, COALESCE(u.phone, ''), COALESCE(u.email, ''), u.password_hash,
	COALESCE(u.address, ''), u.created_at, u.updated_at`

func scanUser(row pgx.Row, extra ...any) (*entity.User, error) {
	var u entity.User
	dest := append([]any{
		&u.ID, &u.FullName, &u.Phone, &u.Email, &u.PasswordHash, &u.Address, &u.CreatedAt, &u.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE ` + where + ` LIMIT 1`
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// FindByID obtiene un usuario por ID.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if !isUUID(id) {
		return nil, nil
	}
	u, err := r.findOne(ctx, "u.id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// FindByPhone obtiene un usuario por teléfono normalizado.
func (r *UserRepo) FindByPhone(ctx context.Context, phone string) (*entity.User, error) {
	u, err := r.findOne(ctx, "u.phone = $1", phone)
	if err != nil {
		return nil, fmt.Errorf("get user by phone: %w", err)
	}
	return u, nil
}

// FindByEmail obtiene un usuario por email (comparación exacta).
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := r.findOne(ctx, "u.email = $1", email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// UpdatePasswordHash guarda el nuevo hash.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ListWithRoles lista usuarios con sus roles, filtrando por rol y texto, más el total sin paginar.
func (r *UserRepo) ListWithRoles(ctx context.Context, f entity.UserFilter) ([]*entity.UserWithRoles, int, error) {
	search := ""
	if f.Search != "" {
		search = likePattern(f.Search)
	}
	const filter = `
		WHERE ($1::text = '' OR EXISTS (
			SELECT 1 FROM user_roles fr JOIN roles frr ON frr.id = fr.role_id
			WHERE fr.user_id = u.id AND frr.name = $1))
		AND ($2::text = '' OR u.full_name ILIKE $2 OR u.email ILIKE $2 OR u.phone ILIKE $2)`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+filter, f.Role, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := `
		SELECT ` + userColumns + `,
			COALESCE(array_agg(r.name ORDER BY r.name) FILTER (WHERE r.name IS NOT NULL), '{}') AS roles
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		LEFT JOIN roles r ON r.id = ur.role_id` + filter + `
		GROUP BY u.id
		ORDER BY u.created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.Role, search, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.UserWithRoles
	for rows.Next() {
		var roles []string
		u, err := scanUser(rows, &roles)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &entity.UserWithRoles{User: *u, Roles: roles})
	}
	return list, total, rows.Err()
}

// Stats total de usuarios y usuarios por rol (un usuario con dos roles cuenta en ambos).
func (r *UserRepo) Stats(ctx context.Context) (*entity.UserStats, error) {
	st := &entity.UserStats{ByRole: make(map[string]int)}
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&st.Total); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT r.name, COUNT(ur.user_id)
		FROM roles r
		LEFT JOIN user_roles ur ON ur.role_id = r.id
		GROUP BY r.name
		ORDER BY r.name`)
	if err != nil {
		return nil, fmt.Errorf("users by role: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		st.ByRole[name] = n
	}
	return st, rows.Err()
}
