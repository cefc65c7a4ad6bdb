package dto

import "time"

// UserListRequest filtros de GET /users/admin/all.
type UserListRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Role   string `query:"role"`
	Search string `query:"search"`
}

// Normalize aplica página 1 y 20 resultados por defecto; el límite máximo es 100.
func (r *UserListRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = 20
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
}

// Offset desplazamiento derivado de Page y Limit.
func (r UserListRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse página de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	PageResponse
}

// UserStatsResponse totales de usuarios por rol.
type UserStatsResponse struct {
	Total  int            `json:"total"`
	ByRole map[string]int `json:"by_role"`
}

// ChangeRoleRequest entrada de PATCH /users/admin/:id/role.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}
