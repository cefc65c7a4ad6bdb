package entity

import "time"

// User representa una cuenta del taller (cliente, personal o administrador).
type User struct {
	ID           string
	FullName     string
	Phone        string // normalizado, ver pkg/phone
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserFilter criterios del listado administrativo de usuarios.
type UserFilter struct {
	Role   string // nombre de rol; vacío = todos
	Search string // coincidencia parcial sobre nombre, email o teléfono
	Limit  int
	Offset int
}

// UserWithRoles usuario junto a los nombres de sus roles asignados.
type UserWithRoles struct {
	User
	Roles []string
}

// UserStats totales de usuarios por rol.
type UserStats struct {
	Total  int
	ByRole map[string]int
}
