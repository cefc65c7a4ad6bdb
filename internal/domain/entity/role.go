package entity

import "time"

// Roles conocidos del sistema.
const (
	RoleCustomer   = "customer"
	RoleStaff      = "staff"
	RoleTechnician = "technician"
	RoleManager    = "manager"
	RoleAdmin      = "admin"
)

// Permisos sembrados por cmd/seed.
const (
	PermissionViewUsers   = "view_users"
	PermissionManageUsers = "manage_users"
)

// roleRank jerarquía ordinal de roles. Es dato de referencia: Authorize no la consulta.
var roleRank = map[string]int{
	RoleCustomer:   1,
	RoleStaff:      2,
	RoleTechnician: 3,
	RoleManager:    4,
	RoleAdmin:      5,
}

// RoleRank devuelve la posición del rol en la jerarquía (0 si el rol no es conocido).
func RoleRank(name string) int {
	return roleRank[name]
}

// RoleAtLeast informa si name está en o por encima de min en la jerarquía.
// Un rol desconocido nunca cumple.
func RoleAtLeast(name, min string) bool {
	r := RoleRank(name)
	return r > 0 && r >= RoleRank(min)
}

// IsKnownRole informa si name es uno de los roles de la jerarquía.
func IsKnownRole(name string) bool {
	_, ok := roleRank[name]
	return ok
}

// Role grupo de permisos asignable a usuarios.
type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission capacidad con nombre que se puede verificar.
type Permission struct {
	ID          string
	Name        string
	Description string
}

// RoleGrant un rol asignado a un usuario, expandido a los nombres de sus permisos.
type RoleGrant struct {
	RoleID      string
	RoleName    string
	Permissions []string
}

// PermissionSet conjunto de nombres de permisos.
type PermissionSet map[string]struct{}

// NewPermissionSet aplana los permisos de varios roles en un único conjunto.
func NewPermissionSet(grants []RoleGrant) PermissionSet {
	set := make(PermissionSet)
	for _, g := range grants {
		for _, p := range g.Permissions {
			set[p] = struct{}{}
		}
	}
	return set
}

// Has informa si el conjunto contiene name.
func (s PermissionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// AnyOf informa si al menos uno de los permisos requeridos está en el conjunto.
func (s PermissionSet) AnyOf(required []string) bool {
	for _, r := range required {
		if s.Has(r) {
			return true
		}
	}
	return false
}
