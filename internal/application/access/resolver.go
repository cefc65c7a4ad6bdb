// Package access resuelve si un usuario autenticado cumple los permisos de una operación.
package access

import (
	"context"
	"fmt"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// Resultados registrados en métricas.
const (
	OutcomeAllowed         = "allowed"
	OutcomeAdminOverride   = "admin_override"
	OutcomeNoRequirements  = "no_requirements"
	OutcomeForbidden       = "forbidden"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeError           = "error"
)

// Resolver decide con roles y permisos. admin siempre pasa.
type Resolver struct {
	roles   repository.RoleRepository
	metrics ports.AccessMetrics
	log     *logger.Logger
}

// NewResolver construye el resolver. metrics y log pueden ser nil.
func NewResolver(roles repository.RoleRepository, metrics ports.AccessMetrics, log *logger.Logger) *Resolver {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{roles: roles, metrics: metrics, log: log.Component("access")}
}

// Authorize devuelve nil si el usuario tiene al menos uno de los permisos requeridos
// (o es admin). Sin permisos requeridos siempre permite.
func (r *Resolver) Authorize(ctx context.Context, userID string, required ...string) error {
	if userID == "" {
		r.metrics.AuthorizationDecision(OutcomeUnauthenticated)
		return domain.ErrUnauthenticated
	}
	if len(required) == 0 {
		r.metrics.AuthorizationDecision(OutcomeNoRequirements)
		return nil
	}

	grants, err := r.roles.GrantsForUser(ctx, userID)
	if err != nil {
		r.metrics.AuthorizationDecision(OutcomeError)
		return fmt.Errorf("cargar roles del usuario: %w", err)
	}

	for _, g := range grants {
		if g.RoleName == entity.RoleAdmin {
			r.metrics.AuthorizationDecision(OutcomeAdminOverride)
			return nil
		}
	}

	if entity.NewPermissionSet(grants).AnyOf(required) {
		r.metrics.AuthorizationDecision(OutcomeAllowed)
		return nil
	}

	r.metrics.AuthorizationDecision(OutcomeForbidden)
	r.log.Warn().Str("user_id", userID).Strs("required", required).Msg("permiso denegado")
	return domain.ErrForbidden
}
