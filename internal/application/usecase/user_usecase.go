package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// UserTxRunner ejecuta fn con repositorios atados a una misma transacción.
type UserTxRunner interface {
	RunUserRoles(ctx context.Context, fn func(users repository.UserRepository, roles repository.RoleRepository) error) error
}

// UserUseCase administración de usuarios: listado, estadísticas y cambio de rol.
type UserUseCase struct {
	repo repository.UserRepository
	tx   UserTxRunner
	log  *logger.Logger
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, tx UserTxRunner, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{repo: repo, tx: tx, log: log.Component("users")}
}

// List devuelve una página de usuarios con sus roles.
func (uc *UserUseCase) List(ctx context.Context, in dto.UserListRequest) (*dto.UserListResponse, error) {
	in.Normalize()
	in.Role = strings.TrimSpace(in.Role)
	if in.Role != "" && !entity.IsKnownRole(in.Role) {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, in.Role)
	}

	users, total, err := uc.repo.ListWithRoles(ctx, entity.UserFilter{
		Role:   in.Role,
		Search: strings.TrimSpace(in.Search),
		Limit:  in.Limit,
		Offset: in.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, *entityToUserResponse(&u.User, u.Roles))
	}
	return &dto.UserListResponse{
		Items:        items,
		PageResponse: dto.NewPageResponse(in.Page, in.Limit, total),
	}, nil
}

// Stats totales por rol.
func (uc *UserUseCase) Stats(ctx context.Context) (*dto.UserStatsResponse, error) {
	st, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("estadísticas de usuarios: %w", err)
	}
	byRole := st.ByRole
	if byRole == nil {
		byRole = map[string]int{}
	}
	return &dto.UserStatsResponse{Total: st.Total, ByRole: byRole}, nil
}

// ChangeRole reemplaza todos los roles del usuario por uno solo, en una transacción.
func (uc *UserUseCase) ChangeRole(ctx context.Context, userID, roleName string) (*dto.UserResponse, error) {
	roleName = strings.TrimSpace(roleName)
	if userID == "" || roleName == "" {
		return nil, fmt.Errorf("%w: usuario y rol son obligatorios", domain.ErrInvalidInput)
	}
	if !entity.IsKnownRole(roleName) {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, roleName)
	}

	var updated *entity.User
	err := uc.tx.RunUserRoles(ctx, func(users repository.UserRepository, roles repository.RoleRepository) error {
		user, err := users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		role, err := roles.FindByName(ctx, roleName)
		if err != nil {
			return err
		}
		if role == nil {
			return fmt.Errorf("%w: el rol %q no está sembrado", domain.ErrNotFound, roleName)
		}
		if err := roles.ReplaceUserRoles(ctx, user.ID, role.ID); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("user_id", userID).Str("role", roleName).Msg("rol de usuario reemplazado")
	return entityToUserResponse(updated, []string{roleName}), nil
}

func entityToUserResponse(u *entity.User, roles []string) *dto.UserResponse {
	if u == nil {
		return nil
	}
	if roles == nil {
		roles = []string{}
	}
	return &dto.UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Email:     u.Email,
		Address:   u.Address,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
