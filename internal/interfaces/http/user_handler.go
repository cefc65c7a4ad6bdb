package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// UserAdmin lo implementa *usecase.UserUseCase.
type UserAdmin interface {
	List(ctx context.Context, in dto.UserListRequest) (*dto.UserListResponse, error)
	Stats(ctx context.Context) (*dto.UserStatsResponse, error)
	ChangeRole(ctx context.Context, userID, roleName string) (*dto.UserResponse, error)
}

// UserHandler administración de usuarios (protegido por permisos).
type UserHandler struct {
	uc  UserAdmin
	log *logger.Logger
}

// NewUserHandler construye el handler.
func NewUserHandler(uc UserAdmin, log *logger.Logger) *UserHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &UserHandler{uc: uc, log: log.Component("http.users")}
}

// List godoc
// @Summary      Listar usuarios con sus roles
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        page    query  int     false  "Página"  default(1)
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        role    query  string  false  "Filtrar por rol"
// @Param        search  query  string  false  "Nombre, teléfono o email"
// @Success      200     {object}  dto.UserListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/v1/users/admin/all [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var in dto.UserListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Totales de usuarios por rol
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserStatsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/v1/users/admin/stats [get]
func (h *UserHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ChangeRole godoc
// @Summary      Reemplazar el rol de un usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.ChangeRoleRequest  true  "role"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/users/admin/{id}/role [patch]
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.ChangeRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ChangeRole(c.UserContext(), id, in.Role)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().Str("admin_id", GetUserID(c)).Str("user_id", id).Str("role", in.Role).Msg("rol de usuario cambiado")
	return c.JSON(out)
}
