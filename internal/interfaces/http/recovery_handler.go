package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/recovery"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// RecoveryService lo implementa *recovery.Service.
type RecoveryService interface {
	RequestCode(ctx context.Context, phone string) (*dto.RequestCodeResponse, error)
	VerifyCode(ctx context.Context, phone, code string) (*dto.VerifyCodeResponse, error)
	ResetPassword(ctx context.Context, phone, newPassword string) (*dto.MessageResponse, error)
	RequestReset(ctx context.Context, email string) (*dto.MessageResponse, error)
	CheckToken(ctx context.Context, token string) (*dto.CheckTokenResponse, error)
	CompleteReset(ctx context.Context, token, newPassword string) (*dto.MessageResponse, error)
}

// RecoveryHandler rutas públicas de recuperación de contraseña.
type RecoveryHandler struct {
	svc RecoveryService
	// uniform: en las solicitudes, una cuenta inexistente responde igual que una existente.
	uniform bool
	log     *logger.Logger
}

// NewRecoveryHandler construye el handler.
func NewRecoveryHandler(svc RecoveryService, uniform bool, log *logger.Logger) *RecoveryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RecoveryHandler{svc: svc, uniform: uniform, log: log.Component("http.recovery")}
}

// RequestCode godoc
// @Summary      Solicitar código OTP por SMS
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RequestCodeRequest  true  "phone"
// @Success      200   {object}  dto.RequestCodeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/forgot-password [post]
func (h *RecoveryHandler) RequestCode(c *fiber.Ctx) error {
	var in dto.RequestCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.RequestCode(c.UserContext(), in.Phone)
	if err != nil {
		if h.uniform && errors.Is(err, domain.ErrNotFound) {
			return c.JSON(dto.RequestCodeResponse{Message: recovery.MsgCodeSent})
		}
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// VerifyCode godoc
// @Summary      Verificar código OTP
// @Description  Un código incorrecto responde 200 con valid=false.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyCodeRequest  true  "phone, code"
// @Success      200   {object}  dto.VerifyCodeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/verify-otp [post]
func (h *RecoveryHandler) VerifyCode(c *fiber.Ctx) error {
	var in dto.VerifyCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.VerifyCode(c.UserContext(), in.Phone, in.Code)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ResetPassword godoc
// @Summary      Restablecer contraseña por teléfono
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "phone, newPassword"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/reset-password [post]
func (h *RecoveryHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.ResetPassword(c.UserContext(), in.Phone, in.NewPassword)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RequestReset godoc
// @Summary      Solicitar enlace de restablecimiento por email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RequestResetRequest  true  "email"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/forgot-password/email [post]
func (h *RecoveryHandler) RequestReset(c *fiber.Ctx) error {
	var in dto.RequestResetRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.RequestReset(c.UserContext(), in.Email)
	if err != nil {
		if h.uniform && errors.Is(err, domain.ErrNotFound) {
			return c.JSON(dto.MessageResponse{Message: recovery.MsgResetEmailSent})
		}
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CheckToken godoc
// @Summary      Consultar vigencia de un token de restablecimiento
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckTokenRequest  true  "token"
// @Success      200   {object}  dto.CheckTokenResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/reset-token/check [post]
func (h *RecoveryHandler) CheckToken(c *fiber.Ctx) error {
	var in dto.CheckTokenRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.CheckToken(c.UserContext(), in.Token)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CompleteReset godoc
// @Summary      Restablecer contraseña con token de email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompleteResetRequest  true  "token, newPassword"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/reset-password/email [post]
func (h *RecoveryHandler) CompleteReset(c *fiber.Ctx) error {
	var in dto.CompleteResetRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.CompleteReset(c.UserContext(), in.Token, in.NewPassword)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
