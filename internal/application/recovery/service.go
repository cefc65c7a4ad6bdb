// Package recovery orquesta la recuperación de contraseña por teléfono (código SMS)
// y por email (token con enlace).
package recovery

import (
	"errors"
	"time"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// Mensajes devueltos al cliente.
const (
	MsgCodeSent        = "Se envió el código de verificación a tu teléfono"
	MsgCodeInvalid     = "El código es inválido o ya expiró"
	MsgCodeVerified    = "Código verificado correctamente"
	MsgPasswordChanged = "La contraseña se cambió correctamente"
	MsgResetEmailSent  = "Te enviamos un email con el enlace para restablecer la contraseña"
)

// Config parámetros del servicio.
type Config struct {
	// AppName aparece en el asunto y el pie del email.
	AppName string
	// FrontendURL base del enlace de restablecimiento.
	FrontendURL string
	// CodeTTL vigencia del código, solo para el texto del SMS.
	CodeTTL time.Duration
	// TokenTTL vigencia del enlace, solo para el texto del email.
	TokenTTL time.Duration
	// ExposeCode devuelve el código en la respuesta y lo registra en debug (solo desarrollo).
	ExposeCode bool
	// FixedCodes destinatarios de prueba: no se les envía SMS.
	FixedCodes entity.FixedCodes
	// RequireVerifiedPhone exige un VerifyCode exitoso antes de ResetPassword.
	RequireVerifiedPhone bool
}

// Deps dependencias del servicio. Metrics y Logger son opcionales.
type Deps struct {
	Users    repository.UserRepository
	Codes    repository.VerificationCodeStore
	Tokens   repository.ResetTokenStore
	Verified repository.VerifiedPhoneStore
	SMS      ports.SMSSender
	Email    ports.EmailSender
	Metrics  ports.RecoveryMetrics
	Logger   *logger.Logger
}

// Service casos de uso de recuperación de credenciales.
type Service struct {
	users    repository.UserRepository
	codes    repository.VerificationCodeStore
	tokens   repository.ResetTokenStore
	verified repository.VerifiedPhoneStore
	sms      ports.SMSSender
	email    ports.EmailSender
	metrics  ports.RecoveryMetrics
	log      *logger.Logger
	cfg      Config
}

// NewService construye el servicio. Con RequireVerifiedPhone es obligatorio Deps.Verified.
func NewService(d Deps, cfg Config) (*Service, error) {
	if d.Users == nil || d.Codes == nil || d.Tokens == nil || d.SMS == nil || d.Email == nil {
		return nil, errors.New("recovery: faltan dependencias")
	}
	if cfg.RequireVerifiedPhone && d.Verified == nil {
		return nil, errors.New("recovery: RequireVerifiedPhone necesita un almacén de teléfonos verificados")
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = entity.VerificationCodeTTL
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = entity.ResetTokenTTL
	}
	if cfg.AppName == "" {
		cfg.AppName = "360 CAR"
	}
	if d.Metrics == nil {
		d.Metrics = ports.NopMetrics{}
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	return &Service{
		users:    d.Users,
		codes:    d.Codes,
		tokens:   d.Tokens,
		verified: d.Verified,
		sms:      d.SMS,
		email:    d.Email,
		metrics:  d.Metrics,
		log:      d.Logger.Component("recovery"),
		cfg:      cfg,
	}, nil
}
