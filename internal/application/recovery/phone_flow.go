package recovery

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/jhoicas/taller-api/pkg/phone"
)

const smsTemplate = "Ma OTP cua ban la: %s. Co hieu luc trong %d phut. Khong chia se voi bat ky ai."

// RequestCode emite un código para el teléfono y lo envía por SMS.
func (s *Service) RequestCode(ctx context.Context, rawPhone string) (*dto.RequestCodeResponse, error) {
	if strings.TrimSpace(rawPhone) == "" {
		return nil, fmt.Errorf("%w: el teléfono es obligatorio", domain.ErrInvalidInput)
	}
	p := phone.Normalize(rawPhone)
	if !phone.Valid(p) {
		return nil, fmt.Errorf("%w: teléfono inválido (ej. 0912345678 o +84912345678)", domain.ErrInvalidFormat)
	}

	user, err := s.users.FindByPhone(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario por teléfono: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: no existe una cuenta con ese teléfono", domain.ErrNotFound)
	}

	code, err := s.codes.Issue(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("emitir código: %w", err)
	}
	s.metrics.CodeIssued()

	if _, fixed := s.cfg.FixedCodes.Lookup(p); fixed {
		s.log.Info().Str("phone", logger.MaskPhone(p)).Msg("teléfono de prueba: se omite el SMS")
	} else if err := s.sms.Send(ctx, p, smsText(code, s.cfg.CodeTTL)); err != nil {
		s.metrics.DeliveryFailed("sms")
		s.log.Error().Err(err).Str("phone", logger.MaskPhone(p)).Msg("fallo al enviar SMS")
		return nil, fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	out := &dto.RequestCodeResponse{Message: MsgCodeSent}
	if s.cfg.ExposeCode {
		s.log.Debug().Str("phone", p).Str("code", code).Msg("código emitido")
		out.Code = code
	}
	return out, nil
}

// VerifyCode consume el código si coincide. El resultado es informativo salvo que
// RequireVerifiedPhone esté activo, en cuyo caso deja una marca para ResetPassword.
func (s *Service) VerifyCode(ctx context.Context, rawPhone, code string) (*dto.VerifyCodeResponse, error) {
	if strings.TrimSpace(rawPhone) == "" {
		return nil, fmt.Errorf("%w: el teléfono es obligatorio", domain.ErrInvalidInput)
	}
	if code == "" {
		return nil, fmt.Errorf("%w: el código es obligatorio", domain.ErrInvalidInput)
	}
	p := phone.Normalize(rawPhone)

	ok, err := s.codes.Verify(ctx, p, code)
	if err != nil {
		return nil, fmt.Errorf("verificar código: %w", err)
	}
	s.metrics.CodeVerified(ok)
	if !ok {
		s.log.Warn().Str("phone", logger.MaskPhone(p)).Msg("código inválido o expirado")
		return &dto.VerifyCodeResponse{Valid: false, Message: MsgCodeInvalid}, nil
	}

	if s.cfg.RequireVerifiedPhone {
		if err := s.verified.Mark(ctx, p); err != nil {
			return nil, fmt.Errorf("marcar teléfono verificado: %w", err)
		}
	}
	s.log.Info().Str("phone", logger.MaskPhone(p)).Msg("código verificado")
	return &dto.VerifyCodeResponse{Valid: true, Message: MsgCodeVerified}, nil
}

// ResetPassword cambia la contraseña de la cuenta asociada al teléfono.
func (s *Service) ResetPassword(ctx context.Context, rawPhone, newPassword string) (*dto.MessageResponse, error) {
	if strings.TrimSpace(rawPhone) == "" {
		return nil, fmt.Errorf("%w: el teléfono es obligatorio", domain.ErrInvalidInput)
	}
	if newPassword == "" {
		return nil, fmt.Errorf("%w: la nueva contraseña es obligatoria", domain.ErrInvalidInput)
	}
	if err := checkPassword(newPassword); err != nil {
		return nil, err
	}
	p := phone.Normalize(rawPhone)

	user, err := s.users.FindByPhone(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario por teléfono: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: no existe una cuenta con ese teléfono", domain.ErrNotFound)
	}

	if s.cfg.RequireVerifiedPhone {
		ok, err := s.verified.Consume(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("consumir marca de verificación: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: primero verifica el código enviado por SMS", domain.ErrInvalidOrExpired)
		}
	}

	if err := s.setPassword(ctx, user.ID, newPassword); err != nil {
		return nil, err
	}
	s.metrics.PasswordReset("phone")
	s.log.Info().Str("user_id", user.ID).Msg("contraseña restablecida por teléfono")
	return &dto.MessageResponse{Message: MsgPasswordChanged}, nil
}

// smsText arma el SMS con la vigencia redondeada hacia arriba en minutos.
func smsText(code string, ttl time.Duration) string {
	minutes := int(math.Ceil(ttl.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf(smsTemplate, code, minutes)
}

func (s *Service) setPassword(ctx context.Context, userID, pw string) error {
	hash, err := hashPassword(pw)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("guardar contraseña: %w", err)
	}
	return nil
}
