package recovery

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// RequestReset emite un token para el email y envía el enlace de restablecimiento.
func (s *Service) RequestReset(ctx context.Context, email string) (*dto.MessageResponse, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario por email: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: no existe una cuenta con ese email", domain.ErrNotFound)
	}

	token, err := s.tokens.Issue(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("emitir token: %w", err)
	}
	s.metrics.TokenIssued()

	link := s.resetLink(token)
	subject, body, err := renderResetEmail(resetEmailData{
		AppName:  s.cfg.AppName,
		Name:     displayName(user.FullName, email),
		ResetURL: link,
		Minutes:  int(s.cfg.TokenTTL.Minutes()),
	})
	if err != nil {
		return nil, err
	}
	if err := s.email.Send(ctx, email, subject, body); err != nil {
		s.metrics.DeliveryFailed("email")
		s.log.Error().Err(err).Str("email", logger.MaskEmail(email)).Msg("fallo al enviar email de restablecimiento")
		return nil, fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	if s.cfg.ExposeCode {
		s.log.Debug().Str("email", email).Str("reset_url", link).Msg("token emitido")
	}
	s.log.Info().Str("email", logger.MaskEmail(email)).Msg("email de restablecimiento enviado")
	return &dto.MessageResponse{Message: MsgResetEmailSent}, nil
}

// CheckToken informa si el token sigue vigente sin consumirlo.
func (s *Service) CheckToken(ctx context.Context, token string) (*dto.CheckTokenResponse, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: el token es obligatorio", domain.ErrInvalidInput)
	}
	email, ok, err := s.tokens.Peek(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("consultar token: %w", err)
	}
	if !ok {
		return &dto.CheckTokenResponse{Valid: false}, nil
	}
	return &dto.CheckTokenResponse{Valid: true, Email: email}, nil
}

// CompleteReset consume el token y cambia la contraseña del email asociado.
// Con llamadas concurrentes sobre el mismo token solo una pasa de Consume.
func (s *Service) CompleteReset(ctx context.Context, token, newPassword string) (*dto.MessageResponse, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: el token es obligatorio", domain.ErrInvalidInput)
	}
	if newPassword == "" {
		return nil, fmt.Errorf("%w: la nueva contraseña es obligatoria", domain.ErrInvalidInput)
	}
	if err := checkPassword(newPassword); err != nil {
		return nil, err
	}

	email, err := s.tokens.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOrExpired) {
			s.metrics.TokenConsumed(false)
			return nil, err
		}
		return nil, fmt.Errorf("consumir token: %w", err)
	}
	s.metrics.TokenConsumed(true)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario por email: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: la cuenta asociada al token ya no existe", domain.ErrNotFound)
	}

	if err := s.setPassword(ctx, user.ID, newPassword); err != nil {
		return nil, err
	}
	s.metrics.PasswordReset("email")
	s.log.Info().Str("user_id", user.ID).Msg("contraseña restablecida por email")
	return &dto.MessageResponse{Message: MsgPasswordChanged}, nil
}

func (s *Service) resetLink(token string) string {
	return strings.TrimRight(s.cfg.FrontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

// validateEmail usa el parser RFC 5322 de net/mail y exige una dirección desnuda.
func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: el email es obligatorio", domain.ErrInvalidInput)
	}
	if len(email) > 254 {
		return fmt.Errorf("%w: email demasiado largo", domain.ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	return nil
}
