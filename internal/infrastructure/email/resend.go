// Package email adaptadores del puerto EmailSender.
package email

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/resend/resend-go/v2"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/pkg/logger"
)

var (
	_ ports.EmailSender = (*ResendSender)(nil)
	_ ports.EmailSender = (*LogSender)(nil)
	_ ports.EmailSender = (*DisabledSender)(nil)
)

// ErrNotConfigured lo devuelve DisabledSender.
var ErrNotConfigured = errors.New("email: RESEND_API_KEY sin configurar")

// ResendSender envía correos HTML con la API de Resend.
type ResendSender struct {
	client *resend.Client
	from   string
	log    *logger.Logger
}

// NewResendSender construye el adaptador. baseURL vacío usa el endpoint público de Resend.
func NewResendSender(apiKey, from, baseURL string, log *logger.Logger) (*ResendSender, error) {
	if apiKey == "" {
		return nil, errors.New("email: RESEND_API_KEY vacío")
	}
	if from == "" {
		return nil, errors.New("email: remitente vacío")
	}
	client := resend.NewClient(apiKey)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("email: base url: %w", err)
		}
		client.BaseURL = u
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ResendSender{client: client, from: from, log: log.Component("email.resend")}, nil
}

func (s *ResendSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	}
	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	s.log.Info().Str("to", logger.MaskEmail(to)).Str("email_id", sent.Id).Msg("email enviado")
	return nil
}

// LogSender registra el correo en vez de enviarlo. Solo desarrollo, sin RESEND_API_KEY.
// El HTML (lleva el enlace con el token) va a nivel debug.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	if log == nil {
		log = logger.Nop()
	}
	return &LogSender{log: log.Component("email.log")}
}

func (s *LogSender) Send(_ context.Context, to, subject, htmlBody string) error {
	s.log.Warn().Str("to", logger.MaskEmail(to)).Str("subject", subject).Msg("[DEV] email no enviado, Resend sin configurar")
	s.log.Debug().Str("to", to).Str("html", htmlBody).Msg("[DEV] contenido del email")
	return nil
}

// DisabledSender falla siempre; fuera de desarrollo sin API key.
type DisabledSender struct{}

func (DisabledSender) Send(context.Context, string, string, string) error {
	return ErrNotConfigured
}

// New elige Resend si hay API key; sin ella, log en desarrollo y DisabledSender en el resto.
func New(apiKey, from string, development bool, log *logger.Logger) (ports.EmailSender, error) {
	if apiKey != "" {
		return NewResendSender(apiKey, from, "", log)
	}
	if development {
		return NewLogSender(log), nil
	}
	return DisabledSender{}, nil
}
