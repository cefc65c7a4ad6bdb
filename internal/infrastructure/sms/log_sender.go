package sms

import (
	"context"
	"errors"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/pkg/logger"
)

var (
	_ ports.SMSSender = (*LogSender)(nil)
	_ ports.SMSSender = (*DevFallback)(nil)
	_ ports.SMSSender = (*DisabledSender)(nil)
)

// ErrNotConfigured lo devuelve DisabledSender.
var ErrNotConfigured = errors.New("sms: ESMS sin credenciales")

// LogSender no envía nada: registra el envío. Solo desarrollo, sin credenciales de ESMS.
// El texto (lleva el código) va a nivel debug.
type LogSender struct {
	log *logger.Logger
}

// NewLogSender construye el sender de desarrollo.
func NewLogSender(log *logger.Logger) *LogSender {
	if log == nil {
		log = logger.Nop()
	}
	return &LogSender{log: log.Component("sms.log")}
}

func (s *LogSender) Send(_ context.Context, phone, message string) error {
	s.log.Warn().Str("phone", logger.MaskPhone(phone)).Msg("[DEV] SMS no enviado, ESMS sin configurar")
	s.log.Debug().Str("phone", phone).Str("body", message).Msg("[DEV] contenido del SMS")
	return nil
}

// DisabledSender falla siempre. Se usa fuera de desarrollo cuando faltan credenciales,
// para que la solicitud responda error en vez de dar el SMS por enviado.
type DisabledSender struct{}

func (DisabledSender) Send(context.Context, string, string) error {
	return ErrNotConfigured
}

// DevFallback intenta con Primary y, si falla, registra el envío y lo da por bueno.
// Solo para desarrollo.
type DevFallback struct {
	Primary ports.SMSSender
	log     *logger.Logger
}

// NewDevFallback envuelve primary.
func NewDevFallback(primary ports.SMSSender, log *logger.Logger) *DevFallback {
	if log == nil {
		log = logger.Nop()
	}
	return &DevFallback{Primary: primary, log: log.Component("sms.fallback")}
}

func (s *DevFallback) Send(ctx context.Context, phone, message string) error {
	if err := s.Primary.Send(ctx, phone, message); err != nil {
		s.log.Warn().Err(err).Str("phone", logger.MaskPhone(phone)).Msg("[DEV FALLBACK] SMS no entregado")
		s.log.Debug().Str("phone", phone).Str("body", message).Msg("[DEV FALLBACK] contenido del SMS")
	}
	return nil
}

// New elige el sender:
//
//	credenciales + producción  → ESMS
//	credenciales + desarrollo  → ESMS con fallback a log
//	sin credenciales + desarrollo → solo log
//	sin credenciales + producción → DisabledSender
func New(cfg ESMSConfig, development bool, log *logger.Logger) ports.SMSSender {
	configured := cfg.APIKey != "" && cfg.SecretKey != ""
	switch {
	case configured && development:
		return NewDevFallback(NewESMSSender(cfg, log), log)
	case configured:
		return NewESMSSender(cfg, log)
	case development:
		return NewLogSender(log)
	default:
		return DisabledSender{}
	}
}
