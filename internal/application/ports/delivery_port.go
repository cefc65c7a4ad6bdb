package ports

import "context"

// SMSSender puerto de salida para mensajes de texto (ESMS.VN, log de desarrollo, mock).
// La entrega es síncrona: un error llega al mismo caller que disparó el envío.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// EmailSender puerto de salida para correos HTML (Resend, log de desarrollo, mock).
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
