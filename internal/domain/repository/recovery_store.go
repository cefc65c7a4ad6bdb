package repository

import "context"

// VerificationCodeStore guarda códigos de un solo uso por destinatario (teléfono normalizado).
// Implementaciones: memoria de proceso y Redis.
type VerificationCodeStore interface {
	// Issue genera y guarda un código nuevo, reemplazando cualquier código previo del destinatario.
	Issue(ctx context.Context, recipient string) (string, error)
	// Verify consume el código si coincide y no venció. Un candidato incorrecto no borra la entrada.
	Verify(ctx context.Context, recipient, candidate string) (bool, error)
	// Sweep elimina las entradas vencidas y devuelve cuántas borró.
	Sweep(ctx context.Context) (int, error)
}

// ResetTokenStore guarda tokens de restablecimiento asociados a un email.
type ResetTokenStore interface {
	Issue(ctx context.Context, email string) (string, error)
	// Peek valida el token sin consumirlo. Un token vencido se borra.
	Peek(ctx context.Context, token string) (email string, ok bool, err error)
	// Consume valida y borra el token. Devuelve domain.ErrInvalidOrExpired si no existe o venció.
	Consume(ctx context.Context, token string) (string, error)
	Sweep(ctx context.Context) (int, error)
}

// VerifiedPhoneStore marca teléfonos que superaron VerifyCode, para el flujo estricto
// en el que ResetPassword exige una verificación previa.
type VerifiedPhoneStore interface {
	Mark(ctx context.Context, phone string) error
	// Consume devuelve true una sola vez por marca vigente.
	Consume(ctx context.Context, phone string) (bool, error)
	Sweep(ctx context.Context) (int, error)
}
