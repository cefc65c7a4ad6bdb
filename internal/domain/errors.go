package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrUserNotFound     = errors.New("usuario no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrInvalidFormat    = errors.New("formato inválido")
	ErrInvalidOrExpired = errors.New("código o token inválido o expirado")
	ErrWeakPassword     = errors.New("la contraseña debe tener al menos 6 caracteres")
	ErrDeliveryFailed   = errors.New("no se pudo entregar el mensaje")
	ErrUnauthenticated  = errors.New("no autenticado")
	ErrForbidden        = errors.New("acceso denegado")
	ErrDuplicate        = errors.New("recurso duplicado")
)
