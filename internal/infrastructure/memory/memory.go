// Package memory implementa los almacenes de recuperación en la memoria del proceso.
// Sirven para una sola instancia; con varias réplicas se usa redisstore.
package memory

import "time"

// Clock devuelve la hora actual; se inyecta para probar vencimientos.
type Clock func() time.Time

// Option configura un almacén en memoria.
type Option func(*options)

type options struct {
	now Clock
}

// WithClock reemplaza time.Now.
func WithClock(c Clock) Option {
	return func(o *options) { o.now = c }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
