// Package phone normaliza números móviles a una única forma comparable.
package phone

import (
	"regexp"
	"strings"
)

var (
	// Número local de 9 dígitos al que le falta el cero inicial (03x, 05x, 07x, 08x, 09x).
	missingZero = regexp.MustCompile(`^[3-9][0-9]{8}$`)
	// Forma local (0 + 9 dígitos) o internacional (+84 + 9 dígitos).
	mobile = regexp.MustCompile(`^(\+84|0)[0-9]{9}$`)
)

// Normalize recorta espacios y antepone "0" a un número local de 9 dígitos.
// Cualquier otra entrada se devuelve tal cual; la cadena vacía se devuelve sin cambios.
func Normalize(raw string) string {
	if raw == "" {
		return raw
	}
	trimmed := strings.TrimSpace(raw)
	if missingZero.MatchString(trimmed) {
		return "0" + trimmed
	}
	return trimmed
}

// Valid informa si un número ya normalizado tiene forma de móvil local o internacional.
func Valid(normalized string) bool {
	return mobile.MatchString(normalized)
}
