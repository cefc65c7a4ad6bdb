package entity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// Vigencias por defecto de los secretos de recuperación.
const (
	VerificationCodeTTL = 5 * time.Minute
	ResetTokenTTL       = 15 * time.Minute
)

// VerificationCode código numérico de un solo uso enviado por SMS.
type VerificationCode struct {
	Recipient string // teléfono normalizado
	Code      string
	ExpiresAt time.Time
}

// Expired informa si el código venció respecto a now.
func (c VerificationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ResetToken token opaco de un solo uso enviado por email.
type ResetToken struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

// Expired informa si el token venció respecto a now.
func (t ResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// FixedCodes lista de destinatarios de prueba con código fijo (sin costo de SMS).
type FixedCodes map[string]string

// Lookup devuelve el código fijo del destinatario, si lo tiene.
func (f FixedCodes) Lookup(recipient string) (string, bool) {
	code, ok := f[recipient]
	return code, ok
}

// GenerateCode devuelve un código uniforme en [100000, 999999] usando crypto/rand.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generar código: %w", err)
	}
	return strconv.FormatInt(100000+n.Int64(), 10), nil
}
