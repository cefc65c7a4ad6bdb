package recovery

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/taller-api/internal/domain"
)

const (
	minPasswordLength = 6
	passwordCost      = 10
	// bcrypt ignora lo que pase de 72 bytes; se rechaza antes de hashear.
	maxPasswordBytes = 72
)

// checkPassword aplica la política antes de tocar ningún almacén.
func checkPassword(pw string) error {
	if utf8.RuneCountInString(pw) < minPasswordLength {
		return domain.ErrWeakPassword
	}
	if len(pw) > maxPasswordBytes {
		return fmt.Errorf("%w: la contraseña no puede superar %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	return nil
}

func hashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hashear contraseña: %w", err)
	}
	return string(hash), nil
}
