package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.VerificationCodeStore = (*CodeStore)(nil)

// CodeStore códigos de verificación por teléfono, uno vivo por destinatario.
type CodeStore struct {
	mu    sync.Mutex
	codes map[string]entity.VerificationCode
	ttl   time.Duration
	fixed entity.FixedCodes
	now   Clock
}

// NewCodeStore construye el almacén. fixed son los destinatarios de prueba con código fijo.
func NewCodeStore(ttl time.Duration, fixed entity.FixedCodes, opts ...Option) *CodeStore {
	o := buildOptions(opts)
	if ttl <= 0 {
		ttl = entity.VerificationCodeTTL
	}
	return &CodeStore{
		codes: make(map[string]entity.VerificationCode),
		ttl:   ttl,
		fixed: fixed,
		now:   o.now,
	}
}

// Issue genera el código (o toma el fijo) y reemplaza cualquier código previo del destinatario.
func (s *CodeStore) Issue(_ context.Context, recipient string) (string, error) {
	code, ok := s.fixed.Lookup(recipient)
	if !ok {
		var err error
		if code, err = entity.GenerateCode(); err != nil {
			return "", err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[recipient] = entity.VerificationCode{
		Recipient: recipient,
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
	}
	return code, nil
}

// Verify consume el código si coincide. Un intento fallido deja la entrada hasta que venza.
func (s *CodeStore) Verify(_ context.Context, recipient, candidate string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.codes[recipient]
	if !ok {
		return false, nil
	}
	if stored.Expired(s.now()) {
		delete(s.codes, recipient)
		return false, nil
	}
	if stored.Code != candidate {
		return false, nil
	}
	delete(s.codes, recipient)
	return true, nil
}

// Sweep elimina los códigos vencidos.
func (s *CodeStore) Sweep(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for recipient, c := range s.codes {
		if c.Expired(now) {
			delete(s.codes, recipient)
			removed++
		}
	}
	return removed, nil
}

// Len número de entradas guardadas (vivas o pendientes de barrido).
func (s *CodeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}
