package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.VerifiedPhoneStore = (*VerifiedStore)(nil)

// VerifiedStore marcas de "teléfono verificado" con vencimiento, de un solo uso.
type VerifiedStore struct {
	mu    sync.Mutex
	marks map[string]time.Time // teléfono -> vence
	ttl   time.Duration
	now   Clock
}

// NewVerifiedStore construye el almacén de marcas.
func NewVerifiedStore(ttl time.Duration, opts ...Option) *VerifiedStore {
	o := buildOptions(opts)
	if ttl <= 0 {
		ttl = entity.ResetTokenTTL
	}
	return &VerifiedStore{
		marks: make(map[string]time.Time),
		ttl:   ttl,
		now:   o.now,
	}
}

// Mark registra (o renueva) la marca del teléfono.
func (s *VerifiedStore) Mark(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[phone] = s.now().Add(s.ttl)
	return nil
}

// Consume borra la marca y devuelve true si estaba vigente.
func (s *VerifiedStore) Consume(_ context.Context, phone string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.marks[phone]
	if !ok {
		return false, nil
	}
	delete(s.marks, phone)
	return !s.now().After(expiresAt), nil
}

// Sweep elimina las marcas vencidas.
func (s *VerifiedStore) Sweep(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for phone, expiresAt := range s.marks {
		if now.After(expiresAt) {
			delete(s.marks, phone)
			removed++
		}
	}
	return removed, nil
}
