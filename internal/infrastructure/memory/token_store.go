package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.ResetTokenStore = (*TokenStore)(nil)

// TokenStore tokens de restablecimiento indexados por el valor del token.
type TokenStore struct {
	mu     sync.Mutex
	tokens map[string]entity.ResetToken
	ttl    time.Duration
	now    Clock
}

// NewTokenStore construye el almacén de tokens.
func NewTokenStore(ttl time.Duration, opts ...Option) *TokenStore {
	o := buildOptions(opts)
	if ttl <= 0 {
		ttl = entity.ResetTokenTTL
	}
	return &TokenStore{
		tokens: make(map[string]entity.ResetToken),
		ttl:    ttl,
		now:    o.now,
	}
}

// Issue genera un UUIDv4 y lo asocia al email.
func (s *TokenStore) Issue(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	for _, taken := s.tokens[token]; taken; _, taken = s.tokens[token] {
		token = uuid.NewString()
	}
	s.tokens[token] = entity.ResetToken{
		Token:     token,
		Email:     email,
		ExpiresAt: s.now().Add(s.ttl),
	}
	return token, nil
}

// Peek informa si el token sigue vigente sin consumirlo.
func (s *TokenStore) Peek(_ context.Context, token string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.lookupLocked(token)
	if !ok {
		return "", false, nil
	}
	return t.Email, true, nil
}

// Consume valida y borra el token en la misma sección crítica: solo un caller gana.
func (s *TokenStore) Consume(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.lookupLocked(token)
	if !ok {
		return "", domain.ErrInvalidOrExpired
	}
	delete(s.tokens, token)
	return t.Email, nil
}

// Sweep elimina los tokens vencidos.
func (s *TokenStore) Sweep(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, t := range s.tokens {
		if t.Expired(now) {
			delete(s.tokens, token)
			removed++
		}
	}
	return removed, nil
}

// Len número de tokens guardados.
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

// lookupLocked devuelve el token vigente; si venció lo borra. Requiere s.mu tomado.
func (s *TokenStore) lookupLocked(token string) (entity.ResetToken, bool) {
	t, ok := s.tokens[token]
	if !ok {
		return entity.ResetToken{}, false
	}
	if t.Expired(s.now()) {
		delete(s.tokens, token)
		return entity.ResetToken{}, false
	}
	return t, true
}
