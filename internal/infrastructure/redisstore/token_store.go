package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.ResetTokenStore = (*TokenStore)(nil)

const maxIssueAttempts = 3

// TokenStore tokens de restablecimiento en Redis, clave reset_token:<token> -> email.
type TokenStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewTokenStore construye el almacén.
func NewTokenStore(rdb redis.UniversalClient, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = entity.ResetTokenTTL
	}
	return &TokenStore{rdb: rdb, ttl: ttl}
}

// Issue guarda un UUID nuevo con SET NX; si choca con uno existente genera otro.
func (s *TokenStore) Issue(ctx context.Context, email string) (string, error) {
	for i := 0; i < maxIssueAttempts; i++ {
		token := uuid.NewString()
		ok, err := s.rdb.SetNX(ctx, key(nsToken, token), email, s.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("guardar token: %w", err)
		}
		if ok {
			return token, nil
		}
	}
	return "", fmt.Errorf("guardar token: colisión tras %d intentos", maxIssueAttempts)
}

// Peek lee el email sin borrar el token.
func (s *TokenStore) Peek(ctx context.Context, token string) (string, bool, error) {
	email, err := s.rdb.Get(ctx, key(nsToken, token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("leer token: %w", err)
	}
	return email, true, nil
}

// Consume lee y borra con GETDEL: de varias llamadas concurrentes solo una obtiene el email.
func (s *TokenStore) Consume(ctx context.Context, token string) (string, error) {
	email, err := s.rdb.GetDel(ctx, key(nsToken, token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrInvalidOrExpired
	}
	if err != nil {
		return "", fmt.Errorf("consumir token: %w", err)
	}
	return email, nil
}

// Sweep no hace nada: Redis expira las claves.
func (s *TokenStore) Sweep(context.Context) (int, error) {
	return 0, nil
}
