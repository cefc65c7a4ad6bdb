package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.VerifiedPhoneStore = (*VerifiedStore)(nil)

// VerifiedStore marcas de teléfono verificado, clave otp_verified:<teléfono>.
type VerifiedStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewVerifiedStore construye el almacén.
func NewVerifiedStore(rdb redis.UniversalClient, ttl time.Duration) *VerifiedStore {
	if ttl <= 0 {
		ttl = entity.ResetTokenTTL
	}
	return &VerifiedStore{rdb: rdb, ttl: ttl}
}

func (s *VerifiedStore) Mark(ctx context.Context, phone string) error {
	if err := s.rdb.Set(ctx, key(nsVerified, phone), 1, s.ttl).Err(); err != nil {
		return fmt.Errorf("marcar teléfono: %w", err)
	}
	return nil
}

// Consume borra la marca; DEL devuelve 1 solo a quien la encontró.
func (s *VerifiedStore) Consume(ctx context.Context, phone string) (bool, error) {
	n, err := s.rdb.Del(ctx, key(nsVerified, phone)).Result()
	if err != nil {
		return false, fmt.Errorf("consumir marca: %w", err)
	}
	return n == 1, nil
}

func (s *VerifiedStore) Sweep(context.Context) (int, error) {
	return 0, nil
}
