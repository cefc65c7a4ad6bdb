package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.VerificationCodeStore = (*CodeStore)(nil)

// verifyScript compara y borra en una sola operación.
// 1 = coincide (borrado), -1 = no coincide (se conserva), 0 = no existe o venció.
var verifyScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then
	return 0
end
if v == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return -1
`)

// CodeStore códigos de verificación en Redis, clave otp:<teléfono>.
type CodeStore struct {
	rdb   redis.UniversalClient
	ttl   time.Duration
	fixed entity.FixedCodes
}

// NewCodeStore construye el almacén.
func NewCodeStore(rdb redis.UniversalClient, ttl time.Duration, fixed entity.FixedCodes) *CodeStore {
	if ttl <= 0 {
		ttl = entity.VerificationCodeTTL
	}
	return &CodeStore{rdb: rdb, ttl: ttl, fixed: fixed}
}

// Issue guarda el código con SET PX; sobrescribe el anterior del destinatario.
func (s *CodeStore) Issue(ctx context.Context, recipient string) (string, error) {
	code, ok := s.fixed.Lookup(recipient)
	if !ok {
		var err error
		if code, err = entity.GenerateCode(); err != nil {
			return "", err
		}
	}
	if err := s.rdb.Set(ctx, key(nsCode, recipient), code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("guardar código: %w", err)
	}
	return code, nil
}

// Verify consume el código si coincide.
func (s *CodeStore) Verify(ctx context.Context, recipient, candidate string) (bool, error) {
	res, err := verifyScript.Run(ctx, s.rdb, []string{key(nsCode, recipient)}, candidate).Int()
	if err != nil {
		return false, fmt.Errorf("verificar código: %w", err)
	}
	return res == 1, nil
}

// Sweep no hace nada: Redis expira las claves.
func (s *CodeStore) Sweep(context.Context) (int, error) {
	return 0, nil
}
