package redisstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/redisstore"
)

const testPhone = "0912345678"

func setup(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := redisstore.NewClient(context.Background(), redisstore.Options{Addrs: []string{mr.Addr()}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// ── Códigos ──────────────────────────────────────────────────────────────────

func TestCodeStore_VerificaUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setup(t)
	store := redisstore.NewCodeStore(rdb, 5*time.Minute, nil)

	code, err := store.Issue(ctx, testPhone)
	require.NoError(t, err)
	mr.CheckGet(t, "otp:"+testPhone, code)
	assert.Equal(t, 5*time.Minute, mr.TTL("otp:"+testPhone))

	ok, err := store.Verify(ctx, testPhone, code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Verify(ctx, testPhone, code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCodeStore_CodigoIncorrectoConserva(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setup(t)
	store := redisstore.NewCodeStore(rdb, 5*time.Minute, entity.FixedCodes{testPhone: "123456"})

	_, err := store.Issue(ctx, testPhone)
	require.NoError(t, err)

	ok, err := store.Verify(ctx, testPhone, "654321")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mr.Exists("otp:"+testPhone))

	ok, err = store.Verify(ctx, testPhone, "123456")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCodeStore_Vencido(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setup(t)
	store := redisstore.NewCodeStore(rdb, 5*time.Minute, nil)

	code, err := store.Issue(ctx, testPhone)
	require.NoError(t, err)
	mr.FastForward(5*time.Minute + time.Second)

	ok, err := store.Verify(ctx, testPhone, code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCodeStore_Reemitir(t *testing.T) {
	ctx := context.Background()
	_, rdb := setup(t)
	store := redisstore.NewCodeStore(rdb, 5*time.Minute, nil)

	first, err := store.Issue(ctx, testPhone)
	require.NoError(t, err)
	second, err := store.Issue(ctx, testPhone)
	require.NoError(t, err)

	if first != second {
		ok, err := store.Verify(ctx, testPhone, first)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	ok, err := store.Verify(ctx, testPhone, second)
	require.NoError(t, err)
	assert.True(t, ok)
}

// ── Tokens ───────────────────────────────────────────────────────────────────

func TestTokenStore_PeekYConsume(t *testing.T) {
	ctx := context.Background()
	_, rdb := setup(t)
	store := redisstore.NewTokenStore(rdb, 15*time.Minute)

	token, err := store.Issue(ctx, "ana@taller.vn")
	require.NoError(t, err)

	email, ok, err := store.Peek(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ana@taller.vn", email)

	email, err = store.Consume(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ana@taller.vn", email)

	_, err = store.Consume(ctx, token)
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpired)

	_, ok, err = store.Peek(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenStore_Vencido(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setup(t)
	store := redisstore.NewTokenStore(rdb, 15*time.Minute)

	token, err := store.Issue(ctx, "ana@taller.vn")
	require.NoError(t, err)
	mr.FastForward(16 * time.Minute)

	_, err = store.Consume(ctx, token)
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpired)
}

func TestTokenStore_TokenDesconocido(t *testing.T) {
	_, rdb := setup(t)
	store := redisstore.NewTokenStore(rdb, 15*time.Minute)

	_, ok, err := store.Peek(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.False(t, ok)
}

// ── Marcas de verificación ───────────────────────────────────────────────────

func TestVerifiedStore_UnSoloUso(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setup(t)
	store := redisstore.NewVerifiedStore(rdb, 10*time.Minute)

	require.NoError(t, store.Mark(ctx, testPhone))
	ok, err := store.Consume(ctx, testPhone)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Consume(ctx, testPhone)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Mark(ctx, testPhone))
	mr.FastForward(11 * time.Minute)
	ok, err = store.Consume(ctx, testPhone)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifiedStore_TTLCeroUsaDefault(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setup(t)
	store := redisstore.NewVerifiedStore(rdb, 0)

	require.NoError(t, store.Mark(ctx, testPhone))
	assert.Equal(t, entity.ResetTokenTTL, mr.TTL("otp_verified:"+testPhone))

	ok, err := store.Consume(ctx, testPhone)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewClient_SinDirecciones(t *testing.T) {
	_, err := redisstore.NewClient(context.Background(), redisstore.Options{})
	assert.Error(t, err)
}
