package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
)

func TestVerifiedStore_MarcaDeUnSoloUso(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := memory.NewVerifiedStore(10*time.Minute, memory.WithClock(clock.Now))

	ok, err := store.Consume(ctx, testPhone)
	require.NoError(t, err)
	assert.False(t, ok, "sin marca no hay verificación")

	require.NoError(t, store.Mark(ctx, testPhone))
	ok, err = store.Consume(ctx, testPhone)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Consume(ctx, testPhone)
	require.NoError(t, err)
	assert.False(t, ok, "la marca se consume")
}

func TestVerifiedStore_Vencida(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := memory.NewVerifiedStore(10*time.Minute, memory.WithClock(clock.Now))

	require.NoError(t, store.Mark(ctx, testPhone))
	require.NoError(t, store.Mark(ctx, "0922222222"))
	clock.Advance(11 * time.Minute)

	ok, err := store.Consume(ctx, testPhone)
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed, "la marca restante vencida se barre")
}

func TestVerifiedStore_TTLCeroUsaDefault(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := memory.NewVerifiedStore(0, memory.WithClock(clock.Now))

	require.NoError(t, store.Mark(ctx, testPhone))
	clock.Advance(14 * time.Minute)

	ok, err := store.Consume(ctx, testPhone)
	require.NoError(t, err)
	assert.True(t, ok, "con ttl 0 la marca dura la vigencia por defecto")
}
