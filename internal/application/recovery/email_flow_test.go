package recovery_test

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/taller-api/internal/application/recovery"
	"github.com/jhoicas/taller-api/internal/domain"
)

var linkRe = regexp.MustCompile(`https://app\.taller\.vn/reset-password\?token=([0-9a-f-]{36})`)

// requestToken pide el email y extrae el token del enlace enviado.
func requestToken(t *testing.T, f *fixture) string {
	t.Helper()
	var body, subject string
	f.email.On("Send", mock.Anything, userEmail, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			subject = args.String(2)
			body = args.String(3)
		}).
		Return(nil).Once()

	out, err := f.svc.RequestReset(context.Background(), userEmail)
	require.NoError(t, err)
	assert.Equal(t, recovery.MsgResetEmailSent, out.Message)
	assert.Equal(t, "Restablecer contraseña - 360 CAR", subject)
	assert.Contains(t, body, "Ana López", "el saludo usa el nombre capitalizado")
	assert.Contains(t, body, "15 minutos")

	m := linkRe.FindStringSubmatch(body)
	require.Len(t, m, 2, "el email contiene el enlace con el token")
	token, err := url.QueryUnescape(m[1])
	require.NoError(t, err)
	return token
}

func TestRequestReset_Validaciones(t *testing.T) {
	f := newFixture(t, recovery.Config{})
	ctx := context.Background()

	for _, in := range []string{"", "sin-arroba", "Ana <ana@taller.vn>"} {
		_, err := f.svc.RequestReset(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "entrada %q", in)
	}

	_, err := f.svc.RequestReset(ctx, "nadie@taller.vn")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.RequestReset(ctx, strings.ToUpper(userEmail))
	assert.ErrorIs(t, err, domain.ErrNotFound, "el email distingue mayúsculas")

	f.email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, f.tokens.Len())
}

func TestRequestReset_FalloDeEntrega(t *testing.T) {
	f := newFixture(t, recovery.Config{})
	f.email.On("Send", mock.Anything, userEmail, mock.Anything, mock.Anything).Return(errors.New("resend 500")).Once()

	_, err := f.svc.RequestReset(context.Background(), userEmail)
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
}

// Escenario: pedir reset, consultar el token, completar y comprobar que ya no vale.
func TestFlujoEmail_Completo(t *testing.T) {
	f := newFixture(t, recovery.Config{})
	ctx := context.Background()
	token := requestToken(t, f)

	chk, err := f.svc.CheckToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, chk.Valid)
	assert.Equal(t, userEmail, chk.Email)

	out, err := f.svc.CompleteReset(ctx, token, "newpass1")
	require.NoError(t, err)
	assert.Equal(t, recovery.MsgPasswordChanged, out.Message)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(f.users.hash("u-1")), []byte("newpass1")))

	chk, err = f.svc.CheckToken(ctx, token)
	require.NoError(t, err)
	assert.False(t, chk.Valid)
	assert.Empty(t, chk.Email)

	_, err = f.svc.CompleteReset(ctx, token, "newpass2")
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpired)
}

// Escenario: una contraseña corta no consume el token.
func TestCompleteReset_PoliticaNoConsumeToken(t *testing.T) {
	f := newFixture(t, recovery.Config{})
	ctx := context.Background()
	token := requestToken(t, f)

	_, err := f.svc.CompleteReset(ctx, token, "12345")
	assert.ErrorIs(t, err, domain.ErrWeakPassword)

	chk, err := f.svc.CheckToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, chk.Valid, "el token sigue vigente tras el error de política")

	_, err = f.svc.CompleteReset(ctx, token, "123456")
	require.NoError(t, err)
}

func TestCompleteReset_Validaciones(t *testing.T) {
	f := newFixture(t, recovery.Config{})
	ctx := context.Background()

	_, err := f.svc.CompleteReset(ctx, "", "secreto1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.svc.CompleteReset(ctx, "tok", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.svc.CompleteReset(ctx, "no-existe", "secreto1")
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpired)
	_, err = f.svc.CompleteReset(ctx, "tok", strings.Repeat("x", 73))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.CheckToken(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompleteReset_ConcurrenteUnSoloGanador(t *testing.T) {
	f := newFixture(t, recovery.Config{})
	token := requestToken(t, f)

	var wins, expired int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CompleteReset(context.Background(), token, "secreto1")
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case errors.Is(err, domain.ErrInvalidOrExpired):
				atomic.AddInt32(&expired, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
	assert.Equal(t, int32(7), expired)
}
