package recovery_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/recovery"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
)

// ── Mocks ────────────────────────────────────────────────────────────────────

type mockSMS struct{ mock.Mock }

func (m *mockSMS) Send(ctx context.Context, phone, message string) error {
	return m.Called(ctx, phone, message).Error(0)
}

type mockEmail struct{ mock.Mock }

func (m *mockEmail) Send(ctx context.Context, to, subject, htmlBody string) error {
	return m.Called(ctx, to, subject, htmlBody).Error(0)
}

// fakeUsers repositorio en memoria con lo mínimo que usa el servicio.
type fakeUsers struct {
	mu    sync.Mutex
	users []*entity.User
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByPhone(_ context.Context, phone string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == userID {
			u.PasswordHash = hash
			return nil
		}
	}
	return nil
}

func (f *fakeUsers) ListWithRoles(context.Context, entity.UserFilter) ([]*entity.UserWithRoles, int, error) {
	return nil, 0, nil
}

func (f *fakeUsers) Stats(context.Context) (*entity.UserStats, error) {
	return &entity.UserStats{}, nil
}

func (f *fakeUsers) hash(id string) string {
	u, _ := f.FindByID(context.Background(), id)
	if u == nil {
		return ""
	}
	return u.PasswordHash
}

// ── Fixture ──────────────────────────────────────────────────────────────────

const (
	userPhone = "0912345678"
	userEmail = "ana@taller.vn"
	testPhone = "0999999999"
)

type fixture struct {
	svc    *recovery.Service
	users  *fakeUsers
	codes  *memory.CodeStore
	tokens *memory.TokenStore
	sms    *mockSMS
	email  *mockEmail
}

func newFixture(t *testing.T, cfg recovery.Config) *fixture {
	t.Helper()
	fixed := entity.FixedCodes{testPhone: "123456"}
	cfg.FixedCodes = fixed
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "https://app.taller.vn/"
	}

	f := &fixture{
		users: &fakeUsers{users: []*entity.User{
			{ID: "u-1", FullName: "ana lópez", Phone: userPhone, Email: userEmail, PasswordHash: "viejo"},
			{ID: "u-2", FullName: "tester", Phone: testPhone, Email: "qa@taller.vn", PasswordHash: "viejo"},
		}},
		codes:  memory.NewCodeStore(5*time.Minute, fixed),
		tokens: memory.NewTokenStore(15 * time.Minute),
		sms:    new(mockSMS),
		email:  new(mockEmail),
	}
	svc, err := recovery.NewService(recovery.Deps{
		Users:    f.users,
		Codes:    f.codes,
		Tokens:   f.tokens,
		Verified: memory.NewVerifiedStore(10 * time.Minute),
		SMS:      f.sms,
		Email:    f.email,
	}, cfg)
	require.NoError(t, err)
	f.svc = svc
	return f
}
