package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/taller-api/internal/interfaces/http"
)

type observation struct {
	method, route string
	status        int
}

type recordingObserver struct {
	mu  sync.Mutex
	obs []observation
}

func (r *recordingObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.obs = append(r.obs, observation{method, route, status})
}

func TestRouter_LimitaPeticionesDeRecuperacion(t *testing.T) {
	svc := &mockRecovery{}
	svc.On("CheckToken", mock.Anything, "tok").Return(&dto.CheckTokenResponse{}, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Recovery:          svc,
		Users:             &mockUsers{},
		Authz:             &fakeAuthz{},
		JWTSecret:         testJWTSecret,
		RecoveryRateLimit: 2,
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/reset-token/check", strings.NewReader(`{"token":"tok"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestRouter_MetricasPorRuta(t *testing.T) {
	users := &mockUsers{}
	users.On("ChangeRole", mock.Anything, "u-2", "staff").Return(&dto.UserResponse{ID: "u-2"}, nil)
	obs := &recordingObserver{}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Recovery:  &mockRecovery{},
		Users:     users,
		Authz:     &fakeAuthz{},
		JWTSecret: testJWTSecret,
		Metrics:   obs,
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/admin/u-2/role", strings.NewReader(`{"role":"staff"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, testUserID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, obs.obs, 1)
	assert.Equal(t, observation{"PATCH", "/api/v1/users/admin/:id/role", http.StatusOK}, obs.obs[0])
}

func TestRouter_ExponeMetricasPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.CodeIssued()

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Recovery:  &mockRecovery{},
		Users:     &mockUsers{},
		Authz:     &fakeAuthz{},
		JWTSecret: testJWTSecret,
		Metrics:   m,
		Gatherer:  reg,
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "recovery_codes_issued_total 1")
}
