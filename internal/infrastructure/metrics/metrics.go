// Package metrics contadores Prometheus de recuperación, autorización y HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/taller-api/internal/application/ports"
)

var (
	_ ports.RecoveryMetrics = (*Metrics)(nil)
	_ ports.AccessMetrics   = (*Metrics)(nil)
)

// Metrics implementa los puertos de métricas sobre un registro Prometheus.
type Metrics struct {
	codesIssued    prometheus.Counter
	codesVerified  *prometheus.CounterVec
	tokensIssued   prometheus.Counter
	tokensConsumed *prometheus.CounterVec
	passwordResets *prometheus.CounterVec
	deliveryFailed *prometheus.CounterVec
	swept          *prometheus.CounterVec
	authz          *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New registra las métricas en reg (prometheus.DefaultRegisterer en producción, uno nuevo en tests).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		codesIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "recovery_codes_issued_total",
			Help: "Códigos de verificación emitidos",
		}),
		codesVerified: f.NewCounterVec(prometheus.CounterOpts{
			Name: "recovery_codes_verified_total",
			Help: "Verificaciones de código por resultado",
		}, []string{"result"}),
		tokensIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "recovery_tokens_issued_total",
			Help: "Tokens de restablecimiento emitidos",
		}),
		tokensConsumed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "recovery_tokens_consumed_total",
			Help: "Intentos de consumir un token por resultado",
		}, []string{"result"}),
		passwordResets: f.NewCounterVec(prometheus.CounterOpts{
			Name: "recovery_password_resets_total",
			Help: "Contraseñas restablecidas por flujo",
		}, []string{"flow"}),
		deliveryFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "recovery_delivery_failures_total",
			Help: "Fallos de entrega por canal",
		}, []string{"channel"}),
		swept: f.NewCounterVec(prometheus.CounterOpts{
			Name: "recovery_swept_entries_total",
			Help: "Entradas vencidas eliminadas por almacén",
		}, []string{"store"}),
		authz: f.NewCounterVec(prometheus.CounterOpts{
			Name: "access_authorization_decisions_total",
			Help: "Decisiones de autorización por resultado",
		}, []string{"outcome"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5},
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) CodeIssued() { m.codesIssued.Inc() }

func (m *Metrics) CodeVerified(ok bool) { m.codesVerified.WithLabelValues(result(ok)).Inc() }

func (m *Metrics) TokenIssued() { m.tokensIssued.Inc() }

func (m *Metrics) TokenConsumed(ok bool) { m.tokensConsumed.WithLabelValues(result(ok)).Inc() }

func (m *Metrics) PasswordReset(flow string) { m.passwordResets.WithLabelValues(flow).Inc() }

func (m *Metrics) DeliveryFailed(channel string) { m.deliveryFailed.WithLabelValues(channel).Inc() }

func (m *Metrics) Swept(store string, n int) {
	if n > 0 {
		m.swept.WithLabelValues(store).Add(float64(n))
	}
}

func (m *Metrics) AuthorizationDecision(outcome string) { m.authz.WithLabelValues(outcome).Inc() }

// ObserveHTTP registra la duración de una petición.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "invalid"
}
