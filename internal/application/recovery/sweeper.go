package recovery

import (
	"context"
	"time"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// Sweepable almacén con limpieza de entradas vencidas.
type Sweepable interface {
	Sweep(ctx context.Context) (int, error)
}

type namedStore struct {
	name  string
	store Sweepable
}

// Sweeper barre periódicamente los almacenes registrados.
type Sweeper struct {
	interval time.Duration
	stores   []namedStore
	metrics  ports.RecoveryMetrics
	log      *logger.Logger
}

// NewSweeper construye el barrendero. metrics puede ser nil.
func NewSweeper(interval time.Duration, metrics ports.RecoveryMetrics, log *logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Sweeper{interval: interval, metrics: metrics, log: log.Component("sweeper")}
}

// Add registra un almacén. Llamar antes de Start.
func (sw *Sweeper) Add(name string, store Sweepable) {
	if store == nil {
		return
	}
	sw.stores = append(sw.stores, namedStore{name: name, store: store})
}

// Start bloquea hasta que ctx se cancele.
func (sw *Sweeper) Start(ctx context.Context) {
	sw.log.Info().Dur("interval", sw.interval).Int("stores", len(sw.stores)).Msg("iniciando barrido periódico")

	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sw.SweepOnce(ctx)
		case <-ctx.Done():
			sw.log.Info().Msg("barrido detenido")
			return
		}
	}
}

// SweepOnce barre todos los almacenes y devuelve el total de entradas eliminadas.
// Un almacén que falla no impide barrer los demás.
func (sw *Sweeper) SweepOnce(ctx context.Context) int {
	total := 0
	for _, ns := range sw.stores {
		n, err := ns.store.Sweep(ctx)
		if err != nil {
			sw.log.Error().Err(err).Str("store", ns.name).Msg("fallo al barrer")
			continue
		}
		sw.metrics.Swept(ns.name, n)
		if n > 0 {
			sw.log.Debug().Str("store", ns.name).Int("removed", n).Msg("entradas vencidas eliminadas")
		}
		total += n
	}
	return total
}
