package accounting

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Taller-api/internal/domain"
)

// Syncer ejecuta una sincronización completa (implementado por *Engine).
type Syncer interface {
	Run(ctx context.Context) (*Report, error)
}

// RunState resultado de la última ejecución.
type RunState struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Report     *Report // nil si Err != nil
	Err        error
}

// Runner garantiza una sola sincronización a la vez por proceso. El disparo HTTP y el
// cron comparten el mismo Runner para no lanzar peticiones remotas en paralelo.
type Runner struct {
	base    context.Context
	syncer  Syncer
	timeout time.Duration
	log     zerolog.Logger

	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	started time.Time
	last    *RunState
}

// NewRunner construye el runner. Las ejecuciones lanzadas con Start heredan base:
// al cancelarlo se detienen. timeout <= 0 significa sin límite.
func NewRunner(base context.Context, syncer Syncer, timeout time.Duration, log zerolog.Logger) *Runner {
	return &Runner{base: base, syncer: syncer, timeout: timeout, log: log}
}

// Run ejecuta la sincronización de forma síncrona.
// Devuelve domain.ErrSyncInProgress si ya hay una en curso.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if !r.acquire() {
		return nil, domain.ErrSyncInProgress
	}
	return r.execute(ctx)
}

// Start lanza la sincronización en una goroutine sobre el contexto base del runner,
// desacoplado de la petición que la dispara.
func (r *Runner) Start() error {
	if !r.acquire() {
		return domain.ErrSyncInProgress
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if _, err := r.execute(r.base); err != nil {
			r.log.Error().Err(err).Msg("sincronización en segundo plano fallida")
		}
	}()
	return nil
}

// Wait bloquea hasta que terminen las sincronizaciones lanzadas con Start.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Status indica si hay una ejecución en curso, cuándo empezó y el resultado de la última terminada.
func (r *Runner) Status() (running bool, startedAt time.Time, last *RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running, r.started, r.last
}

func (r *Runner) acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return false
	}
	r.running = true
	r.started = time.Now()
	return true
}

func (r *Runner) execute(ctx context.Context) (*Report, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	report, err := r.syncer.Run(ctx)

	r.mu.Lock()
	r.last = &RunState{StartedAt: r.started, FinishedAt: time.Now(), Report: report, Err: err}
	r.running = false
	r.mu.Unlock()
	return report, err
}
