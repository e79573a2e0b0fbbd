package scheduler

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Taller-api/internal/domain"
)

// SyncStarter lanza una sincronización en segundo plano (implementado por *accounting.Runner).
type SyncStarter interface {
	Start() error
}

// SyncScheduler dispara la sincronización contable según una expresión cron.
type SyncScheduler struct {
	c       *cron.Cron
	entryID cron.EntryID
}

// NewSyncScheduler registra el disparo periódico. Acepta el formato estándar de cinco
// campos y los descriptores (@hourly, @every 30m).
func NewSyncScheduler(spec string, runner SyncStarter, log zerolog.Logger) (*SyncScheduler, error) {
	c := cron.New()
	id, err := c.AddFunc(spec, func() { trigger(runner, log) })
	if err != nil {
		return nil, fmt.Errorf("expresión cron %q: %w", spec, err)
	}
	return &SyncScheduler{c: c, entryID: id}, nil
}

func trigger(runner SyncStarter, log zerolog.Logger) {
	err := runner.Start()
	switch {
	case err == nil:
		log.Info().Msg("sincronización programada lanzada")
	case errors.Is(err, domain.ErrSyncInProgress):
		log.Warn().Msg("sincronización programada omitida: ya hay una en curso")
	default:
		log.Error().Err(err).Msg("sincronización programada fallida")
	}
}

// Start arranca el planificador en su propia goroutine.
func (s *SyncScheduler) Start() { s.c.Start() }

// Stop detiene el planificador; no interrumpe una sincronización ya lanzada.
func (s *SyncScheduler) Stop() { <-s.c.Stop().Done() }
