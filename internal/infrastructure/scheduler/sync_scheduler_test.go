package scheduler

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/domain"
)

type countingStarter struct {
	calls int
	err   error
}

func (s *countingStarter) Start() error {
	s.calls++
	return s.err
}

// fire ejecuta el disparo registrado sin esperar al reloj.
func fire(s *SyncScheduler) {
	s.c.Entry(s.entryID).Job.Run()
}

func TestNewSyncScheduler_ExpresionValida(t *testing.T) {
	starter := &countingStarter{}
	s, err := NewSyncScheduler("0 3 * * *", starter, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, s.c.Entries(), 1)

	fire(s)
	assert.Equal(t, 1, starter.calls)
}

func TestNewSyncScheduler_Descriptor(t *testing.T) {
	_, err := NewSyncScheduler("@every 30m", &countingStarter{}, zerolog.Nop())
	assert.NoError(t, err)
}

func TestNewSyncScheduler_ExpresionInvalida(t *testing.T) {
	_, err := NewSyncScheduler("cada hora", &countingStarter{}, zerolog.Nop())
	assert.Error(t, err)
}

// Una sincronización en curso no es un error del planificador.
func TestTrigger_SyncEnCurso(t *testing.T) {
	starter := &countingStarter{err: domain.ErrSyncInProgress}
	s, err := NewSyncScheduler("@hourly", starter, zerolog.Nop())
	require.NoError(t, err)

	assert.NotPanics(t, func() { fire(s) })
	assert.Equal(t, 1, starter.calls)
}

func TestStartStop(t *testing.T) {
	s, err := NewSyncScheduler("@hourly", &countingStarter{}, zerolog.Nop())
	require.NoError(t, err)

	s.Start()
	assert.NotPanics(t, s.Stop)
}
