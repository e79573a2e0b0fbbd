package accounting

import (
	"context"
	"time"
)

// Sleeper espera un intervalo fijo antes de una llamada remota.
// Devuelve ctx.Err() si el contexto se cancela durante la espera.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapta una función a Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep implementa Sleeper.
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// TimerSleeper espera con un timer real.
var TimerSleeper Sleeper = SleeperFunc(sleepContext)

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
