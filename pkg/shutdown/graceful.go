package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
)

type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Func adapts a plain function to Stoppable.
type Func func(ctx context.Context) error

func (f Func) Shutdown(ctx context.Context) error { return f(ctx) }

// Step is one named component to stop.
type Step struct {
	Name string
	Stoppable
}

// Graceful blocks until one of signals arrives or ctx is done, then stops
// steps in order. All steps share one timeout and every step runs even when
// an earlier one fails.
func Graceful(ctx context.Context, signals []os.Signal, timeout time.Duration, log zerolog.Logger, steps ...Step) error {
	sigCtx, stop := signal.NotifyContext(ctx, signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var errs []error
	for _, s := range steps {
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Str("component", s.Name).Msg("shutdown step failed")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		log.Debug().Str("component", s.Name).Msg("stopped")
	}

	if err := errors.Join(errs...); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown completed with error")
		return err
	}
	log.Info().Msg("graceful shutdown completed successfully")
	return nil
}
