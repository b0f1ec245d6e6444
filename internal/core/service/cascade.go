package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jobboard/job-board-api/internal/core/ports"
	"github.com/jobboard/job-board-api/internal/pkg/metrics"
)

// step is a single store write of a cascade. run reports how many records it
// removed so deletes can be accounted per entity. files lose their last owner
// once run succeeds.
type step struct {
	name   string
	entity string
	run    func(ctx context.Context) (int64, error)
	files  []string
}

// cascade is an ordered list of store writes plus the resume files that become
// unowned along the way. Children are always queued before their parents, so
// a failure part way leaves dependents gone rather than orphaned.
type cascade struct {
	op    string
	steps []*step
	loose []string // files not tied to a step, released after the last write
	freed []string // files of completed steps, held until commit
}

func newCascade(op string) *cascade {
	return &cascade{op: op}
}

func (c *cascade) then(name, entity string, run func(ctx context.Context) (int64, error)) {
	c.steps = append(c.steps, &step{name: name, entity: entity, run: run})
}

// discard ties resume files to the most recently queued step: they are
// released once that step's write is durable. Without a step they wait for
// the whole cascade.
func (c *cascade) discard(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if n := len(c.steps); n > 0 {
			c.steps[n-1].files = append(c.steps[n-1].files, p)
		} else {
			c.loose = append(c.loose, p)
		}
	}
}

// execute runs the steps in order and stops at the first failing one. Without
// an atomic transaction a completed step is final, so its files go to the
// janitor straight away; otherwise they wait for the commit.
func (c *cascade) execute(ctx context.Context, janitor ports.ResumeJanitor, atomic bool, log zerolog.Logger) error {
	for i, s := range c.steps {
		n, err := s.run(ctx)
		if err != nil {
			metrics.CascadeFailuresTotal.WithLabelValues(s.name).Inc()
			log.Error().Err(err).
				Str("operation", c.op).
				Str("step", s.name).
				Int("completed", i).
				Int("total", len(c.steps)).
				Msg("cascade aborted")
			return fmt.Errorf("%s: %s: %w", c.op, s.name, err)
		}
		if s.entity != "" && n > 0 {
			metrics.CascadeDeletesTotal.WithLabelValues(s.entity, c.op).Add(float64(n))
		}

		if atomic {
			c.freed = append(c.freed, s.files...)
			continue
		}
		for _, p := range s.files {
			janitor.Discard(p)
		}
	}
	return nil
}

// runCascade plans and executes a cascade inside one transaction. plan may be
// invoked again when the store retries the transaction, so it must only read
// and queue.
func runCascade(
	ctx context.Context,
	tx ports.Transactor,
	janitor ports.ResumeJanitor,
	log zerolog.Logger,
	op string,
	plan func(ctx context.Context, c *cascade) error,
) error {
	atomic := tx.Atomic()

	var c *cascade
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		c = newCascade(op)
		if err := plan(ctx, c); err != nil {
			return err
		}
		return c.execute(ctx, janitor, atomic, log)
	})
	if err != nil {
		return err
	}

	for _, p := range append(c.freed, c.loose...) {
		janitor.Discard(p)
	}
	return nil
}
