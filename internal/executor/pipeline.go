package executor

import (
	"context"

	"github.com/webpilot/backend/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// Executor runs ranked fallback pipelines for agent actions.
type Executor struct {
	log *logging.Logger
}

// New creates an executor.
func New(log *logging.Logger) *Executor {
	if log == nil {
		log = logging.NewNop()
	}
	return &Executor{log: log}
}

// strategy is one independent attempt at realizing an action. Returning
// (false, nil) means not applicable or no effect; returning an error is
// treated identically. No strategy failure aborts the pipeline.
type strategy struct {
	name string
	run  func(ctx context.Context) (bool, error)
}

// runPipeline tries strategies in order and returns the name and 1-based
// rank of the first one that succeeds.
func (e *Executor) runPipeline(ctx context.Context, verb string, strategies []strategy) (string, int, bool) {
	for i, s := range strategies {
		ok := e.attempt(ctx, verb, s)
		if ok {
			e.log.Debug("Strategy succeeded",
				zap.String("verb", verb),
				zap.String("strategy", s.name),
				zap.Int("rank", i+1))
			return s.name, i + 1, true
		}
	}
	return "", 0, false
}

// attempt isolates one strategy execution. Panics are swallowed so a
// misbehaving strategy cannot corrupt state for the next attempt.
func (e *Executor) attempt(ctx context.Context, verb string, s strategy) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("Strategy panicked",
				zap.String("verb", verb),
				zap.String("strategy", s.name),
				zap.Any("panic", r))
			ok = false
		}
	}()

	ok, err := s.run(ctx)
	if err != nil {
		e.log.Debug("Strategy failed",
			zap.String("verb", verb),
			zap.String("strategy", s.name),
			zap.Error(err))
		return false
	}
	return ok
}
