package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/futig/parallel-universe/internal/pkg/extractor"
	"github.com/futig/parallel-universe/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Outcome is the result of one submission: exactly one of Result and Err is set.
type Outcome struct {
	Result *entity.SimulationResult
	Err    error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Coordinator runs submissions: remote call, extraction, result handoff.
// Transport failures are never retried.
type Coordinator struct {
	simulator Simulator
	now       func() time.Time
}

func NewCoordinator(simulator Simulator) *Coordinator {
	return &Coordinator{
		simulator: simulator,
		now:       time.Now,
	}
}

// Submit runs a submission and waits for it.
func (c *Coordinator) Submit(
	ctx context.Context,
	state *State,
	snapshot *entity.FormSnapshot,
) (*entity.SimulationResult, error) {
	if err := state.begin(); err != nil {
		return nil, err
	}

	outcome := c.run(ctx, state, snapshot)
	return outcome.Result, outcome.Err
}

// Start sets the loading flag and runs the submission in the background.
// The returned channel delivers a single Outcome and is then closed.
func (c *Coordinator) Start(
	ctx context.Context,
	state *State,
	snapshot *entity.FormSnapshot,
) (<-chan Outcome, error) {
	if err := state.begin(); err != nil {
		return nil, err
	}

	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		out <- c.run(ctx, state, snapshot)
	}()

	return out, nil
}

func (c *Coordinator) run(ctx context.Context, state *State, snapshot *entity.FormSnapshot) Outcome {
	ctx = logger.WithAction(ctx, "simulate")
	started := c.now()

	raw, err := c.simulator.Simulate(ctx, snapshot)
	if err != nil {
		err = fmt.Errorf("simulate: %w", err)
		ctxzap.Error(ctx, "simulation request failed",
			zap.Duration("elapsed", c.now().Sub(started)),
			zap.Error(err),
		)
		state.fail(err, c.now())
		return Outcome{Err: err}
	}

	result := extractor.Parse(ctx, raw)
	state.succeed(result, c.now())

	ctxzap.Info(ctx, "simulation completed",
		zap.Duration("elapsed", c.now().Sub(started)),
		zap.Int("timeline_length", len(result.Timeline)),
	)

	return Outcome{Result: result}
}
