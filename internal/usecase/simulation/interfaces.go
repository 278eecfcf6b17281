package simulation

import (
	"context"

	"github.com/futig/parallel-universe/internal/entity"
)

// Simulator sends a snapshot to the generative backend and returns its raw reply.
type Simulator interface {
	Simulate(ctx context.Context, snapshot *entity.FormSnapshot) (string, error)
}
