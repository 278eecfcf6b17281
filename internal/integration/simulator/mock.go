package simulator

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/futig/parallel-universe/internal/entity"
	json "github.com/goccy/go-json"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector returns a canned reply shaped like real model output,
// with a short preamble the extractor has to skip.
type MockConnector struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
		now:    time.Now,
	}
}

func (m *MockConnector) Simulate(ctx context.Context, snapshot *entity.FormSnapshot) (string, error) {
	ctxzap.Info(ctx, "[MOCK] requesting simulation")

	start := snapshot.Year
	if start == 0 {
		start = m.now().Year() - 10
	}
	end := m.now().Year()

	result := entity.SimulationResult{
		Timeline: []entity.TimelineItem{
			{
				Title:    fmt.Sprintf("%dD / 0 /", start),
				Contents: "Instead of what happened, you chose: " + snapshot.DesiredChange,
			},
			{
				Title:    fmt.Sprintf("%dD / %d /", (start+end)/2, days(start, (start+end)/2)),
				Contents: "Life in " + fallback(snapshot.CurrentLocation, "a new city") + " took an unexpected turn.",
			},
			{
				Title:    fmt.Sprintf("%dD / %d /", end, days(start, end)),
				Contents: "Today you are no longer just a " + fallback(snapshot.CurrentJob, "stranger") + ".",
			},
		},
		LastMessage: "Every universe has a version of you worth meeting.",
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal mock reply: %w", err)
	}

	return "Here is your parallel universe (" + strconv.Itoa(start) + "):\n" + string(payload), nil
}

func days(fromYear, toYear int) int {
	from := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(toYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
