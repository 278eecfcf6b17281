package simulator

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/parallel-universe/internal/config"
	"github.com/futig/parallel-universe/internal/entity"
	"github.com/futig/parallel-universe/internal/integration/common"
	pkghttp "github.com/futig/parallel-universe/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ProxyConnector posts the form snapshot to the simulation proxy, which
// answers with {"text": "<raw model output>"}.
type ProxyConnector struct {
	config    config.SimulatorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

type proxyResponse struct {
	Text *string `json:"text"`
}

func NewProxyConnector(
	cfg config.SimulatorConfig,
	logger *zap.Logger,
) *ProxyConnector {
	return &ProxyConnector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Simulate sends a single request and never retries. A reply without a
// text field yields an empty string, which extraction turns into the fallback result.
func (c *ProxyConnector) Simulate(ctx context.Context, snapshot *entity.FormSnapshot) (string, error) {
	ctxzap.Info(ctx, "requesting simulation from proxy")

	var resp proxyResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.Endpoint, snapshot, &resp)
	if err != nil {
		return "", fmt.Errorf("request simulation: %w", err)
	}

	if resp.Text == nil {
		ctxzap.Warn(ctx, "simulation proxy reply has no text field")
		return "", nil
	}

	ctxzap.Info(ctx, "simulation reply received", zap.Int("length", len(*resp.Text)))
	return *resp.Text, nil
}
