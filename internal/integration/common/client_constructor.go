package common

import (
	"net/http"

	"github.com/futig/parallel-universe/internal/config"
	pkgHTTP "github.com/futig/parallel-universe/pkg/http"
	"go.uber.org/zap"
)

func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return pkgHTTP.NewConnector(connCfg, clientOptions(cfg)...)
}

// NewBaseClient returns a plain HTTP client with the same transport stack,
// for SDKs that bring their own request handling.
func NewBaseClient(cfg config.HTTPClientConfig) *http.Client {
	return pkgHTTP.NewClient(clientOptions(cfg)...)
}

func clientOptions(cfg config.HTTPClientConfig) []pkgHTTP.HttpOpts {
	return []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthToken(cfg.Token),
	}
}
