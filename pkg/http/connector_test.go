package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type echoRequest struct {
	Name string `json:"name"`
}

type echoResponse struct {
	Text string `json:"text"`
}

func TestDoRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/simulate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "1", r.Header.Get("X-Trace"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"name":"kim"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hello kim"}`))
	}))
	defer srv.Close()

	c := NewConnector(
		&ConnectorConfig{BaseURL: srv.URL, Logger: zap.NewNop()},
		WithAuthToken("secret"),
		WithRequestLogging(),
	)

	var resp echoResponse
	err := c.DoRequest(context.Background(), http.MethodPost, "/simulate", echoRequest{Name: "kim"}, &resp, WithHeader("X-Trace", "1"))
	require.NoError(t, err)
	assert.Equal(t, "hello kim", resp.Text)
}

func TestDoRequest_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL, Logger: zap.NewNop()})

	err := c.DoRequest(context.Background(), http.MethodPost, "/", nil, nil)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, "upstream exploded")
}

func TestDoRequest_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: url, Logger: zap.NewNop()}, WithRequestLogging())

	err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Error(t, netErr.Unwrap())
}

func TestDoRequest_OverrideURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/other", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: "http://unused.invalid", Logger: zap.NewNop()})

	err := c.DoRequest(context.Background(), http.MethodGet, "/ignored", nil, nil, WithURL(srv.URL+"/other"))
	assert.NoError(t, err)
}
