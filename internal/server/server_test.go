package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewServerRequiresServices(t *testing.T) {
	_, err := NewServer(zap.NewNop().Sugar(), nil, nil)
	require.Error(t, err)
}

func TestNewServerOptions(t *testing.T) {
	h := bootstrapHandler(t)

	var closed bool
	srv, err := NewServer(zap.NewNop().Sugar(), h.users, h.messages,
		WithEnvConfig(EnvConfig{Host: "127.0.0.1", Port: 8081, ShutdownTimeout: time.Second}),
		ReadTimeout(3*time.Second),
		RegisterAfterShutdown(func() { closed = true }),
	)
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:8081", srv.Addr())
	require.Equal(t, 3*time.Second, srv.config.httpServer.ReadTimeout)
	require.Equal(t, time.Second, srv.config.shutdownTimeout)
	require.Len(t, srv.config.afterShutdown, 1)
	srv.config.afterShutdown[0]()
	require.True(t, closed)
}

func TestNewServerServesRoutes(t *testing.T) {
	h := bootstrapHandler(t)
	srv, err := NewServer(zap.NewNop().Sugar(), h.users, h.messages,
		WithEnvConfig(EnvConfig{Host: "localhost", Port: 9000, RequestTimeout: 5 * time.Second}),
		TimeoutHandler(5*time.Second, "timeout"),
	)
	require.NoError(t, err)

	req, err := http.NewRequest("GET", "/login", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "<form")
}

func TestEnvConfigAddr(t *testing.T) {
	require.Equal(t, "0.0.0.0:9000", EnvConfig{Host: "0.0.0.0", Port: 9000}.Addr())
}
