package container

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"distlab/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			APIPort:         "18080",
			UIPort:          "18081",
			GinMode:         "test",
			ShutdownTimeout: time.Second,
		},
		Log: config.LogConfig{Level: "ERROR"},
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNew_WiresCore(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	assert.Len(t, c.Registry.IDs(), 14)
	assert.NotNil(t, c.Explorer)
	assert.NotNil(t, c.API)
	assert.NotNil(t, c.UI)
}

func TestServe_StopsOnCancel(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	apiListener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	uiListener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx, apiListener, uiListener) }()

	for _, url := range []string{
		"http://" + apiListener.Addr().String() + "/api/health",
		"http://" + uiListener.Addr().String() + "/",
	} {
		resp, err := http.Get(url)
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, url)
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("servers did not shut down")
	}
}
