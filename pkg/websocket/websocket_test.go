package websocketPkg_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ArdenGolang/pkg/generator"
	websocketPkg "ArdenGolang/pkg/websocket"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func sidecar(t *testing.T, handle func(conn *websocket.Conn, prompt map[string]any)) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var prompt map[string]any
		_ = jsoniter.Unmarshal(data, &prompt)
		handle(conn, prompt)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSidecar_StreamsTokensUntilDone(t *testing.T) {
	var seen map[string]any
	url := sidecar(t, func(conn *websocket.Conn, prompt map[string]any) {
		seen = prompt
		for _, tok := range []string{`{"intent":`, `"unknown"}`} {
			_ = conn.WriteJSON(map[string]any{"token": tok})
		}
		_ = conn.WriteJSON(map[string]any{"done": true})
	})

	g, err := websocketPkg.NewSidecarClient(quietLogger(), url, 64)
	require.NoError(t, err)
	assert.Equal(t, websocketPkg.BackendName, g.Name())

	s, err := g.Generate(context.Background(), generator.NewPrompt("sys", nil, "hello", 5))
	require.NoError(t, err)
	text, err := generator.Collect(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, `{"intent":"unknown"}`, text)
	assert.Contains(t, seen["prompt"], "<|user|>\nhello")
	assert.EqualValues(t, 64, seen["max_tokens"])
}

func TestSidecar_EndMarkerStopsStream(t *testing.T) {
	url := sidecar(t, func(conn *websocket.Conn, _ map[string]any) {
		_ = conn.WriteJSON(map[string]any{"token": "{}" + generator.EndMarker + "trailing"})
		_ = conn.WriteJSON(map[string]any{"token": "more"})
		_ = conn.WriteJSON(map[string]any{"done": true})
	})

	g, err := websocketPkg.NewSidecarClient(quietLogger(), url, 64)
	require.NoError(t, err)
	s, err := g.Generate(context.Background(), generator.NewPrompt("sys", nil, "x", 5))
	require.NoError(t, err)
	text, err := generator.Collect(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "{}", text)
}

func TestSidecar_ReportsRemoteError(t *testing.T) {
	url := sidecar(t, func(conn *websocket.Conn, _ map[string]any) {
		_ = conn.WriteJSON(map[string]any{"error": "model not loaded"})
	})

	g, err := websocketPkg.NewSidecarClient(quietLogger(), url, 64)
	require.NoError(t, err)
	s, err := g.Generate(context.Background(), generator.NewPrompt("sys", nil, "x", 5))
	require.NoError(t, err)
	_, err = generator.Collect(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestSidecar_CancelUnblocksRead(t *testing.T) {
	release := make(chan struct{})
	url := sidecar(t, func(conn *websocket.Conn, _ map[string]any) {
		_ = conn.WriteJSON(map[string]any{"token": "partial"})
		<-release
	})
	defer close(release)

	g, err := websocketPkg.NewSidecarClient(quietLogger(), url, 64)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s, err := g.Generate(ctx, generator.NewPrompt("sys", nil, "x", 5))
	require.NoError(t, err)
	<-s.Fragments()
	cancel()

	done := make(chan error, 1)
	go func() { done <- s.Err() }()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after cancellation")
	}
}

func TestSidecar_RequiresURL(t *testing.T) {
	t.Setenv("ASSISTANT_SIDECAR_URL", "")
	_, err := websocketPkg.NewSidecarClient(quietLogger(), "", 64)
	assert.ErrorIs(t, err, generator.ErrBackendUnavailable)
}

func TestSidecar_UnreachableIsUnavailable(t *testing.T) {
	g, err := websocketPkg.NewSidecarClient(quietLogger(), "ws://127.0.0.1:1/generate", 64)
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), generator.NewPrompt("sys", nil, "x", 5))
	assert.ErrorIs(t, err, generator.ErrBackendUnavailable)
}
