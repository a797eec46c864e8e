package control

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodesk/internal/core/engine"
)

func TestServeConn_OverPipe(t *testing.T) {
	handler, timer, _ := newTestHandler(t, nil)
	server := NewServer(nil, handler, log.New(io.Discard))
	serverConn, clientConn := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		server.ServeConn(context.Background(), serverConn)
	}()

	client := NewClient(clientConn)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	response, err := client.Do(ctx, Request{Action: ActionStartCountdown})
	require.NoError(t, err)
	require.True(t, response.OK)
	assert.True(t, response.State.Countdown.Running)
	assert.True(t, timer.Snapshot().Countdown.Running)

	response, err = client.Do(ctx, Request{Action: "dance"})
	require.NoError(t, err)
	assert.Equal(t, "unknown action: dance", response.Error)

	require.NoError(t, client.Close())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ServeConn did not return after the client closed")
	}
}

func TestServeConn_InvalidLineKeepsConnection(t *testing.T) {
	handler, _, _ := newTestHandler(t, nil)
	server := NewServer(nil, handler, log.New(io.Discard))
	serverConn, clientConn := net.Pipe()
	go server.ServeConn(context.Background(), serverConn)
	defer clientConn.Close()

	_, err := clientConn.Write([]byte("garbage\n"))
	require.NoError(t, err)

	client := NewClient(clientConn)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	line, err := client.reader.ReadBytes('\n')
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":false,"error":"invalid JSON payload"}`, string(line))

	response, err := client.Do(ctx, Request{Action: ActionGetState})
	require.NoError(t, err)
	assert.True(t, response.OK)
}

func TestServer_ServeAndClose(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	handler, _, _ := newTestHandler(t, nil)
	server := NewServer(listener, handler, log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- server.Serve(ctx) }()

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer dialCancel()
	client, err := Dial(dialCtx, listener.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	response, err := client.Do(dialCtx, Request{Action: ActionSetFocusSound, Sound: "brown"})
	require.NoError(t, err)
	assert.Equal(t, engine.FocusSoundBrown, response.State.FocusSound)

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop")
	}

	_, err = client.Do(dialCtx, Request{Action: ActionGetState})
	assert.Error(t, err, "open connections are closed with the server")
	assert.NoError(t, server.Close())
}

func TestDial_NoServer(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address := listener.Addr().String()
	require.NoError(t, listener.Close())

	_, err = Dial(context.Background(), address)

	assert.Error(t, err)
}
