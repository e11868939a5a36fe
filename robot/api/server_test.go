// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/strider-labs/striderd/robot/core"
)

func newLoopbackServer(t *testing.T) *Server {
	t.Helper()
	router := NewRouter(&busRecorder{ids: []int{11}}, &stubIMU{}, core.NewCommandGate())
	return NewServer("127.0.0.1", 0, router)
}

func TestServerDynamicPort(t *testing.T) {
	server := newLoopbackServer(t)
	require.False(t, server.IsListening())

	require.NoError(t, server.Listen())
	defer server.Close()

	require.True(t, server.IsListening())
	require.NotZero(t, server.Port(), "port 0 must be replaced by the allocated one")
	require.Equal(t, "127.0.0.1", server.Host())
}

func TestServerServesUntilCanceled(t *testing.T) {
	server := newLoopbackServer(t)
	require.NoError(t, server.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- server.Serve(ctx) }()

	resp, err := http.Get(server.URL("/ping"))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-served:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancelation")
	}
}

func TestServerShutdownDrainsInflightRequests(t *testing.T) {
	entered := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("done"))
	})
	server := NewServer("127.0.0.1", 0, slow)
	require.NoError(t, server.Listen())

	served := make(chan error, 1)
	go func() { served <- server.Serve(context.Background()) }()

	got := make(chan string, 1)
	go func() {
		resp, err := http.Get(server.URL("/"))
		if err != nil {
			got <- "request failed: " + err.Error()
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		got <- string(body)
	}()

	<-entered

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(shutdownCtx))

	require.Equal(t, "done", <-got, "in-flight request was cut off by shutdown")
	require.ErrorIs(t, <-served, http.ErrServerClosed)
}

func TestServerShutdown(t *testing.T) {
	server := newLoopbackServer(t)
	require.NoError(t, server.Listen())

	served := make(chan error, 1)
	go func() { served <- server.Serve(context.Background()) }()

	resp, err := http.Get(server.URL("/ping"))
	require.NoError(t, err)
	resp.Body.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case err := <-served:
		require.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after shutdown")
	}
}
