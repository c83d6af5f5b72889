package https

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestStartServerShutsDownOnCancel(t *testing.T) {
	closed := make(chan struct{})
	storage := closerFunc(func() error {
		close(closed)
		return nil
	})
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- StartServer(ctx, srv, storage, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	select {
	case <-closed:
	default:
		t.Fatal("storage was not closed")
	}
}

func TestStartServerReportsCloseError(t *testing.T) {
	storage := closerFunc(func() error { return errors.New("boom") })
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := StartServer(ctx, srv, storage, time.Second)
	require.Error(t, err)
	assert.ErrorContains(t, err, "error closing storage: boom")
}

func TestStartServerListenFailure(t *testing.T) {
	storage := closerFunc(func() error { return nil })
	srv := &http.Server{Addr: "invalid-address", Handler: http.NotFoundHandler()}
	err := StartServer(context.Background(), srv, storage, time.Second)
	require.Error(t, err)
	assert.ErrorContains(t, err, "server ListenAndServe failed")
}
