package framework

import (
	"context"
	"errors"
	"io"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil, nil).Aggregate())

	first, second := errors.New("first"), errors.New("second")
	errs.Add(first)
	require.Equal(t, "first", errs.Aggregate().Error())
	errs.Add(nil, second)
	err := errs.Aggregate()
	require.Equal(t, "multiple errors: first; second", err.Error())
	require.ErrorIs(t, err, second)
}

func TestRunnerStopsOnFirstExit(t *testing.T) {
	failure := errors.New("failure")
	r := NewRunner()
	r.Go(
		NamedRun("waiter", RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})),
		RunFunc(func(context.Context) error {
			return failure
		}),
	)
	done := make(chan error, 1)
	go func() { done <- r.Wait() }()
	select {
	case err := <-done:
		require.ErrorIs(t, err, failure)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}

type closeRecorder struct {
	closed chan struct{}
}

func (c *closeRecorder) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

func TestRunWithContextCloser(t *testing.T) {
	closer := &closeRecorder{closed: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunWithContextCloser(ctx, closer, func() error {
		<-closer.closed
		return io.EOF
	})
	require.Equal(t, context.Canceled, err)

	closer = &closeRecorder{closed: make(chan struct{})}
	err = RunWithContextCloser(context.Background(), closer, func() error {
		return io.EOF
	})
	require.Equal(t, io.EOF, err)
	<-closer.closed
}

func TestRunnerForcedExit(t *testing.T) {
	base := runtime.NumGoroutine()
	release := make(chan struct{})
	r := NewRunner()
	for i := 0; i < 2; i++ {
		r.Go(RunFunc(func(context.Context) error {
			<-release
			return nil
		}))
	}
	r.force()
	require.EqualError(t, r.Wait(), "forced exit")

	// runnables finishing after Wait gave up must not block.
	close(release)
	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= base
	}, time.Second, 10*time.Millisecond)
}
