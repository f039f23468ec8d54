package feed_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"touchtrack/feed"
	"touchtrack/model"
)

func TestNewLoop(t *testing.T) {
	_, err := feed.NewLoop(nil, nil, nil, nil, testTrackerConfig())
	assert.Error(t, err)

	loop, err := feed.NewLoop(testDetector(), nil, nil, nil, testTrackerConfig())
	require.NoError(t, err)
	assert.NotNil(t, loop.Scheduler())
}

func TestLoopDeliver(t *testing.T) {
	sink := &recordingSink{}
	loop, err := feed.NewLoop(testDetector(), nil, sink, nil, testTrackerConfig())
	require.NoError(t, err)

	// Two pointers interleaved: each gets its own state machine.
	events := []*model.TouchEvent{
		{PointerID: 0, Type: model.TouchDown, X: 10, Y: 10, Time: 1000},
		{PointerID: 1, Type: model.TouchDown, X: 50, Y: 10, Time: 1010},
		{PointerID: 1, Type: model.TouchUp, X: 50, Y: 10, Time: 1100},
	}

	for _, ev := range events {
		require.NoError(t, loop.Deliver(ev))
	}

	// Pointer 1's up force-resolved pointer 0 first.
	assert.Equal(t, []string{
		"press(97)",
		"press(98)",
		"code(97)",
		"release(97)",
		"code(98)",
		"release(98)",
	}, sink.Calls)
}

func TestLoopRun(t *testing.T) {
	t.Run("decodes a trace and stops at end of input", func(t *testing.T) {
		sink := &recordingSink{}
		loop, err := feed.NewLoop(testDetector(), nil, sink, nil, testTrackerConfig())
		require.NoError(t, err)

		lines := make(chan string, 8)
		lines <- "*** Booting Zephyr OS build v3.5.0 ***"
		lines <- "[00:00:01.000] <dbg> touch: sample: id: 0, type: down, x: 10, y: 10, t: 1000"
		lines <- "[00:00:01.050] <dbg> touch: sample: id: 0, type: up, x: 10, y: 10, t: 1050"
		close(lines)

		require.NoError(t, loop.Run(context.Background(), lines))
		assert.Equal(t, []string{"press(97)", "code(97)", "release(97)"}, sink.Calls)
	})

	t.Run("skips malformed lines", func(t *testing.T) {
		sink := &recordingSink{}
		loop, err := feed.NewLoop(testDetector(), nil, sink, nil, testTrackerConfig())
		require.NoError(t, err)

		lines := make(chan string, 8)
		lines <- "id: zero, type: down, x: 10, y: 10, t: 1000"
		lines <- "[00:00:01.000] <dbg> touch: sample: id: 0, type: down, x: 50, y: 10, t: 1000"
		lines <- "[00:00:01.050] <dbg> touch: sample: id: 0, type: up, x: 50, y: 10, t: 1050"
		close(lines)

		require.NoError(t, loop.Run(context.Background(), lines))
		assert.Equal(t, []string{"press(98)", "code(98)", "release(98)"}, sink.Calls)
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		loop, err := feed.NewLoop(testDetector(), nil, nil, nil, testTrackerConfig())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		lines := make(chan string)
		assert.ErrorIs(t, loop.Run(ctx, lines), context.Canceled)
	})

	t.Run("runs posted timer closures on the loop", func(t *testing.T) {
		loop, err := feed.NewLoop(testDetector(), nil, nil, nil, testTrackerConfig())
		require.NoError(t, err)

		ran := make(chan struct{})
		loop.Post(func() { close(ran) })

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		lines := make(chan string)
		go func() {
			<-ran
			cancel()
		}()

		done := make(chan error, 1)
		go func() { done <- loop.Run(ctx, lines) }()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("loop never stopped")
		}
	})
}
