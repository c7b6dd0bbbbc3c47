package signal

import (
	"context"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// waitDone fails the test if ctx is not cancelled within a second.
func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("context was not cancelled within timeout")
	}
}

// TestWithInterrupt_SignalsCallCallback verifies that SIGINT and SIGTERM trigger the callback and cancel the context
func TestWithInterrupt_SignalsCallCallback(t *testing.T) {
	for _, sig := range []syscall.Signal{syscall.SIGINT, syscall.SIGTERM} {
		t.Run(sig.String(), func(t *testing.T) {
			var (
				mu  sync.Mutex
				got []os.Signal
			)
			ctx, h := WithInterrupt(context.Background(), func(s os.Signal) {
				mu.Lock()
				got = append(got, s)
				mu.Unlock()
			})
			defer h.Stop()

			require.NoError(t, syscall.Kill(os.Getpid(), sig))
			waitDone(t, ctx)
			h.Stop()

			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, []os.Signal{sig}, got)
			assert.True(t, h.Interrupted())
			assert.Equal(t, sig, h.Signal())
			assert.Equal(t, context.Canceled, ctx.Err())
		})
	}
}

// TestWithInterrupt_StopWithoutSignal verifies that Stop cancels quietly and releases the goroutine
func TestWithInterrupt_StopWithoutSignal(t *testing.T) {
	defer goleak.VerifyNone(t)

	called := false
	ctx, h := WithInterrupt(context.Background(), func(os.Signal) { called = true })
	h.Stop()
	h.Stop()

	waitDone(t, ctx)
	assert.False(t, called, "onInterrupt should not be called without a signal")
	assert.False(t, h.Interrupted())
	assert.Nil(t, h.Signal())
}

// TestWithInterrupt_ParentCancellation verifies the handler follows its parent context
func TestWithInterrupt_ParentCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	parent, cancel := context.WithCancel(context.Background())
	ctx, h := WithInterrupt(parent, nil)
	defer h.Stop()

	cancel()
	waitDone(t, ctx)
	h.Stop()
	assert.False(t, h.Interrupted())
}

// TestWithInterrupt_NilCallback verifies the handler works without a callback
func TestWithInterrupt_NilCallback(t *testing.T) {
	ctx, h := WithInterrupt(context.Background(), nil)
	defer h.Stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))
	waitDone(t, ctx)
}
