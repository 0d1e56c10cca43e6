package ratelimit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBurstAtLeastOne(t *testing.T) {
	limiter := New("OpenLibrary", 0.5)
	require.NotNil(t, limiter)
	assert.Equal(t, "OpenLibrary", limiter.Name())
	assert.Equal(t, 1, limiter.limiter.Burst())

	limiter = New("OpenLibrary", 3)
	assert.Equal(t, 3, limiter.limiter.Burst())
}

func TestUnlimitedNeverBlocks(t *testing.T) {
	limiter := New("OpenLibrary", 0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 50; i++ {
		require.NoError(t, limiter.Wait(ctx))
	}
}

func TestWaitReturnsContextError(t *testing.T) {
	limiter := New("OpenLibrary", 1)
	// Drain the single token so the next Wait has to block.
	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.Wait(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Contains(t, err.Error(), "OpenLibrary")
}

func TestNilLimiter(t *testing.T) {
	var limiter *Limiter
	assert.NoError(t, limiter.Wait(context.Background()))
	assert.Equal(t, "", limiter.Name())
}

func TestWaitLogsLimiterNameWhenThrottled(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	limiter := New("OpenLibrary", 20)
	for i := 0; i < 20; i++ {
		require.NoError(t, limiter.Wait(context.Background()))
	}
	assert.NotContains(t, buf.String(), "Waiting for rate limit")

	require.NoError(t, limiter.Wait(context.Background()))
	assert.Contains(t, buf.String(), "Waiting for rate limit")
	assert.Contains(t, buf.String(), "limiter=OpenLibrary")
}
