package crawler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
)

func TestNewMemoryGate_Defaults(t *testing.T) {
	g, err := NewMemoryGate(MemoryGateConfig{})
	require.NoError(t, err)
	assert.Equal(t, uint64(DefaultMemoryBudget), g.budget)
	assert.Equal(t, DefaultHighWater, g.high)
	assert.Equal(t, DefaultLowWater, g.low)
	assert.False(t, g.Paused())
}

func TestNewMemoryGate_InvalidWaterMarks(t *testing.T) {
	tests := []struct {
		name string
		cfg  MemoryGateConfig
	}{
		{"low above high", MemoryGateConfig{LowWater: 0.9, HighWater: 0.5}},
		{"high above one", MemoryGateConfig{LowWater: 0.5, HighWater: 1.5}},
		{"equal marks", MemoryGateConfig{LowWater: 0.8, HighWater: 0.8}},
		{"negative low", MemoryGateConfig{LowWater: -0.1, HighWater: 0.9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMemoryGate(tt.cfg)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestMemoryGate_Hysteresis(t *testing.T) {
	g, err := NewMemoryGate(MemoryGateConfig{
		Budget:    1000,
		HighWater: 0.90,
		LowWater:  0.75,
	})
	require.NoError(t, err)

	// Below high-water: stays open.
	g.update(800)
	assert.False(t, g.Paused())

	// Above high-water: closes.
	g.update(950)
	assert.True(t, g.Paused())
	assert.Equal(t, int64(1), g.PauseCount())

	// Between the marks: stays closed. This is the hysteresis band.
	g.update(800)
	assert.True(t, g.Paused())

	// Below low-water: reopens.
	g.update(700)
	assert.False(t, g.Paused())

	// A second spike closes it again and counts again.
	g.update(950)
	assert.True(t, g.Paused())
	assert.Equal(t, int64(2), g.PauseCount())
}

func TestMemoryGate_WaitOpenGateReturnsImmediately(t *testing.T) {
	g, err := NewMemoryGate(MemoryGateConfig{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- g.Wait(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait blocked on an open gate")
	}
}

func TestMemoryGate_WaitBlocksUntilReopened(t *testing.T) {
	g, err := NewMemoryGate(MemoryGateConfig{Budget: 1000})
	require.NoError(t, err)

	g.update(950)
	require.True(t, g.Paused())

	done := make(chan error, 1)
	go func() { done <- g.Wait(context.Background()) }()

	select {
	case <-done:
		t.Fatal("Wait returned while the gate was closed")
	case <-time.After(50 * time.Millisecond):
	}

	g.update(100)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after the gate reopened")
	}
}

func TestMemoryGate_WaitCancellable(t *testing.T) {
	g, err := NewMemoryGate(MemoryGateConfig{Budget: 1000})
	require.NoError(t, err)

	g.update(950)
	require.True(t, g.Paused())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Wait(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Wait ignored cancellation")
	}
}

func TestMemoryGate_SamplerDrivesState(t *testing.T) {
	g, err := NewMemoryGate(MemoryGateConfig{
		Budget:         1000,
		SampleInterval: time.Millisecond,
	})
	require.NoError(t, err)

	var used atomic.Uint64
	used.Store(950)
	g.sample = used.Load

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go g.Run(ctx)

	require.Eventually(t, g.Paused, time.Second, time.Millisecond)

	used.Store(100)
	require.Eventually(t, func() bool { return !g.Paused() }, time.Second, time.Millisecond)
}
