package connectivity

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollingReporter(t *testing.T) {
	var online atomic.Bool
	changes := make(chan State, 8)

	r := NewReporter(&Config{
		Probe: func(ctx context.Context) (bool, error) {
			return online.Load(), nil
		},
		Interval: 5 * time.Millisecond,
		OnChange: func(s State) {
			changes <- s
		},
	})
	r.Start()
	defer r.Stop()

	assert.Equal(t, Offline, r.CurrentState())

	online.Store(true)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.True(t, r.WaitForStateChange(ctx, Offline))
	assert.Equal(t, Online, r.CurrentState())
	assert.Equal(t, Online, <-changes)
}

func TestPollingReporterProbeError(t *testing.T) {
	r := NewReporter(&Config{
		Probe: func(ctx context.Context) (bool, error) {
			return true, errors.New("node locked")
		},
		Interval: 5 * time.Millisecond,
	})
	r.Start()
	defer r.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.False(t, r.WaitForStateChange(ctx, Offline))
	assert.Equal(t, Offline, r.CurrentState())
}
