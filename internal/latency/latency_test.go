package latency

import (
	"context"
	"testing"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNone(t *testing.T) {
	assert.NoError(t, None{}.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, None{}.Wait(ctx), context.Canceled)
}

func TestRandom_AlwaysFails(t *testing.T) {
	sim := NewRandom(0, 0, 1, 42)
	err := sim.Wait(context.Background())
	assert.ErrorIs(t, err, models.ErrTransient)
	assert.Equal(t, models.KindTransient, models.Classify(err))
}

func TestRandom_NeverFails(t *testing.T) {
	sim := NewRandom(time.Millisecond, 2*time.Millisecond, 0, 42)
	for i := 0; i < 5; i++ {
		assert.NoError(t, sim.Wait(context.Background()))
	}
}

func TestRandom_ContextCanceledDuringDelay(t *testing.T) {
	sim := NewRandom(time.Minute, time.Minute, 0, 42)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := sim.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRandom_MaxBelowMin(t *testing.T) {
	sim := NewRandom(2*time.Millisecond, time.Millisecond, 0, 1)
	assert.Equal(t, sim.Min, sim.Max)
}
