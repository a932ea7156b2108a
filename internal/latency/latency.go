package latency

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/models"
)

// Simulator stands in for the network cost of a backend call.
type Simulator interface {
	// Wait blocks for the simulated delay. It returns ctx.Err() when the
	// context ends first and an error wrapping models.ErrTransient when an
	// injected failure fires.
	Wait(ctx context.Context) error
}

// None never waits and never fails. Tests use it.
type None struct{}

func (None) Wait(ctx context.Context) error {
	return ctx.Err()
}

// Random sleeps for a uniform duration in [Min, Max] and fails with
// probability FailureRate (0.0 to 1.0).
type Random struct {
	Min         time.Duration
	Max         time.Duration
	FailureRate float64

	mu   sync.Mutex
	rand *rand.Rand
}

// NewRandom returns a Random simulator. A zero seed picks one from the clock.
func NewRandom(min, max time.Duration, failureRate float64, seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if max < min {
		max = min
	}
	return &Random{
		Min:         min,
		Max:         max,
		FailureRate: failureRate,
		rand:        rand.New(rand.NewSource(seed)),
	}
}

func (r *Random) Wait(ctx context.Context) error {
	delay, fail := r.draw()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	if fail {
		return fmt.Errorf("backend temporarily unavailable: %w", models.ErrTransient)
	}
	return nil
}

func (r *Random) draw() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rand == nil {
		r.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	delay := r.Min
	if span := r.Max - r.Min; span > 0 {
		delay += time.Duration(r.rand.Int63n(int64(span) + 1))
	}
	return delay, r.rand.Float64() < r.FailureRate
}
