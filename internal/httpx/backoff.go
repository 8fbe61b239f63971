package httpx

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Backoff computes exponential delays with optional jitter.
type Backoff struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Jitter    float64

	mu   sync.Mutex
	rand *rand.Rand
}

// NewBackoff returns a Backoff with sane floors applied.
func NewBackoff(base, max time.Duration, jitter float64) *Backoff {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	if max <= 0 {
		max = time.Second
	}
	if jitter < 0 {
		jitter = 0
	}
	return &Backoff{
		BaseDelay: base,
		MaxDelay:  max,
		Jitter:    jitter,
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ForAttempt returns the delay for the given attempt (0-indexed), doubling
// per attempt, capped at MaxDelay, with +/- Jitter applied.
func (b *Backoff) ForAttempt(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := float64(b.BaseDelay) * math.Pow(2, float64(attempt))
	if d > float64(b.MaxDelay) {
		d = float64(b.MaxDelay)
	}
	if b.Jitter > 0 {
		b.mu.Lock()
		f := 1 + b.Jitter*(2*b.rand.Float64()-1)
		b.mu.Unlock()
		d *= f
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
