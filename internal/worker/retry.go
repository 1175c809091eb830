package worker

import (
	"math"
	"time"
)

// RetryPolicy controls exponential backoff between task attempts.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay computes the pause before the given attempt, counting from 1.
// Zero-valued fields fall back to one second doubling.
func (p RetryPolicy) NextDelay(attempt int) time.Duration {
	base := p.InitialDelay
	if base <= 0 {
		base = time.Second
	}
	factor := p.BackoffFactor
	if factor <= 0 {
		factor = 2
	}
	if attempt < 1 {
		attempt = 1
	}

	d := time.Duration(float64(base) * math.Pow(factor, float64(attempt-1)))
	if d <= 0 {
		return time.Second
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}
