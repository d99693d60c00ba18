package sources

import (
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy bounds retries of network operations
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first
	Attempts      uint64
	Delay         time.Duration
	MaxDelay      time.Duration
	JitterPercent uint64
}

// DefaultRetryPolicy matches the shipped configuration defaults
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:      3,
		Delay:         time.Second,
		MaxDelay:      10 * time.Second,
		JitterPercent: 10,
	}
}

// backoff creates the exponential backoff for one operation
func (p RetryPolicy) backoff() retry.Backoff {
	retries := uint64(0)
	if p.Attempts > 1 {
		retries = p.Attempts - 1
	}
	delay := p.Delay
	if delay <= 0 {
		delay = time.Second
	}

	b := retry.NewExponential(delay)
	b = retry.WithMaxRetries(retries, b)
	if p.MaxDelay > 0 {
		b = retry.WithCappedDuration(p.MaxDelay, b)
	}
	if p.JitterPercent > 0 {
		b = retry.WithJitterPercent(p.JitterPercent, b)
	}
	return b
}
