// ABOUTME: Backoff calculation for retried remote calls
// ABOUTME: Used by the write queue for transient failure retries
package util

import (
	"math/rand"
	"time"
)

// Backoff returns the delay before retry attempt n (1-based): exponential
// doubling from base, capped at max, with random jitter of ±25% so retries
// from concurrent lanes do not align.
func Backoff(base time.Duration, attempt int, max time.Duration) time.Duration {
	if attempt <= 0 || base <= 0 {
		return 0
	}
	// Cap the shift to avoid overflow.
	if attempt > 30 {
		attempt = 30
	}
	d := base * time.Duration(1<<uint(attempt))
	if max > 0 && d > max {
		d = max
	}
	jitter := time.Duration(rand.Int63n(int64(d)/2)) - d/4
	return d + jitter
}
