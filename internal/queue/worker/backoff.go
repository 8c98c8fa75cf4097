package worker

import (
	"math/rand/v2"
	"time"
)

const (
	backoffBase = time.Second
	backoffCap  = 30 * time.Second
)

// ExponentialBackoff is the delay before retry number attempt+1 of a report
// job: 1s, 2s, 4s ... capped at 30s, plus up to 10% jitter so jobs that
// failed together do not retry together. Someone is usually waiting on the
// download, so the cap stays short.
func ExponentialBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := backoffCap
	if attempt < 5 {
		delay = min(backoffBase<<attempt, backoffCap)
	}

	return delay + rand.N(delay/10+1)
}
