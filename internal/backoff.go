package internal

import (
	"math/rand/v2"
	"time"
)

// Backoff is the idle policy of a polling loop: when an iteration found no
// work, the loop sleeps a pseudo-random duration in [min, max) before the
// next attempt. A Backoff belongs to a single goroutine.
type Backoff struct {
	min, max time.Duration
	rng      *rand.Rand
}

func NewBackoff(min, max time.Duration, seed uint64) (*Backoff, error) {
	if min > max {
		return nil, errInvalidBackoff
	}
	b := &Backoff{
		min: min,
		max: max,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	return b, nil
}

// Next returns the next idle duration without sleeping.
func (b *Backoff) Next() time.Duration {
	if span := b.max - b.min; span > 0 {
		return b.min + time.Duration(b.rng.Int64N(int64(span)))
	}
	return b.min
}

func (b *Backoff) Idle() {
	time.Sleep(b.Next())
}
