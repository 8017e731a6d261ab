// Package led arbitrates access to the single indicator LED.
//
// Every LED write goes through a Token. Only the current holder's token can
// write, so two activities can never interleave their signals.
package led

import (
	"context"
	"errors"
	"sync"

	"github.com/sweeney/mode-button/internal/gpio"
)

// ErrNotHolder is returned when a released token is used.
var ErrNotHolder = errors.New("led: token is not the current holder")

// Arbiter is a one-slot permit over the LED output.
// It is a mutex, not a queue: there is no fairness between waiters.
type Arbiter struct {
	out gpio.Output
	sem chan struct{}

	mu      sync.Mutex
	current *Token
}

// NewArbiter creates an arbiter guarding out.
func NewArbiter(out gpio.Output) *Arbiter {
	return &Arbiter{
		out: out,
		sem: make(chan struct{}, 1),
	}
}

// TryAcquire takes the permit if it is free. It never blocks.
func (a *Arbiter) TryAcquire(owner string) (*Token, bool) {
	select {
	case a.sem <- struct{}{}:
		return a.grant(owner), true
	default:
		return nil, false
	}
}

// Acquire waits for the permit. It only gives up when ctx is done.
func (a *Arbiter) Acquire(ctx context.Context, owner string) (*Token, error) {
	select {
	case a.sem <- struct{}{}:
		return a.grant(owner), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *Arbiter) grant(owner string) *Token {
	t := &Token{arb: a, owner: owner}
	a.mu.Lock()
	a.current = t
	a.mu.Unlock()
	return t
}

// Holder returns the owner of the outstanding token, or "" if the LED is free.
func (a *Arbiter) Holder() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return ""
	}
	return a.current.owner
}

// Token is the exclusive right to drive the LED.
type Token struct {
	arb   *Arbiter
	owner string
}

// Owner returns the name the token was acquired with.
func (t *Token) Owner() string {
	return t.owner
}

// Set drives the LED. It fails with ErrNotHolder once the token is released.
func (t *Token) Set(on bool) error {
	t.arb.mu.Lock()
	defer t.arb.mu.Unlock()
	if t.arb.current != t {
		return ErrNotHolder
	}
	return t.arb.out.SetLED(on)
}

// Release returns the permit. Releasing twice is a no-op.
func (t *Token) Release() {
	t.arb.mu.Lock()
	if t.arb.current != t {
		t.arb.mu.Unlock()
		return
	}
	t.arb.current = nil
	t.arb.mu.Unlock()
	<-t.arb.sem
}
