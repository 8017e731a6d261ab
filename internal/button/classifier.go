// Package button runs the hold classifier: it samples the button, blinks the
// LED once per second while the button is held, and dispatches an action
// chosen by the number of blinks when it is released.
package button

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/mode-button/internal/events"
	"github.com/sweeney/mode-button/internal/gpio"
	"github.com/sweeney/mode-button/internal/led"
	"github.com/sweeney/mode-button/internal/logic"
)

// Owner is the arbiter owner name used by the classifier.
const Owner = "button"

// Timing controls the classifier loop.
type Timing struct {
	Poll     time.Duration // idle sampling period
	Blink    time.Duration // LED on time and off time; one cycle = 2*Blink
	Cooldown time.Duration // pause after a decision
}

// DefaultTiming gives one counted blink per second of hold.
var DefaultTiming = Timing{
	Poll:     100 * time.Millisecond,
	Blink:    500 * time.Millisecond,
	Cooldown: 2 * time.Second,
}

// Dispatcher runs the command for an action.
type Dispatcher interface {
	Dispatch(ctx context.Context, a logic.Action) error
}

// Classifier is the button state machine: Idle -> Holding -> Deciding -> Cooldown -> Idle.
type Classifier struct {
	input      gpio.Input
	arb        *led.Arbiter
	dispatcher Dispatcher
	thresholds logic.Thresholds
	timing     Timing
	bus        *events.Bus
	now        func() time.Time
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTiming overrides DefaultTiming.
func WithTiming(t Timing) Option {
	return func(c *Classifier) { c.timing = t }
}

// WithThresholds overrides logic.DefaultThresholds.
func WithThresholds(th logic.Thresholds) Option {
	return func(c *Classifier) { c.thresholds = th }
}

// WithBus publishes classifier events on bus.
func WithBus(bus *events.Bus) Option {
	return func(c *Classifier) { c.bus = bus }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// New creates a Classifier reading input and blinking through arb.
func New(input gpio.Input, arb *led.Arbiter, dispatcher Dispatcher, opts ...Option) *Classifier {
	c := &Classifier{
		input:      input,
		arb:        arb,
		dispatcher: dispatcher,
		thresholds: logic.DefaultThresholds,
		timing:     DefaultTiming,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run polls the button until ctx is done. Any phase can be interrupted;
// the LED is switched off and the arbiter released before Run returns.
func (c *Classifier) Run(ctx context.Context) {
	c.setPhase(logic.PhaseIdle)
	for {
		pressed, err := c.input.Pressed()
		if err != nil {
			log.Printf("button: read error: %v", err)
		} else if pressed {
			if !c.handlePress(ctx) {
				return
			}
		}

		if !sleep(ctx, c.timing.Poll) {
			return
		}
	}
}

// handlePress runs one Holding -> Deciding -> Cooldown cycle.
// It returns false if ctx was cancelled.
func (c *Classifier) handlePress(ctx context.Context) bool {
	c.setPhase(logic.PhaseHolding)

	tok, err := c.arb.Acquire(ctx, Owner)
	if err != nil {
		return false
	}

	session := logic.NewHoldSession(c.now())
	log.Printf("button: pressed, counting blinks")

	completed := c.blinkWhileHeld(ctx, tok, session)

	if err := tok.Set(false); err != nil {
		log.Printf("button: LED off error: %v", err)
	}
	tok.Release()

	if !completed {
		return false
	}

	log.Printf("button: released after %d blinks", session.BlinkCount)

	c.setPhase(logic.PhaseDeciding)
	decision := session.Decide(c.thresholds, c.now())
	c.dispatch(ctx, decision)
	if ctx.Err() != nil {
		return false
	}

	c.setPhase(logic.PhaseCooldown)
	log.Printf("button: cooldown %v", c.timing.Cooldown)
	if !sleep(ctx, c.timing.Cooldown) {
		return false
	}

	c.setPhase(logic.PhaseIdle)
	return true
}

// blinkWhileHeld runs full on/off cycles until the button is released.
// A read error is treated as a release. It returns false if ctx was cancelled.
func (c *Classifier) blinkWhileHeld(ctx context.Context, tok *led.Token, session *logic.HoldSession) bool {
	for {
		pressed, err := c.input.Pressed()
		if err != nil {
			log.Printf("button: read error while held, treating as release: %v", err)
			return true
		}
		if !pressed {
			return true
		}

		if err := tok.Set(true); err != nil {
			log.Printf("button: LED on error: %v", err)
		}
		if !sleep(ctx, c.timing.Blink) {
			return false
		}
		if err := tok.Set(false); err != nil {
			log.Printf("button: LED off error: %v", err)
		}
		if !sleep(ctx, c.timing.Blink) {
			return false
		}

		n := session.Blink()
		log.Printf("button: blink %d (%ds)", n, n)
		events.Publish(c.bus, events.BlinkCounted{Count: n, At: c.now()})
	}
}

func (c *Classifier) dispatch(ctx context.Context, d logic.Decision) {
	if d.Action == logic.ActionNone {
		log.Printf("button: %d blinks -> no action (minimum %d blinks required)", d.BlinkCount, c.thresholds.Client)
	} else {
		log.Printf("button: %d blinks -> %s", d.BlinkCount, d.Action)
	}

	ev := events.ActionDecided{Decision: d}
	if err := c.dispatcher.Dispatch(ctx, d.Action); err != nil {
		log.Printf("button: dispatch %s failed: %v", d.Action, err)
		ev.Err = err.Error()
	}
	events.Publish(c.bus, ev)
}

func (c *Classifier) setPhase(p logic.Phase) {
	events.Publish(c.bus, events.PhaseChanged{Phase: p, At: c.now()})
}

// sleep waits for d or until ctx is done. It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
