// Package heartbeat periodically blinks the network status onto the LED.
//
// It only ever tries the LED arbiter; when the button holds the LED the
// cycle is skipped, so the heartbeat can never delay button feedback.
package heartbeat

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/mode-button/internal/events"
	"github.com/sweeney/mode-button/internal/led"
	"github.com/sweeney/mode-button/internal/logic"
)

// Owner is the arbiter owner name used by the heartbeat.
const Owner = "heartbeat"

// Defaults for the heartbeat.
const (
	DefaultCheckInterval  = 3 * time.Second
	DefaultRenderInterval = 5 * time.Second
)

// Prober reports the current connectivity. Implementations must bound
// their own run time.
type Prober interface {
	Probe(ctx context.Context) logic.Connectivity
}

// Heartbeat renders connectivity on the LED at most once per render interval.
type Heartbeat struct {
	prober  Prober
	arb     *led.Arbiter
	gate    *logic.RenderGate
	pattern logic.PatternTiming
	bus     *events.Bus
	now     func() time.Time

	last logic.Connectivity
}

// Option configures a Heartbeat.
type Option func(*Heartbeat)

// WithPattern overrides logic.DefaultPatternTiming.
func WithPattern(p logic.PatternTiming) Option {
	return func(h *Heartbeat) { h.pattern = p }
}

// WithBus publishes heartbeat events on bus.
func WithBus(bus *events.Bus) Option {
	return func(h *Heartbeat) { h.bus = bus }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *Heartbeat) { h.now = now }
}

// New creates a Heartbeat that renders at most once per renderInterval.
func New(prober Prober, arb *led.Arbiter, renderInterval time.Duration, opts ...Option) *Heartbeat {
	h := &Heartbeat{
		prober:  prober,
		arb:     arb,
		gate:    logic.NewRenderGate(renderInterval),
		pattern: logic.DefaultPatternTiming,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run performs one check per tick until ctx is done.
func (h *Heartbeat) Run(ctx context.Context, tick <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			h.Check(ctx)
		}
	}
}

// Check probes connectivity and, if the LED is free and a render is due,
// blinks the state. A panic inside a check is logged and swallowed.
func (h *Heartbeat) Check(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("heartbeat: recovered from fault: %v", r)
		}
	}()

	state := h.prober.Probe(ctx)
	if ctx.Err() != nil {
		// killed probes read as Disconnected; don't report or render them
		return
	}
	if state != h.last {
		log.Printf("heartbeat: network %s", state)
		h.last = state
	}
	events.Publish(h.bus, events.ConnectivityProbed{State: state, At: h.now()})

	tok, ok := h.arb.TryAcquire(Owner)
	if !ok {
		holder := h.arb.Holder()
		log.Printf("heartbeat: LED busy (%s), skipping", holder)
		events.Publish(h.bus, events.RenderSkipped{Holder: holder, At: h.now()})
		return
	}
	defer tok.Release()

	now := h.now()
	if !h.gate.Due(now) {
		return
	}

	if err := led.Render(ctx, tok, logic.PatternFor(state, h.pattern)); err != nil {
		if ctx.Err() == nil {
			log.Printf("heartbeat: render error: %v", err)
		}
		return
	}
	h.gate.Mark(now)
	events.Publish(h.bus, events.StatusRendered{State: state, At: now})
}
