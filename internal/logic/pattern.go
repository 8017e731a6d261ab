package logic

import "time"

// PatternTiming describes the connectivity blink patterns.
type PatternTiming struct {
	On  time.Duration // duration of each flash
	Gap time.Duration // pause between flashes of a double blink
}

// DefaultPatternTiming is a 200ms flash with a 100ms gap.
var DefaultPatternTiming = PatternTiming{
	On:  200 * time.Millisecond,
	Gap: 100 * time.Millisecond,
}

// PatternFor returns the pulses that render a connectivity state.
// Connected is a single flash, anything else a double flash.
func PatternFor(c Connectivity, timing PatternTiming) []Pulse {
	if c == Connected {
		return []Pulse{{On: timing.On}}
	}
	return []Pulse{
		{On: timing.On, Gap: timing.Gap},
		{On: timing.On},
	}
}

// RenderGate rate-limits status renders.
type RenderGate struct {
	interval   time.Duration
	lastRender time.Time
}

// NewRenderGate creates a gate that opens at most once per interval.
// The first check is always due.
func NewRenderGate(interval time.Duration) *RenderGate {
	return &RenderGate{interval: interval}
}

// Due reports whether at least the interval has elapsed since the last render.
func (g *RenderGate) Due(now time.Time) bool {
	if g.lastRender.IsZero() {
		return true
	}
	return now.Sub(g.lastRender) >= g.interval
}

// Mark records a successful render at now.
func (g *RenderGate) Mark(now time.Time) {
	g.lastRender = now
}

// LastRender returns the time of the last successful render (zero if none).
func (g *RenderGate) LastRender() time.Time {
	return g.lastRender
}
