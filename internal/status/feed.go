package status

import "github.com/sweeney/mode-button/internal/events"

// Attach subscribes the tracker to bus and returns a function that detaches it.
func (t *Tracker) Attach(bus *events.Bus) func() {
	unsubs := []func(){
		events.Subscribe(bus, func(e events.PhaseChanged) { t.SetPhase(e.Phase) }),
		events.Subscribe(bus, func(e events.BlinkCounted) { t.SetBlinkCount(e.Count) }),
		events.Subscribe(bus, func(e events.ActionDecided) { t.RecordDecision(e.Decision, e.Err) }),
		events.Subscribe(bus, func(e events.ConnectivityProbed) { t.SetConnectivity(e.State, e.At) }),
		events.Subscribe(bus, func(e events.StatusRendered) { t.RecordRender(e.At) }),
		events.Subscribe(bus, func(e events.RenderSkipped) { t.RecordSkip() }),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
