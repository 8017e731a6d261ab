package events

import (
	"time"

	"github.com/sweeney/mode-button/internal/logic"
)

// Event type constants for kelindar/event.
const (
	TypePhaseChanged uint32 = iota + 1
	TypeBlinkCounted
	TypeActionDecided
	TypeConnectivityProbed
	TypeStatusRendered
	TypeRenderSkipped
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// PhaseChanged is emitted on every classifier phase transition.
type PhaseChanged struct {
	Phase logic.Phase
	At    time.Time
}

// Type returns the event type identifier for PhaseChanged.
func (e PhaseChanged) Type() uint32 { return TypePhaseChanged }

// BlinkCounted is emitted after each full blink cycle of a hold.
type BlinkCounted struct {
	Count int
	At    time.Time
}

// Type returns the event type identifier for BlinkCounted.
func (e BlinkCounted) Type() uint32 { return TypeBlinkCounted }

// ActionDecided is emitted once the decided action has been dispatched.
type ActionDecided struct {
	Decision logic.Decision
	Err      string // dispatch error, empty on success
}

// Type returns the event type identifier for ActionDecided.
func (e ActionDecided) Type() uint32 { return TypeActionDecided }

// ConnectivityProbed is emitted after every heartbeat probe.
type ConnectivityProbed struct {
	State logic.Connectivity
	At    time.Time
}

// Type returns the event type identifier for ConnectivityProbed.
func (e ConnectivityProbed) Type() uint32 { return TypeConnectivityProbed }

// StatusRendered is emitted when the heartbeat has blinked the LED.
type StatusRendered struct {
	State logic.Connectivity
	At    time.Time
}

// Type returns the event type identifier for StatusRendered.
func (e StatusRendered) Type() uint32 { return TypeStatusRendered }

// RenderSkipped is emitted when the heartbeat could not take the LED.
type RenderSkipped struct {
	Holder string
	At     time.Time
}

// Type returns the event type identifier for RenderSkipped.
func (e RenderSkipped) Type() uint32 { return TypeRenderSkipped }
