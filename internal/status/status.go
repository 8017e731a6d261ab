// Package status provides a thread-safe status tracker for the mode-button daemon.
// It is fed from the event bus and read by HTTP handlers and MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/mode-button/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	PinButton    int
	PinLED       int
	Backend      string
	Interface    string
	PollMs       int64
	BlinkMs      int64
	CooldownMs   int64
	CheckMs      int64
	RenderMs     int64
	Broker       string
	HTTPAddr     string
	RebootMethod string
}

// Counters tracks activity since startup.
type Counters struct {
	Presses      int
	Renders      int
	Skips        int
	DispatchErrs int
	Actions      map[logic.Action]int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Phase         logic.Phase
	BlinkCount    int
	LastDecision  *logic.Decision
	LastError     string
	Connectivity  logic.Connectivity
	LastProbe     time.Time
	LastRender    time.Time
	Counters      Counters
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Phase:     logic.PhaseIdle,
			StartTime: startTime,
			Config:    cfg,
			Counters:  Counters{Actions: make(map[logic.Action]int)},
		},
	}
}

// SetPhase records a classifier phase change. Entering HOLDING counts a press
// and resets the blink count.
func (t *Tracker) SetPhase(p logic.Phase) {
	t.mu.Lock()
	if p == logic.PhaseHolding {
		t.snap.Counters.Presses++
		t.snap.BlinkCount = 0
	}
	t.snap.Phase = p
	t.mu.Unlock()
}

// SetBlinkCount records the blink count of the current hold.
func (t *Tracker) SetBlinkCount(n int) {
	t.mu.Lock()
	t.snap.BlinkCount = n
	t.mu.Unlock()
}

// RecordDecision stores the last decision and its dispatch error, if any.
func (t *Tracker) RecordDecision(d logic.Decision, dispatchErr string) {
	t.mu.Lock()
	t.snap.LastDecision = &d
	t.snap.LastError = dispatchErr
	t.snap.Counters.Actions[d.Action]++
	if dispatchErr != "" {
		t.snap.Counters.DispatchErrs++
	}
	t.mu.Unlock()
}

// SetConnectivity records a probe result.
func (t *Tracker) SetConnectivity(c logic.Connectivity, at time.Time) {
	t.mu.Lock()
	t.snap.Connectivity = c
	t.snap.LastProbe = at
	t.mu.Unlock()
}

// RecordRender counts a heartbeat render.
func (t *Tracker) RecordRender(at time.Time) {
	t.mu.Lock()
	t.snap.Counters.Renders++
	t.snap.LastRender = at
	t.mu.Unlock()
}

// RecordSkip counts a heartbeat cycle skipped because the LED was busy.
func (t *Tracker) RecordSkip() {
	t.mu.Lock()
	t.snap.Counters.Skips++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Counters.Actions = make(map[logic.Action]int, len(t.snap.Counters.Actions))
	for k, v := range t.snap.Counters.Actions {
		s.Counters.Actions[k] = v
	}
	if t.snap.LastDecision != nil {
		d := *t.snap.LastDecision
		s.LastDecision = &d
	}
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
