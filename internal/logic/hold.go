package logic

import "time"

// Thresholds are the minimum blink counts for each action.
type Thresholds struct {
	Client int
	AP     int
	Reboot int
}

// DefaultThresholds: one blink cycle is one second of hold.
var DefaultThresholds = Thresholds{
	Client: 5,
	AP:     10,
	Reboot: 15,
}

// Classify maps a blink count to an action.
// The highest threshold is checked first so a count that satisfies several
// thresholds resolves to the larger action.
func (th Thresholds) Classify(blinks int) Action {
	switch {
	case blinks >= th.Reboot:
		return ActionReboot
	case blinks >= th.AP:
		return ActionSwitchAP
	case blinks >= th.Client:
		return ActionSwitchClient
	default:
		return ActionNone
	}
}

// HoldSession tracks a single press from assertion to release.
type HoldSession struct {
	Start      time.Time
	BlinkCount int
}

// NewHoldSession starts a session at the given press time.
func NewHoldSession(start time.Time) *HoldSession {
	return &HoldSession{Start: start}
}

// Blink records one completed on/off cycle and returns the new count.
func (s *HoldSession) Blink() int {
	s.BlinkCount++
	return s.BlinkCount
}

// Decide closes the session at release time and classifies it.
func (s *HoldSession) Decide(th Thresholds, released time.Time) Decision {
	return Decision{
		Timestamp:  released,
		Action:     th.Classify(s.BlinkCount),
		BlinkCount: s.BlinkCount,
		Held:       released.Sub(s.Start),
	}
}
