// Package logic contains the pure decision logic of the mode button.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Action is a system action selected by the length of a button hold.
type Action string

const (
	ActionNone         Action = "NONE"
	ActionSwitchClient Action = "SWITCH_CLIENT"
	ActionSwitchAP     Action = "SWITCH_AP"
	ActionReboot       Action = "REBOOT"
)

// Connectivity is the network attachment state of the wireless interface.
type Connectivity string

const (
	Connected    Connectivity = "CONNECTED"
	Disconnected Connectivity = "DISCONNECTED"
)

// Phase is the current phase of the button classifier.
type Phase string

const (
	PhaseIdle     Phase = "IDLE"
	PhaseHolding  Phase = "HOLDING"
	PhaseDeciding Phase = "DECIDING"
	PhaseCooldown Phase = "COOLDOWN"
)

// Decision is the outcome of a finished hold.
type Decision struct {
	Timestamp  time.Time
	Action     Action
	BlinkCount int
	Held       time.Duration
}

// Pulse is a single LED flash: on for On, then off for Gap before the next pulse.
type Pulse struct {
	On  time.Duration
	Gap time.Duration
}
