// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/mode-button/internal/logic"
)

// Topics used by the daemon.
const (
	TopicActions = "mode-button/actions"
	TopicNetwork = "mode-button/network"
	TopicSystem  = "mode-button/system"
)

// Publisher publishes daemon events to MQTT.
type Publisher interface {
	// PublishDecision sends a button decision and its dispatch outcome.
	// Returns error if publishing fails (should not crash the process).
	PublishDecision(d logic.Decision, dispatchErr string) error

	// PublishNetwork sends a connectivity change.
	PublishNetwork(c logic.Connectivity, at time.Time) error

	// PublishSystem sends a system lifecycle event.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "OFFLINE"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// DecisionPayload is the MQTT message for a button decision.
type DecisionPayload struct {
	Button DecisionInner `json:"button"`
}

// DecisionInner contains the decision details.
type DecisionInner struct {
	Timestamp  string `json:"timestamp"`
	Action     string `json:"action"`
	BlinkCount int    `json:"blink_count"`
	HeldMs     int64  `json:"held_ms"`
	Error      string `json:"error,omitempty"`
}

// FormatDecisionPayload creates the JSON payload for a decision.
func FormatDecisionPayload(d logic.Decision, dispatchErr string) ([]byte, error) {
	return json.Marshal(DecisionPayload{
		Button: DecisionInner{
			Timestamp:  d.Timestamp.UTC().Format(time.RFC3339),
			Action:     string(d.Action),
			BlinkCount: d.BlinkCount,
			HeldMs:     d.Held.Milliseconds(),
			Error:      dispatchErr,
		},
	})
}

// NetworkPayload is the MQTT message for a connectivity change.
type NetworkPayload struct {
	Network NetworkInner `json:"network"`
}

// NetworkInner contains the connectivity details.
type NetworkInner struct {
	Timestamp string `json:"timestamp"`
	State     string `json:"state"`
}

// FormatNetworkPayload creates the JSON payload for a connectivity change.
func FormatNetworkPayload(c logic.Connectivity, at time.Time) ([]byte, error) {
	return json.Marshal(NetworkPayload{
		Network: NetworkInner{
			Timestamp: at.UTC().Format(time.RFC3339),
			State:     string(c),
		},
	})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	inner := SystemPayloadInner{
		Event:  event.Event,
		Reason: event.Reason,
	}
	if !event.Timestamp.IsZero() {
		inner.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(SystemPayload{System: inner})
}
