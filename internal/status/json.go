package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/mode-button/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string        `json:"event,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	Phase         string        `json:"phase"`
	BlinkCount    int           `json:"blink_count"`
	Network       string        `json:"network"`
	LastProbe     string        `json:"last_probe,omitempty"`
	LastRender    string        `json:"last_render,omitempty"`
	LastDecision  *DecisionJSON `json:"last_decision,omitempty"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	StartTime     string        `json:"start_time"`
	Timestamp     string        `json:"timestamp"`
	MQTT          MQTTStatus    `json:"mqtt"`
	Counts        CountsJSON    `json:"counts"`
	Config        ConfigJSON    `json:"config"`
}

// DecisionJSON is the JSON representation of a decision.
type DecisionJSON struct {
	Action     string `json:"action"`
	BlinkCount int    `json:"blink_count"`
	HeldMs     int64  `json:"held_ms"`
	Timestamp  string `json:"timestamp"`
	Error      string `json:"error,omitempty"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of activity counters.
type CountsJSON struct {
	Presses        int `json:"presses"`
	SwitchClient   int `json:"switch_client"`
	SwitchAP       int `json:"switch_ap"`
	Reboot         int `json:"reboot"`
	NoAction       int `json:"no_action"`
	DispatchErrors int `json:"dispatch_errors"`
	Renders        int `json:"renders"`
	Skips          int `json:"skips"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PinButton    int    `json:"pin_button"`
	PinLED       int    `json:"pin_led"`
	Backend      string `json:"backend"`
	Interface    string `json:"interface"`
	PollMs       int64  `json:"poll_ms"`
	BlinkMs      int64  `json:"blink_ms"`
	CooldownMs   int64  `json:"cooldown_ms"`
	CheckMs      int64  `json:"check_ms"`
	RenderMs     int64  `json:"render_ms"`
	Broker       string `json:"broker"`
	HTTPAddr     string `json:"http_addr"`
	RebootMethod string `json:"reboot_method"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func buildInner(snap Snapshot) StatusInner {
	network := string(snap.Connectivity)
	if network == "" {
		network = "UNKNOWN"
	}

	inner := StatusInner{
		Phase:         string(snap.Phase),
		BlinkCount:    snap.BlinkCount,
		Network:       network,
		LastProbe:     formatTime(snap.LastProbe),
		LastRender:    formatTime(snap.LastRender),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Presses:        snap.Counters.Presses,
			SwitchClient:   snap.Counters.Actions[logic.ActionSwitchClient],
			SwitchAP:       snap.Counters.Actions[logic.ActionSwitchAP],
			Reboot:         snap.Counters.Actions[logic.ActionReboot],
			NoAction:       snap.Counters.Actions[logic.ActionNone],
			DispatchErrors: snap.Counters.DispatchErrs,
			Renders:        snap.Counters.Renders,
			Skips:          snap.Counters.Skips,
		},
		Config: ConfigJSON{
			PinButton:    snap.Config.PinButton,
			PinLED:       snap.Config.PinLED,
			Backend:      snap.Config.Backend,
			Interface:    snap.Config.Interface,
			PollMs:       snap.Config.PollMs,
			BlinkMs:      snap.Config.BlinkMs,
			CooldownMs:   snap.Config.CooldownMs,
			CheckMs:      snap.Config.CheckMs,
			RenderMs:     snap.Config.RenderMs,
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
			RebootMethod: snap.Config.RebootMethod,
		},
	}

	if d := snap.LastDecision; d != nil {
		inner.LastDecision = &DecisionJSON{
			Action:     string(d.Action),
			BlinkCount: d.BlinkCount,
			HeldMs:     d.Held.Milliseconds(),
			Timestamp:  formatTime(d.Timestamp),
			Error:      snap.LastError,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
