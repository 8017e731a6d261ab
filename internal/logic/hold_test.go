package logic

import (
	"testing"
	"time"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		blinks int
		want   Action
	}{
		{0, ActionNone},
		{1, ActionNone},
		{4, ActionNone},
		{5, ActionSwitchClient},
		{7, ActionSwitchClient},
		{9, ActionSwitchClient},
		{10, ActionSwitchAP},
		{14, ActionSwitchAP},
		{15, ActionReboot},
		{16, ActionReboot},
		{120, ActionReboot},
	}

	for _, tt := range tests {
		got := DefaultThresholds.Classify(tt.blinks)
		if got != tt.want {
			t.Errorf("Classify(%d): got %s, want %s", tt.blinks, got, tt.want)
		}
	}
}

// Overlapping thresholds must resolve to the larger action.
func TestClassifyHighestThresholdWins(t *testing.T) {
	th := Thresholds{Client: 3, AP: 3, Reboot: 3}
	if got := th.Classify(3); got != ActionReboot {
		t.Errorf("expected REBOOT for overlapping thresholds, got %s", got)
	}

	th = Thresholds{Client: 2, AP: 4, Reboot: 4}
	if got := th.Classify(4); got != ActionReboot {
		t.Errorf("expected REBOOT at shared AP/Reboot threshold, got %s", got)
	}
	if got := th.Classify(3); got != ActionSwitchClient {
		t.Errorf("expected SWITCH_CLIENT, got %s", got)
	}
}

func TestHoldSessionCountsBlinks(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewHoldSession(start)

	if s.BlinkCount != 0 {
		t.Fatalf("new session should start at 0, got %d", s.BlinkCount)
	}

	for i := 1; i <= 7; i++ {
		if n := s.Blink(); n != i {
			t.Errorf("blink %d: got count %d", i, n)
		}
	}

	released := start.Add(7*time.Second + 300*time.Millisecond)
	d := s.Decide(DefaultThresholds, released)

	if d.Action != ActionSwitchClient {
		t.Errorf("expected SWITCH_CLIENT after 7 blinks, got %s", d.Action)
	}
	if d.BlinkCount != 7 {
		t.Errorf("expected BlinkCount=7, got %d", d.BlinkCount)
	}
	if d.Held != 7*time.Second+300*time.Millisecond {
		t.Errorf("unexpected held duration: %v", d.Held)
	}
	if !d.Timestamp.Equal(released) {
		t.Errorf("unexpected timestamp: %v", d.Timestamp)
	}
}

func TestHoldSessionShortPress(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewHoldSession(start)

	d := s.Decide(DefaultThresholds, start.Add(200*time.Millisecond))
	if d.Action != ActionNone {
		t.Errorf("expected NONE for a tap, got %s", d.Action)
	}
	if d.BlinkCount != 0 {
		t.Errorf("expected BlinkCount=0, got %d", d.BlinkCount)
	}
}
