package events

import (
	"testing"
	"time"

	"github.com/sweeney/mode-button/internal/logic"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	defer bus.Close()

	received := make(chan ActionDecided, 1)
	unsub := Subscribe(bus, func(e ActionDecided) {
		received <- e
	})
	defer unsub()

	Publish(bus, ActionDecided{Decision: logic.Decision{Action: logic.ActionSwitchAP, BlinkCount: 11}})

	select {
	case got := <-received:
		if got.Decision.Action != logic.ActionSwitchAP {
			t.Errorf("expected SWITCH_AP, got %s", got.Decision.Action)
		}
		if got.Decision.BlinkCount != 11 {
			t.Errorf("expected 11 blinks, got %d", got.Decision.BlinkCount)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBusTypeSafety(t *testing.T) {
	bus := New()
	defer bus.Close()

	phases := make(chan PhaseChanged, 1)
	renders := make(chan StatusRendered, 1)
	defer Subscribe(bus, func(e PhaseChanged) { phases <- e })()
	defer Subscribe(bus, func(e StatusRendered) { renders <- e })()

	Publish(bus, PhaseChanged{Phase: logic.PhaseHolding})

	select {
	case <-phases:
	case <-time.After(time.Second):
		t.Fatal("phase event not delivered")
	}
	select {
	case <-renders:
		t.Fatal("render subscriber received a phase event")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := New()
	defer bus.Close()

	received := make(chan BlinkCounted, 2)
	unsub := Subscribe(bus, func(e BlinkCounted) { received <- e })

	Publish(bus, BlinkCounted{Count: 1})
	<-received
	unsub()

	Publish(bus, BlinkCounted{Count: 2})
	select {
	case <-received:
		t.Fatal("should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestPublishNilBus(t *testing.T) {
	// must not panic
	Publish[PhaseChanged](nil, PhaseChanged{Phase: logic.PhaseIdle})
}
