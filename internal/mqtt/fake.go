package mqtt

import (
	"sync"
	"time"

	"github.com/sweeney/mode-button/internal/logic"
)

// NetworkEvent is a connectivity change recorded by FakePublisher.
type NetworkEvent struct {
	State logic.Connectivity
	At    time.Time
}

// FakePublisher records published events for test assertions.
// It is safe for concurrent use; read the recorded slices through the
// accessor methods once publishing goroutines may still be running.
type FakePublisher struct {
	mu sync.Mutex

	// Decisions contains all decisions that were published.
	Decisions []logic.Decision

	// DecisionErrors contains the dispatch error text for each decision.
	DecisionErrors []string

	// Network contains all connectivity changes that were published.
	Network []NetworkEvent

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by PublishDecision and PublishNetwork.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishDecision records the decision.
func (f *FakePublisher) PublishDecision(d logic.Decision, dispatchErr string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Decisions = append(f.Decisions, d)
	f.DecisionErrors = append(f.DecisionErrors, dispatchErr)
	return nil
}

// PublishNetwork records the connectivity change.
func (f *FakePublisher) PublishNetwork(c logic.Connectivity, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Network = append(f.Network, NetworkEvent{State: c, At: at})
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// DecisionCount returns the number of recorded decisions.
func (f *FakePublisher) DecisionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Decisions)
}

// NetworkEvents returns a copy of the recorded connectivity changes.
func (f *FakePublisher) NetworkEvents() []NetworkEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]NetworkEvent(nil), f.Network...)
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Decisions = nil
	f.DecisionErrors = nil
	f.Network = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
