package mqtt

import (
	"log"
	"sync"

	"github.com/sweeney/mode-button/internal/events"
	"github.com/sweeney/mode-button/internal/logic"
)

// Attach forwards decisions and connectivity changes from bus to pub.
// Connectivity is only published when it differs from the last published
// state. Publish errors are logged, never returned. The returned function
// detaches the publisher.
func Attach(bus *events.Bus, pub Publisher) func() {
	var (
		mu   sync.Mutex
		last logic.Connectivity
	)

	unsubDecision := events.Subscribe(bus, func(e events.ActionDecided) {
		if err := pub.PublishDecision(e.Decision, e.Err); err != nil {
			log.Printf("mqtt: publish decision: %v", err)
		}
	})
	unsubNetwork := events.Subscribe(bus, func(e events.ConnectivityProbed) {
		mu.Lock()
		defer mu.Unlock()
		if e.State == last {
			return
		}
		if err := pub.PublishNetwork(e.State, e.At); err != nil {
			log.Printf("mqtt: publish network: %v", err)
			return
		}
		last = e.State
	})

	return func() {
		unsubDecision()
		unsubNetwork()
	}
}
