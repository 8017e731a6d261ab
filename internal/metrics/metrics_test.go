package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sweeney/mode-button/internal/events"
	"github.com/sweeney/mode-button/internal/logic"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met")
}

func TestAttachCountsDecisions(t *testing.T) {
	m := New()
	bus := events.New()
	defer bus.Close()
	defer m.Attach(bus)()

	events.Publish(bus, events.PhaseChanged{Phase: logic.PhaseHolding})
	events.Publish(bus, events.ActionDecided{Decision: logic.Decision{Action: logic.ActionReboot, BlinkCount: 16}, Err: "exit status 1"})

	waitFor(t, func() bool {
		return testutil.ToFloat64(m.DispatchErrors.WithLabelValues("REBOOT")) == 1
	})
	if got := testutil.ToFloat64(m.Actions.WithLabelValues("REBOOT")); got != 1 {
		t.Errorf("actions_total{REBOOT}: got %v, want 1", got)
	}
	waitFor(t, func() bool { return testutil.ToFloat64(m.Presses) == 1 })
}

func TestAttachTracksConnectivity(t *testing.T) {
	m := New()
	bus := events.New()
	defer bus.Close()
	defer m.Attach(bus)()

	events.Publish(bus, events.ConnectivityProbed{State: logic.Connected})
	waitFor(t, func() bool { return testutil.ToFloat64(m.Connected) == 1 })

	events.Publish(bus, events.ConnectivityProbed{State: logic.Disconnected})
	waitFor(t, func() bool { return testutil.ToFloat64(m.Connected) == 0 })

	events.Publish(bus, events.RenderSkipped{Holder: "button"})
	waitFor(t, func() bool { return testutil.ToFloat64(m.Skips) == 1 })
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.Renders.WithLabelValues("CONNECTED").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `mode_button_status_renders_total{state="CONNECTED"} 1`) {
		t.Errorf("render counter missing from exposition:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("Go runtime collector missing")
	}
}
