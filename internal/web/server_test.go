package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/mode-button/internal/gpio"
	"github.com/sweeney/mode-button/internal/led"
	"github.com/sweeney/mode-button/internal/logic"
	"github.com/sweeney/mode-button/internal/metrics"
	"github.com/sweeney/mode-button/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PinButton:    10,
		PinLED:       12,
		Backend:      "cdev",
		Interface:    "wlan0",
		PollMs:       100,
		BlinkMs:      500,
		CooldownMs:   2000,
		CheckMs:      3000,
		RenderMs:     5000,
		Broker:       "tcp://192.168.1.200:1883",
		HTTPAddr:     ":8080",
		RebootMethod: "command",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr, nil, metrics.New().Handler())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, tr
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetPhase(logic.PhaseHolding)
	tr.SetBlinkCount(3)
	tr.SetConnectivity(logic.Connected, time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC))
	tr.SetMQTTConnected(true)

	resp, body := get(t, ts.URL+"/index.json")
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.Unmarshal([]byte(body), &sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Phase != "HOLDING" {
		t.Errorf("Phase: got %q, want HOLDING", sj.Status.Phase)
	}
	if sj.Status.BlinkCount != 3 {
		t.Errorf("BlinkCount: got %d, want 3", sj.Status.BlinkCount)
	}
	if sj.Status.Network != "CONNECTED" {
		t.Errorf("Network: got %q, want CONNECTED", sj.Status.Network)
	}
	if sj.Status.LastProbe != "2026-01-01T00:01:00Z" {
		t.Errorf("LastProbe: got %q", sj.Status.LastProbe)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.Counts.Presses != 1 {
		t.Errorf("Counts.Presses: got %d, want 1", sj.Status.Counts.Presses)
	}
	if sj.Status.Config.Interface != "wlan0" {
		t.Errorf("Config.Interface: got %q", sj.Status.Config.Interface)
	}
}

func TestJSONEndpointUnknownNetwork(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := get(t, ts.URL+"/index.json")

	var sj status.StatusJSON
	if err := json.Unmarshal([]byte(body), &sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if sj.Status.Network != "UNKNOWN" {
		t.Errorf("Network: got %q, want UNKNOWN", sj.Status.Network)
	}
	if sj.Status.LastDecision != nil {
		t.Errorf("expected no last decision, got %+v", sj.Status.LastDecision)
	}
}

func TestHTMLEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.RecordDecision(logic.Decision{
		Timestamp:  time.Date(2026, 1, 1, 0, 2, 0, 0, time.UTC),
		Action:     logic.ActionSwitchAP,
		BlinkCount: 11,
	}, "exit status 1")
	tr.SetConnectivity(logic.Disconnected, time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC))

	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	for _, want := range []string{
		"<title>Mode Button</title>",
		"SWITCH_AP (11 blinks, 2026-01-01T00:02:00Z)",
		"exit status 1",
		`class="disconnected">DISCONNECTED`,
		"tcp://192.168.1.200:1883",
		"button 10, led 12 (cdev)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestIndexHTMLAlias(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := get(t, ts.URL+"/index.html")
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := get(t, ts.URL+"/nope")
	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/metrics")
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "mode_button_presses_total") {
		t.Error("metrics output missing mode_button_presses_total")
	}
}

func TestMetricsDisabled(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{})
	srv := New(":0", tr, nil, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	// without a handler /metrics falls through to the index, which 404s
	resp, _ := get(t, ts.URL+"/metrics")
	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestUptimeDisplay(t *testing.T) {
	start := time.Now().Add(-(26*time.Hour + 3*time.Minute))
	tr := status.NewTracker(start, status.Config{})
	ts := httptest.NewServer(New(":0", tr, nil, nil).Handler())
	defer ts.Close()

	_, body := get(t, ts.URL+"/")
	if !strings.Contains(body, "1d 2h 3m") {
		t.Error("HTML missing formatted uptime")
	}
}

func TestLEDEndpoint(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{})
	arb := led.NewArbiter(gpio.NewFakePort(false))
	ts := httptest.NewServer(New(":0", tr, arb, nil).Handler())
	defer ts.Close()

	resp, body := get(t, ts.URL+"/led")
	if resp.StatusCode != 200 {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	if body != `{"led":{"busy":false}}` {
		t.Errorf("free LED: got %s", body)
	}

	tok, ok := arb.TryAcquire("button")
	if !ok {
		t.Fatal("could not take LED")
	}
	_, body = get(t, ts.URL+"/led")
	if body != `{"led":{"busy":true,"holder":"button"}}` {
		t.Errorf("held LED: got %s", body)
	}

	_, page := get(t, ts.URL+"/")
	if !strings.Contains(page, "held by button") {
		t.Error("HTML missing LED holder")
	}

	tok.Release()
	_, page = get(t, ts.URL+"/")
	if !strings.Contains(page, "<td>free</td>") {
		t.Error("HTML should show a free LED")
	}
}

func TestLEDEndpointWithoutArbiter(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := get(t, ts.URL+"/led")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", resp.StatusCode)
	}
}
