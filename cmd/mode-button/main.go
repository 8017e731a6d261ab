// Command mode-button watches a push button on a single-board computer,
// blinks an LED while it is held and switches network mode or reboots
// depending on how long it was held. Between presses the LED shows
// wireless connectivity.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/sweeney/mode-button/internal/action"
	"github.com/sweeney/mode-button/internal/button"
	"github.com/sweeney/mode-button/internal/events"
	"github.com/sweeney/mode-button/internal/gpio"
	"github.com/sweeney/mode-button/internal/heartbeat"
	"github.com/sweeney/mode-button/internal/led"
	"github.com/sweeney/mode-button/internal/metrics"
	"github.com/sweeney/mode-button/internal/mqtt"
	"github.com/sweeney/mode-button/internal/netprobe"
	"github.com/sweeney/mode-button/internal/shell"
	"github.com/sweeney/mode-button/internal/status"
	"github.com/sweeney/mode-button/internal/web"
)

const (
	rebootViaCommand = "command"
	rebootViaLogind  = "logind"
)

type config struct {
	pinButton    int
	pinLED       int
	backend      string
	iface        string
	poll         time.Duration
	blink        time.Duration
	cooldown     time.Duration
	check        time.Duration
	render       time.Duration
	probeTimeout time.Duration
	cmdClient    string
	cmdAP        string
	cmdReboot    string
	rebootVia    string
	broker       string
	httpAddr     string
	printState   bool
}

func main() {
	var cfg config
	flag.IntVar(&cfg.pinButton, "pin-button", gpio.DefaultPinButton, "BCM pin number for the mode button")
	flag.IntVar(&cfg.pinLED, "pin-led", gpio.DefaultPinLED, "BCM pin number for the status LED")
	flag.StringVar(&cfg.backend, "backend", gpio.BackendCdev, `GPIO backend ("cdev" or "rpio")`)
	flag.StringVar(&cfg.iface, "iface", netprobe.DefaultInterface, "Wireless interface to monitor")
	flag.DurationVar(&cfg.poll, "poll", button.DefaultTiming.Poll, "Button polling interval")
	flag.DurationVar(&cfg.blink, "blink", button.DefaultTiming.Blink, "LED on/off time while the button is held")
	flag.DurationVar(&cfg.cooldown, "cooldown", button.DefaultTiming.Cooldown, "Pause after an action before accepting a new press")
	flag.DurationVar(&cfg.check, "check", heartbeat.DefaultCheckInterval, "Connectivity check interval")
	flag.DurationVar(&cfg.render, "render", heartbeat.DefaultRenderInterval, "Minimum time between connectivity blinks")
	flag.DurationVar(&cfg.probeTimeout, "probe-timeout", netprobe.DefaultTimeout, "Timeout for each connectivity command")
	flag.StringVar(&cfg.cmdClient, "cmd-client", strings.Join(action.DefaultClientCommand, " "), "Command that switches to client mode")
	flag.StringVar(&cfg.cmdAP, "cmd-ap", strings.Join(action.DefaultAPCommand, " "), "Command that switches to access point mode")
	flag.StringVar(&cfg.cmdReboot, "cmd-reboot", strings.Join(action.DefaultRebootCommand, " "), "Command that reboots the host")
	flag.StringVar(&cfg.rebootVia, "reboot-via", rebootViaCommand, `How to reboot: "command" runs -cmd-reboot, "logind" asks systemd-logind`)
	flag.StringVar(&cfg.broker, "broker", "", "MQTT broker address (empty to disable)")
	flag.StringVar(&cfg.httpAddr, "http", ":8080", "HTTP status address (empty to disable)")
	flag.BoolVar(&cfg.printState, "print-state", false, "Print the button state and exit")

	flag.Parse()

	// journald collects stdout
	log.SetOutput(os.Stdout)

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func (c config) validate() error {
	if c.poll <= 0 || c.blink <= 0 || c.check <= 0 || c.probeTimeout <= 0 {
		return fmt.Errorf("poll, blink, check and probe-timeout must be positive")
	}
	if c.rebootVia != rebootViaCommand && c.rebootVia != rebootViaLogind {
		return fmt.Errorf("unknown -reboot-via %q", c.rebootVia)
	}
	return nil
}

func (c config) statusConfig() status.Config {
	return status.Config{
		PinButton:    c.pinButton,
		PinLED:       c.pinLED,
		Backend:      c.backend,
		Interface:    c.iface,
		PollMs:       c.poll.Milliseconds(),
		BlinkMs:      c.blink.Milliseconds(),
		CooldownMs:   c.cooldown.Milliseconds(),
		CheckMs:      c.check.Milliseconds(),
		RenderMs:     c.render.Milliseconds(),
		Broker:       c.broker,
		HTTPAddr:     c.httpAddr,
		RebootMethod: c.rebootVia,
	}
}

func (c config) actionConfig() action.Config {
	ac := action.Config{
		Client: action.SplitCommand(c.cmdClient),
		AP:     action.SplitCommand(c.cmdAP),
		Reboot: action.SplitCommand(c.cmdReboot),
	}
	if c.rebootVia == rebootViaLogind {
		ac.Rebooter = action.LogindRebooter{}
	}
	return ac
}

func run(cfg config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	// Initialize GPIO
	port, err := gpio.Open(cfg.backend, cfg.pinButton, cfg.pinLED)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer func() {
		if err := port.Close(); err != nil {
			log.Printf("gpio: close: %v", err)
		}
	}()

	// Print state mode
	if cfg.printState {
		pressed, err := port.Pressed()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("button: %s\n", pressedString(pressed))
		return nil
	}

	bus := events.New()
	defer bus.Close()

	tracker := status.NewTracker(time.Now(), cfg.statusConfig())
	defer tracker.Attach(bus)()

	m := metrics.New()
	defer m.Attach(bus)()

	c := components{
		port:    port,
		tracker: tracker,
		now:     time.Now,
	}

	// Initialize MQTT
	if cfg.broker != "" {
		pub := mqtt.NewRealPublisher(cfg.broker, "mode-button")
		defer pub.Close()
		defer mqtt.Attach(bus, pub)()
		c.publisher = pub
		c.mqttStatus = pub

		snap := tracker.Snapshot()
		startup := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := pub.PublishSystem(startup); err != nil {
			log.Printf("mqtt: failed to publish startup event: %v", err)
		} else {
			log.Printf("mqtt: published startup event")
		}
	}

	arb := led.NewArbiter(port)

	// Start HTTP status server
	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker, arb, m.Handler())
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	runner := shell.ExecRunner{}

	c.classifier = button.New(port, arb, action.NewDispatcher(runner, cfg.actionConfig()),
		button.WithTiming(button.Timing{Poll: cfg.poll, Blink: cfg.blink, Cooldown: cfg.cooldown}),
		button.WithBus(bus),
	)
	c.heartbeat = heartbeat.New(netprobe.New(runner, cfg.iface, cfg.probeTimeout), arb, cfg.render,
		heartbeat.WithBus(bus),
	)

	log.Printf("started: button=%d led=%d backend=%s iface=%s poll=%v blink=%v check=%v render=%v broker=%q",
		cfg.pinButton, cfg.pinLED, cfg.backend, cfg.iface, cfg.poll, cfg.blink, cfg.check, cfg.render, cfg.broker)

	checkTicker := time.NewTicker(cfg.check)
	defer checkTicker.Stop()
	refreshTicker := time.NewTicker(time.Second)
	defer refreshTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Printf("systemd: notify ready: %v", err)
	}

	return runLoop(c, checkTicker.C, refreshTicker.C, sigCh)
}

// components is the process-scoped set shared by the two activities.
type components struct {
	port       gpio.Port
	classifier *button.Classifier
	heartbeat  *heartbeat.Heartbeat
	publisher  mqtt.Publisher        // nil when MQTT is disabled
	mqttStatus mqtt.ConnectionStatus // nil when MQTT is disabled
	tracker    *status.Tracker
	now        func() time.Time
}

// runLoop runs the classifier and heartbeat until a signal arrives, then
// stops both, leaves the LED low and publishes the shutdown event.
func runLoop(c components, checkTick, refreshTick <-chan time.Time, sig <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.classifier.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		c.heartbeat.Run(ctx, checkTick)
	}()

	var s os.Signal
	for s == nil {
		select {
		case s = <-sig:
		case <-refreshTick:
			if c.mqttStatus != nil {
				c.tracker.SetMQTTConnected(c.mqttStatus.IsConnected())
			}
		}
	}

	log.Printf("received %v, shutting down", s)
	if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		log.Printf("systemd: notify stopping: %v", err)
	}

	cancel()
	wg.Wait()

	if err := c.port.SetLED(false); err != nil {
		log.Printf("gpio: clear LED: %v", err)
	}

	if c.publisher == nil {
		return nil
	}

	signalName := signalString(s)
	if c.mqttStatus != nil {
		c.tracker.SetMQTTConnected(c.mqttStatus.IsConnected())
	}
	snap := c.tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  c.now(),
		Event:      "SHUTDOWN",
		Reason:     signalName,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
	}
	if err := c.publisher.PublishSystem(event); err != nil {
		log.Printf("mqtt: failed to publish shutdown event: %v", err)
	} else {
		log.Printf("mqtt: published shutdown event")
	}
	return nil
}

func signalString(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

func pressedString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}
