// Package netprobe determines whether the wireless interface is attached to a network.
package netprobe

import (
	"context"
	"log"
	"net/netip"
	"strings"
	"time"

	"github.com/sweeney/mode-button/internal/logic"
	"github.com/sweeney/mode-button/internal/shell"
)

// Defaults for the prober.
const (
	DefaultInterface = "wlan0"
	DefaultTimeout   = 2 * time.Second
)

// Prober queries the host network stack through external tools.
// Every failure is treated as "try the next strategy"; nothing is returned
// to the caller except the resulting state.
// Not safe for concurrent use.
type Prober struct {
	runner  shell.Runner
	iface   string
	timeout time.Duration

	// last error text per tool, so a missing tool is logged once, not every cycle
	lastErr map[string]string
}

// New creates a Prober for iface. Each external query is bounded by timeout.
func New(runner shell.Runner, iface string, timeout time.Duration) *Prober {
	if iface == "" {
		iface = DefaultInterface
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{
		runner:  runner,
		iface:   iface,
		timeout: timeout,
		lastErr: make(map[string]string),
	}
}

// Interface returns the probed interface name.
func (p *Prober) Interface() string {
	return p.iface
}

// Probe returns the current connectivity.
func (p *Prober) Probe(ctx context.Context) logic.Connectivity {
	if state, ok := p.probeNetworkManager(ctx); ok {
		return state
	}
	if state, ok := p.probeAddress(ctx); ok {
		return state
	}
	return logic.Disconnected
}

// probeNetworkManager reads the device table from nmcli.
// Output lines are "STATE:DEVICE", e.g. "connected:wlan0".
func (p *Prober) probeNetworkManager(ctx context.Context) (logic.Connectivity, bool) {
	out, err := p.run(ctx, "nmcli", "-t", "-f", "STATE,DEVICE", "device")
	if err != nil {
		p.logFailure("nmcli", err)
		return "", false
	}

	state, found := deviceState(string(out), p.iface)
	if !found {
		return "", false
	}
	return classifyState(state)
}

// probeAddress checks whether the interface carries a routable IPv4 address.
func (p *Prober) probeAddress(ctx context.Context) (logic.Connectivity, bool) {
	out, err := p.run(ctx, "ip", "-o", "-4", "addr", "show", "dev", p.iface)
	if err != nil {
		p.logFailure("ip", err)
		return "", false
	}
	if hasRoutableAddr(string(out)) {
		return logic.Connected, true
	}
	return "", false
}

func (p *Prober) logFailure(tool string, err error) {
	msg := err.Error()
	if p.lastErr[tool] == msg {
		return
	}
	p.lastErr[tool] = msg
	log.Printf("probe: %s failed: %v", tool, err)
}

func (p *Prober) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	out, err := p.runner.Run(ctx, name, args...)
	if err == nil {
		delete(p.lastErr, name)
	}
	return out, err
}

// deviceState finds the state column for iface in terse nmcli output.
func deviceState(out, iface string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		i := strings.LastIndexByte(line, ':')
		if i < 0 {
			continue
		}
		if line[i+1:] == iface {
			return line[:i], true
		}
	}
	return "", false
}

// classifyState maps an nmcli device state to connectivity.
// "disconnected" contains "connected", so it is matched first.
func classifyState(state string) (logic.Connectivity, bool) {
	s := strings.ToLower(state)
	switch {
	case strings.Contains(s, "disconnected"):
		return logic.Disconnected, true
	case strings.Contains(s, "connected"):
		return logic.Connected, true
	case strings.Contains(s, "unmanaged"), strings.Contains(s, "unavailable"):
		// NetworkManager is not driving the interface (e.g. hostapd in AP mode).
		return "", false
	default:
		return logic.Disconnected, true
	}
}

// hasRoutableAddr scans `ip -o -4 addr` output for an inet address that is
// neither loopback nor link-local.
func hasRoutableAddr(out string) bool {
	fields := strings.Fields(out)
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] != "inet" {
			continue
		}
		prefix, err := netip.ParsePrefix(fields[i+1])
		if err != nil {
			continue
		}
		addr := prefix.Addr()
		if addr.IsLoopback() || addr.IsLinkLocalUnicast() || addr.IsUnspecified() {
			continue
		}
		return true
	}
	return false
}
