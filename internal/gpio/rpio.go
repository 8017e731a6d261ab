//go:build linux

package gpio

import (
	"fmt"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"
)

// RpioPort drives the button and LED through /dev/gpiomem register access.
// It is a fallback for kernels without the GPIO character device.
type RpioPort struct {
	mu     sync.Mutex
	button rpio.Pin
	led    rpio.Pin
	open   bool
}

// NewRpioPort maps the GPIO registers and configures both pins.
func NewRpioPort(pinButton, pinLED int) (*RpioPort, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpiomem: %w", err)
	}

	button := rpio.Pin(pinButton)
	button.Input()
	button.PullUp()

	led := rpio.Pin(pinLED)
	led.Output()
	led.Low()

	return &RpioPort{button: button, led: led, open: true}, nil
}

// Pressed returns true while the button holds the line low.
func (p *RpioPort) Pressed() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return false, errClosed
	}
	return p.button.Read() == rpio.Low, nil
}

// SetLED drives the LED line.
func (p *RpioPort) SetLED(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return errClosed
	}
	if on {
		p.led.High()
	} else {
		p.led.Low()
	}
	return nil
}

// Close drives the LED low, returns it to an input and unmaps the registers.
func (p *RpioPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return nil
	}
	p.led.Low()
	p.led.Input()
	p.open = false
	if err := rpio.Close(); err != nil {
		return fmt.Errorf("close gpiomem: %w", err)
	}
	return nil
}
