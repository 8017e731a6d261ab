//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealPort is not available on non-Linux platforms.
type RealPort struct{}

// NewRealPort returns an error on non-Linux platforms.
func NewRealPort(pinButton, pinLED int) (*RealPort, error) {
	return nil, errUnsupported
}

// Pressed is not implemented on non-Linux platforms.
func (p *RealPort) Pressed() (bool, error) {
	return false, errUnsupported
}

// SetLED is not implemented on non-Linux platforms.
func (p *RealPort) SetLED(on bool) error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (p *RealPort) Close() error {
	return nil
}

// RpioPort is not available on non-Linux platforms.
type RpioPort struct{}

// NewRpioPort returns an error on non-Linux platforms.
func NewRpioPort(pinButton, pinLED int) (*RpioPort, error) {
	return nil, errUnsupported
}

// Pressed is not implemented on non-Linux platforms.
func (p *RpioPort) Pressed() (bool, error) {
	return false, errUnsupported
}

// SetLED is not implemented on non-Linux platforms.
func (p *RpioPort) SetLED(on bool) error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (p *RpioPort) Close() error {
	return nil
}
