// Package gpio provides the button input and LED output with hardware abstraction.
// The real implementations use the Linux GPIO character device (cdev) or
// direct register access through /dev/gpiomem (rpio).
// The fake implementation allows testing without hardware.
package gpio

// Input reads the button line.
type Input interface {
	// Pressed returns the logical button state.
	// The raw line is active-low: raw 0 = pressed.
	Pressed() (bool, error)
}

// Output drives the LED line.
type Output interface {
	// SetLED drives the LED line high (on) or low (off).
	SetLED(on bool) error
}

// Port owns the button input and the LED output.
type Port interface {
	Input
	Output

	// Close drives the LED low and releases GPIO resources.
	Close() error
}

// Default pin definitions (BCM numbering)
const (
	DefaultPinButton = 10 // physical pin 19
	DefaultPinLED    = 12 // physical pin 32
)

// Backend names accepted by Open.
const (
	BackendCdev = "cdev"
	BackendRpio = "rpio"
)
