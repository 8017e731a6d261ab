package gpio

import "fmt"

// Open returns a Port for the named backend.
func Open(backend string, pinButton, pinLED int) (Port, error) {
	switch backend {
	case BackendCdev, "":
		p, err := NewRealPort(pinButton, pinLED)
		if err != nil {
			return nil, err
		}
		return p, nil
	case BackendRpio:
		p, err := NewRpioPort(pinButton, pinLED)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown gpio backend %q", backend)
	}
}
