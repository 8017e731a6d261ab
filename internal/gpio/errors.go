package gpio

import "errors"

var errClosed = errors.New("gpio: port closed")
