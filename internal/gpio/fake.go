package gpio

import (
	"errors"
	"sync"
	"time"
)

// Write is a single LED write recorded by FakePort.
type Write struct {
	On bool
	At time.Time
}

// FakePort is a test double that returns scripted button samples and
// records LED writes. It is safe for concurrent use.
type FakePort struct {
	mu sync.Mutex

	// samples contains scripted button states (true = pressed).
	// Each call to Pressed() consumes the next sample.
	samples []bool

	// index tracks current position in samples
	index int

	led    bool
	writes []Write

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Pressed()
	ReadError error

	// WriteError, if set, will be returned by SetLED()
	WriteError error

	// OnWrite, if set, is called after every LED write.
	OnWrite func(on bool)
}

// NewFakePort creates a FakePort with the given button samples.
func NewFakePort(samples ...bool) *FakePort {
	return &FakePort{samples: samples}
}

// Pressed returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakePort) Pressed() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ReadError != nil {
		return false, f.ReadError
	}
	if len(f.samples) == 0 {
		return false, errors.New("no samples configured")
	}

	sample := f.samples[f.index]
	if f.index < len(f.samples)-1 {
		f.index++
	}
	return sample, nil
}

// SetPressed replaces the script with a constant button state.
func (f *FakePort) SetPressed(pressed bool) {
	f.mu.Lock()
	f.samples = []bool{pressed}
	f.index = 0
	f.mu.Unlock()
}

// SetReadError makes Pressed fail with err until it is cleared with nil.
func (f *FakePort) SetReadError(err error) {
	f.mu.Lock()
	f.ReadError = err
	f.mu.Unlock()
}

// SetLED records the write.
func (f *FakePort) SetLED(on bool) error {
	f.mu.Lock()
	if f.WriteError != nil {
		err := f.WriteError
		f.mu.Unlock()
		return err
	}
	f.led = on
	f.writes = append(f.writes, Write{On: on, At: time.Now()})
	hook := f.OnWrite
	f.mu.Unlock()

	if hook != nil {
		hook(on)
	}
	return nil
}

// LED returns the current LED state.
func (f *FakePort) LED() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.led
}

// Writes returns a copy of all recorded LED writes.
func (f *FakePort) Writes() []Write {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Write, len(f.writes))
	copy(out, f.writes)
	return out
}

// Close drives the LED low and marks the port as closed.
func (f *FakePort) Close() error {
	f.mu.Lock()
	f.led = false
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// IsClosed reports whether Close was called.
func (f *FakePort) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Closed
}

// Reset rewinds the script and clears recorded writes.
func (f *FakePort) Reset() {
	f.mu.Lock()
	f.index = 0
	f.writes = nil
	f.led = false
	f.Closed = false
	f.mu.Unlock()
}
