package gpio

import (
	"errors"
	"testing"
)

func TestFakePortPressed(t *testing.T) {
	f := NewFakePort(false, true, true)

	want := []bool{false, true, true, true}
	for i, w := range want {
		got, err := f.Pressed()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("sample %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestFakePortNoSamples(t *testing.T) {
	f := NewFakePort()

	_, err := f.Pressed()
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakePortReadError(t *testing.T) {
	f := NewFakePort(true)
	f.ReadError = errors.New("simulated error")

	_, err := f.Pressed()
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakePortSetPressed(t *testing.T) {
	f := NewFakePort(false, false)
	f.SetPressed(true)

	for i := 0; i < 3; i++ {
		got, _ := f.Pressed()
		if !got {
			t.Errorf("read %d: expected pressed", i)
		}
	}
}

func TestFakePortRecordsWrites(t *testing.T) {
	f := NewFakePort(false)

	var hooked []bool
	f.OnWrite = func(on bool) { hooked = append(hooked, on) }

	f.SetLED(true)
	if !f.LED() {
		t.Error("LED should be on")
	}
	f.SetLED(false)
	if f.LED() {
		t.Error("LED should be off")
	}

	writes := f.Writes()
	if len(writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(writes))
	}
	if !writes[0].On || writes[1].On {
		t.Errorf("unexpected write sequence: %+v", writes)
	}
	if len(hooked) != 2 {
		t.Errorf("expected hook to run twice, got %d", len(hooked))
	}
}

func TestFakePortWriteError(t *testing.T) {
	f := NewFakePort(false)
	f.WriteError = errors.New("bus fault")

	if err := f.SetLED(true); err == nil {
		t.Error("expected write error")
	}
	if len(f.Writes()) != 0 {
		t.Error("failed write should not be recorded")
	}
}

func TestFakePortCloseClearsLED(t *testing.T) {
	f := NewFakePort(false)
	f.SetLED(true)

	if f.IsClosed() {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.IsClosed() {
		t.Error("should be closed after Close()")
	}
	if f.LED() {
		t.Error("LED should be off after Close()")
	}
}

func TestFakePortReset(t *testing.T) {
	f := NewFakePort(true, false)
	f.Pressed()
	f.SetLED(true)

	f.Reset()

	got, _ := f.Pressed()
	if !got {
		t.Error("after reset: expected first sample again")
	}
	if len(f.Writes()) != 0 {
		t.Error("after reset: writes should be cleared")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("sysfs", DefaultPinButton, DefaultPinLED); err == nil {
		t.Error("expected error for unknown backend")
	}
}
