package action

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	logindDest   = "org.freedesktop.login1"
	logindPath   = dbus.ObjectPath("/org/freedesktop/login1")
	logindReboot = "org.freedesktop.login1.Manager.Reboot"
)

// caller is the part of a D-Bus object the rebooter needs.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// LogindRebooter asks systemd-logind for a reboot over D-Bus, which avoids
// needing sudo rights for the service user when polkit allows it.
// The zero value talks to the system bus.
type LogindRebooter struct {
	open func() (caller, func() error, error)
}

// Reboot requests a reboot and waits for logind's reply. A polkit denial or
// any other D-Bus error is returned.
func (r LogindRebooter) Reboot(ctx context.Context) error {
	open := r.open
	if open == nil {
		open = openSystemBus
	}

	obj, closeBus, err := open()
	if err != nil {
		return fmt.Errorf("connect to system bus: %w", err)
	}
	defer closeBus()

	// interactive=false: never wait on a polkit agent prompt
	if err := obj.CallWithContext(ctx, logindReboot, 0, false).Err; err != nil {
		return fmt.Errorf("logind reboot: %w", err)
	}
	return nil
}

func openSystemBus() (caller, func() error, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, nil, err
	}
	return conn.Object(logindDest, logindPath), conn.Close, nil
}
