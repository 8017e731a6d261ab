// Package action runs the system command bound to a classified button action.
// Commands are fire-and-forget: failures are reported but never retried.
package action

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sweeney/mode-button/internal/logic"
	"github.com/sweeney/mode-button/internal/shell"
)

// Default command lines.
var (
	DefaultClientCommand = []string{"/usr/local/bin/switch-to-client.sh"}
	DefaultAPCommand     = []string{"/usr/local/bin/switch-to-ap.sh"}
	DefaultRebootCommand = []string{"sudo", "reboot"}
)

// Rebooter reboots the host without going through a command line.
type Rebooter interface {
	Reboot(ctx context.Context) error
}

// Dispatcher maps actions to external commands.
type Dispatcher struct {
	runner   shell.Runner
	commands map[logic.Action][]string
	rebooter Rebooter
}

// Config holds the command line for each action. Empty entries fall back to the defaults.
type Config struct {
	Client []string
	AP     []string
	Reboot []string

	// Rebooter, if set, replaces the reboot command.
	Rebooter Rebooter
}

// NewDispatcher creates a Dispatcher that runs commands through runner.
func NewDispatcher(runner shell.Runner, cfg Config) *Dispatcher {
	return &Dispatcher{
		runner: runner,
		commands: map[logic.Action][]string{
			logic.ActionSwitchClient: orDefault(cfg.Client, DefaultClientCommand),
			logic.ActionSwitchAP:     orDefault(cfg.AP, DefaultAPCommand),
			logic.ActionReboot:       orDefault(cfg.Reboot, DefaultRebootCommand),
		},
		rebooter: cfg.Rebooter,
	}
}

func orDefault(cmd, def []string) []string {
	if len(cmd) == 0 {
		return def
	}
	return cmd
}

// Command returns the command line bound to a, or nil for ActionNone.
func (d *Dispatcher) Command(a logic.Action) []string {
	return d.commands[a]
}

// Dispatch runs the command for a. ActionNone does nothing.
// The exit status is returned for logging only.
func (d *Dispatcher) Dispatch(ctx context.Context, a logic.Action) error {
	if a == logic.ActionNone {
		return nil
	}

	if a == logic.ActionReboot && d.rebooter != nil {
		log.Printf("action: %s via logind", a)
		if err := d.rebooter.Reboot(ctx); err != nil {
			return fmt.Errorf("%s: %w", a, err)
		}
		return nil
	}

	cmd, ok := d.commands[a]
	if !ok {
		return fmt.Errorf("no command for action %s", a)
	}

	log.Printf("action: %s: running %s", a, strings.Join(cmd, " "))
	if _, err := d.runner.Run(ctx, cmd[0], cmd[1:]...); err != nil {
		return fmt.Errorf("%s: %w", a, err)
	}
	log.Printf("action: %s: command exited successfully", a)
	return nil
}

// SplitCommand turns a flag value into a command line.
func SplitCommand(s string) []string {
	return strings.Fields(s)
}
