// Package shell runs external programs with an abstraction for testing.
package shell

import "context"

// Runner runs an external program and returns its standard output.
type Runner interface {
	// Run executes name with args. A non-zero exit is reported as an error.
	// The command is killed when ctx is done.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
