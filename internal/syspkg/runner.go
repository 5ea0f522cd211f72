package syspkg

import (
	"context"
	"os/exec"
	"strings"
)

// RunFunc executes a command and returns its stdout.
// It is the seam between this package and the OS: production code uses
// execOutput, tests substitute a fake.
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// execOutput runs the command via os/exec and returns its stdout.
// Stderr is discarded; a non-zero exit surfaces as *exec.ExitError.
func execOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// splitCommand splits a configured command line on whitespace into the
// binary name and its leading arguments.
func splitCommand(command string) (string, []string) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}
