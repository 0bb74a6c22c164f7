package executor

import "context"

// Executor defines the interface for executing external commands
type Executor interface {
	// Execute runs a command to completion and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// Start launches a long-running command and returns without waiting.
	Start(ctx context.Context, name string, args ...string) (Process, error)
	// LookPath resolves name against PATH.
	LookPath(name string) (string, error)
}

// Process is a command started with Executor.Start.
type Process interface {
	Pid() int
	// Interrupt asks the process to finish; it falls back to killing it
	// where interrupts are unsupported.
	Interrupt() error
	Kill() error
	// Wait blocks until the process exits.
	Wait() error
}
