package winrm

import (
	"context"
	"fmt"
	"sync"
)

// Process is a command running inside an already-open Shell, for callers
// that want to issue several commands against one Shell rather than pay
// for open_shell/close_shell on every call (what RunCmd does).
type Process struct {
	shell     *Shell
	commandID string

	mu   sync.Mutex
	out  *Output
	done bool
}

// Start issues run_command inside shell without waiting for completion.
// Use Wait to drain its output.
func (s *Shell) Start(ctx context.Context, command string, args []string) (*Process, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrShellClosed
	}
	if command == "" {
		return nil, ErrInvalidExecutable
	}

	commandID, err := s.session.client.Command(ctx, s.session.snapshotConfig(), s.epr, command, args)
	if err != nil {
		return nil, fmt.Errorf("winrm: start command: %w", err)
	}
	return &Process{shell: s, commandID: commandID}, nil
}

// Run issues run_command and pumps it to completion before returning.
func (s *Shell) Run(ctx context.Context, command string, args []string, sink Sink) (*Process, error) {
	proc, err := s.Start(ctx, command, args)
	if err != nil {
		return nil, err
	}
	if _, err := proc.Wait(ctx, sink); err != nil {
		return proc, err
	}
	return proc, nil
}

// CommandID returns the server-assigned CommandId.
func (p *Process) CommandID() string {
	return p.commandID
}

// Wait pumps the command's output to completion (or ctx cancellation).
// Calling it again after completion returns the cached Output.
func (p *Process) Wait(ctx context.Context, sink Sink) (*Output, error) {
	p.mu.Lock()
	if p.done {
		out := p.out
		p.mu.Unlock()
		return out, nil
	}
	p.mu.Unlock()

	out, err := pump(ctx, p.shell.session, p.shell.epr, p.commandID, sink)
	p.mu.Lock()
	p.out = out
	p.done = err == nil
	p.mu.Unlock()
	if err != nil {
		return out, fmt.Errorf("winrm: wait: %w", err)
	}
	return out, nil
}

// Signal sends a control signal (wsman.SignalTerminate, SignalCtrlC, or
// SignalCtrlBreak) to the process.
func (p *Process) Signal(ctx context.Context, code string) error {
	if err := p.shell.session.client.Signal(ctx, p.shell.session.snapshotConfig(), p.shell.epr, p.commandID, code); err != nil {
		return fmt.Errorf("winrm: signal: %w", err)
	}
	return nil
}
