package winrm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cwb124/WinRM/wsman"
)

// cleanupTimeout bounds the best-effort Signal+Delete issued once a
// caller's context is already done: cleanup gets its own fresh timeout
// rather than inheriting the cancelled one.
const cleanupTimeout = 15 * time.Second

// RunCmd composes open_shell -> run_command -> pump -> signal_terminate ->
// close_shell into one call using scoped acquisition: opening the shell
// registers its Delete, starting the command registers its Signal, and
// both fire on every exit path including a pump error. Cleanup faults are
// joined onto the return value with errors.Join rather than assumed
// successful, but never replace a non-nil error from the command itself.
func (s *Session) RunCmd(ctx context.Context, command string, args []string, sink Sink) (out *Output, err error) {
	if command == "" {
		return nil, ErrInvalidExecutable
	}

	shell, err := s.NewShell(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := cleanupClose(shell); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("winrm: run_cmd cleanup: %w", closeErr))
		}
	}()

	commandID, err := s.client.Command(ctx, s.snapshotConfig(), shell.EPR(), command, args)
	if err != nil {
		return nil, fmt.Errorf("winrm: run_cmd: %w", err)
	}
	defer func() {
		if sigErr := cleanupSignal(s, shell.EPR(), commandID); sigErr != nil {
			err = errors.Join(err, fmt.Errorf("winrm: run_cmd cleanup: %w", sigErr))
		}
	}()

	out, pumpErr := pump(ctx, s, shell.EPR(), commandID, sink)
	if pumpErr != nil {
		return out, fmt.Errorf("winrm: run_cmd: %w", pumpErr)
	}
	return out, nil
}

// RunPowerShell encodes script as UTF-16LE + base64 and runs the whole
// invocation as a single command string, "powershell -encodedCommand
// <b64>", with no separate arguments — matching how run_powershell
// composes run_cmd. There is only one encoding path: UTF-16LE,
// unconditionally.
func (s *Session) RunPowerShell(ctx context.Context, script string, sink Sink) (*Output, error) {
	command := "powershell -encodedCommand " + encodePowerShellCommand(script)
	return s.RunCmd(ctx, command, nil, sink)
}

// encodePowerShellCommand writes every UTF-16 code unit of script as two
// little-endian bytes (low byte first, matching Windows' native wide-char
// encoding; the high byte is zero for ASCII) and base64-encodes the result.
func encodePowerShellCommand(script string) string {
	var buf strings.Builder
	for _, r := range script {
		if r > 0xFFFF {
			// Outside the BMP: encode as a UTF-16 surrogate pair.
			r -= 0x10000
			high := 0xD800 + (r >> 10)
			low := 0xDC00 + (r & 0x3FF)
			buf.WriteByte(byte(high))
			buf.WriteByte(byte(high >> 8))
			buf.WriteByte(byte(low))
			buf.WriteByte(byte(low >> 8))
			continue
		}
		buf.WriteByte(byte(r))
		buf.WriteByte(byte(r >> 8))
	}
	return base64.StdEncoding.EncodeToString([]byte(buf.String()))
}

// cleanupClose closes shell with a fresh timeout, independent of whatever
// context the caller's pump was running under.
func cleanupClose(shell *Shell) error {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	return shell.Close(ctx)
}

// cleanupSignal best-effort terminates commandID with a fresh timeout.
func cleanupSignal(s *Session, epr *wsman.EndpointReference, commandID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	return s.client.Signal(ctx, s.snapshotConfig(), epr, commandID, wsman.SignalTerminate)
}
