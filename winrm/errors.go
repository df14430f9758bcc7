package winrm

import (
	"errors"
	"fmt"
)

// Sentinel errors for argument and lifecycle misuse (the BadArgument and
// parts of the ProtocolError kind).
var (
	// ErrShellClosed indicates the shell has already been closed.
	ErrShellClosed = errors.New("winrm: shell is closed")

	// ErrInvalidExecutable indicates the command/executable path is empty.
	ErrInvalidExecutable = errors.New("winrm: invalid executable")

	// ErrInvalidQuery indicates an empty WQL query string.
	ErrInvalidQuery = errors.New("winrm: invalid WQL query")

	// ErrInvalidEndpoint indicates Open was given a malformed endpoint URL.
	ErrInvalidEndpoint = errors.New("winrm: invalid endpoint")

	// ErrNegativeTimeout indicates a negative OperationTimeout was set.
	ErrNegativeTimeout = errors.New("winrm: operation timeout must not be negative")
)

// ProtocolError reports a response that parsed successfully as XML but is
// missing an element the protocol guarantees on success (a ShellId
// selector, a CommandId, an ExitCode once CommandState reaches Done). It
// is shaped like wsman.Fault so callers can pattern-match with errors.As
// the same way. The operations in this module report a missing ShellId,
// CommandId or ExitCode as plain wrapped errors from package wsman; none
// of them returns a ProtocolError.
type ProtocolError struct {
	Op      string // the operation that detected the missing element, e.g. "open_shell"
	Missing string // the element or attribute that was absent
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("winrm: %s: response missing %s", e.Op, e.Missing)
}
