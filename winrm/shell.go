package winrm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cwb124/WinRM/wsman"
)

// shellConfig holds open_shell's OptionSet inputs.
type shellConfig struct {
	idleTimeout time.Duration
	codepage    int
	noProfile   bool
}

// ShellOption configures a Shell at open_shell time.
type ShellOption func(*shellConfig)

// WithIdleTimeout sets the shell's idle timeout; the server may close the
// shell if it goes unused for this long. Default 30 minutes.
func WithIdleTimeout(d time.Duration) ShellOption {
	return func(c *shellConfig) { c.idleTimeout = d }
}

// WithCodepage sets the WINRS_CODEPAGE option (default 437, OEM/DOS).
func WithCodepage(cp int) ShellOption {
	return func(c *shellConfig) { c.codepage = cp }
}

// WithNoProfile sets WINRS_NOPROFILE=TRUE, skipping the user profile load.
func WithNoProfile() ShellOption {
	return func(c *shellConfig) { c.noProfile = true }
}

// Shell is an open cmd.exe session on the remote host: the ShellId
// returned by open_shell, paired with the Session it was opened against.
// A Shell is not safe for concurrent Run/Start calls against the same
// instance — WinRM's Receive semantics assume a single consumer per
// CommandId; independent Shells may run on separate goroutines without
// coordination.
type Shell struct {
	session *Session
	epr     *wsman.EndpointReference
	mu      sync.Mutex
	closed  bool
}

// NewShell issues open_shell against session and returns the resulting
// Shell. The caller must Close it (directly, or via RunCmd/RunPowerShell
// which own their own Shell's full lifecycle).
func (s *Session) NewShell(ctx context.Context, opts ...ShellOption) (*Shell, error) {
	cfg := shellConfig{idleTimeout: 30 * time.Minute, codepage: 437}
	for _, opt := range opts {
		opt(&cfg)
	}

	options := map[string]string{
		"WINRS_NOPROFILE": "FALSE",
		"WINRS_CODEPAGE":  fmt.Sprintf("%d", cfg.codepage),
	}
	if cfg.noProfile {
		options["WINRS_NOPROFILE"] = "TRUE"
	}

	epr, err := s.client.Create(ctx, s.snapshotConfig(), options, wsman.OperationTimeout(int(cfg.idleTimeout.Seconds())))
	if err != nil {
		return nil, fmt.Errorf("winrm: open shell: %w", err)
	}

	return &Shell{session: s, epr: epr}, nil
}

// ID returns the server-assigned ShellId.
func (s *Shell) ID() string {
	return s.epr.ShellID()
}

// EPR returns the shell's endpoint reference, for callers that need the
// raw wsman.Client operations directly.
func (s *Shell) EPR() *wsman.EndpointReference {
	return s.epr
}

// Close issues close_shell (WS-Transfer Delete). It is idempotent: calling
// it more than once returns nil after the first call. The response is
// inspected for a SOAP Fault rather than assumed to have succeeded.
func (s *Shell) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.session.client.Delete(ctx, s.session.snapshotConfig(), s.epr); err != nil {
		return fmt.Errorf("winrm: close shell: %w", err)
	}
	return nil
}
