package winrm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

// TestNewShell_OptionSetDefaults checks the OptionSet defaults and
// overrides open_shell builds.
func TestNewShell_OptionSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts []ShellOption
		want []string
	}{
		{"defaults", nil, []string{`Name="WINRS_NOPROFILE"`, `Name="WINRS_CODEPAGE"`}},
		{"no profile", []ShellOption{WithNoProfile()}, []string{`WINRS_NOPROFILE">TRUE<`}},
		{"codepage", []ShellOption{WithCodepage(65001)}, []string{`WINRS_CODEPAGE">65001<`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var receivedBody string
			sess, closeFn := testSession(t, func(w http.ResponseWriter, r *http.Request) {
				receivedBody = readRequestBody(t, r)
				_, _ = w.Write([]byte(createResponseXML("ABC-123")))
			})
			defer closeFn()

			shell, err := sess.NewShell(context.Background(), tt.opts...)
			if err != nil {
				t.Fatalf("NewShell: %v", err)
			}
			if shell.ID() != "ABC-123" {
				t.Errorf("ID() = %q, want ABC-123", shell.ID())
			}
			for _, want := range tt.want {
				if !strings.Contains(receivedBody, want) {
					t.Errorf("request body missing %q, got:\n%s", want, receivedBody)
				}
			}
		})
	}
}

// TestNewShell_MissingShellID covers the ProtocolError kind surfacing
// through Session.NewShell.
func TestNewShell_MissingShellID(t *testing.T) {
	sess, closeFn := testSession(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<s:Envelope xmlns:s="http://www.w3.org/2003/05/soap-envelope"><s:Body><x:ResourceCreated xmlns:x="http://schemas.xmlsoap.org/ws/2004/09/transfer"/></s:Body></s:Envelope>`))
	})
	defer closeFn()

	if _, err := sess.NewShell(context.Background()); err == nil {
		t.Error("expected an error for a ShellId-less Create response")
	}
}

// TestShell_Close_Idempotent checks that close_shell is safe to call
// more than once.
func TestShell_Close_Idempotent(t *testing.T) {
	var deletes int
	sess, closeFn := testSession(t, func(w http.ResponseWriter, r *http.Request) {
		body := readRequestBody(t, r)
		if strings.Contains(body, "Create") {
			_, _ = w.Write([]byte(createResponseXML("ABC-123")))
			return
		}
		deletes++
		_, _ = w.Write([]byte(emptyResponseXML()))
	})
	defer closeFn()

	shell, err := sess.NewShell(context.Background())
	if err != nil {
		t.Fatalf("NewShell: %v", err)
	}
	if err := shell.Close(context.Background()); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := shell.Close(context.Background()); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if deletes != 1 {
		t.Errorf("expected exactly one Delete on the wire, got %d", deletes)
	}
}

// TestShell_Run_EmptyExecutable covers the BadArgument error kind.
func TestShell_Run_EmptyExecutable(t *testing.T) {
	sess, closeFn := testSession(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(createResponseXML("ABC-123")))
	})
	defer closeFn()

	shell, err := sess.NewShell(context.Background())
	if err != nil {
		t.Fatalf("NewShell: %v", err)
	}
	if _, err := shell.Start(context.Background(), "", nil); !errors.Is(err, ErrInvalidExecutable) {
		t.Fatalf("err = %v, want ErrInvalidExecutable", err)
	}
}

// TestShell_Start_ClosedShell checks that a command cannot be started
// against an already-closed shell.
func TestShell_Start_ClosedShell(t *testing.T) {
	sess, closeFn := testSession(t, func(w http.ResponseWriter, r *http.Request) {
		body := readRequestBody(t, r)
		if strings.Contains(body, "Create") {
			_, _ = w.Write([]byte(createResponseXML("ABC-123")))
			return
		}
		_, _ = w.Write([]byte(emptyResponseXML()))
	})
	defer closeFn()

	shell, err := sess.NewShell(context.Background())
	if err != nil {
		t.Fatalf("NewShell: %v", err)
	}
	if err := shell.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := shell.Start(context.Background(), "dir", nil); !errors.Is(err, ErrShellClosed) {
		t.Fatalf("err = %v, want ErrShellClosed", err)
	}
}

// TestProcess_Signal covers Process.Signal delivering the right code.
func TestProcess_Signal(t *testing.T) {
	var signalBody string
	sess, closeFn := testSession(t, func(w http.ResponseWriter, r *http.Request) {
		body := readRequestBody(t, r)
		switch {
		case strings.Contains(body, "Create"):
			_, _ = w.Write([]byte(createResponseXML("ABC-123")))
		case strings.Contains(body, "CommandLine"):
			_, _ = w.Write([]byte(commandResponseXML("CMD-1")))
		default:
			signalBody = body
			_, _ = w.Write([]byte(emptyResponseXML()))
		}
	})
	defer closeFn()

	shell, err := sess.NewShell(context.Background())
	if err != nil {
		t.Fatalf("NewShell: %v", err)
	}
	proc, err := shell.Start(context.Background(), "ping", []string{"-t", "localhost"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := proc.Signal(context.Background(), "http://schemas.microsoft.com/wbem/wsman/1/windows/shell/signal/ctrl_c"); err != nil {
		t.Fatalf("Signal: %v", err)
	}
	if !strings.Contains(signalBody, "ctrl_c") {
		t.Errorf("signal request missing ctrl_c code, got:\n%s", signalBody)
	}
}
