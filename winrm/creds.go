package winrm

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"os"

	"github.com/cwb124/WinRM/wsman/auth"
)

// AuthMethod selects one of the three transport variants a WinRM listener
// accepts.
type AuthMethod int

const (
	// AuthTLSBasic is TLS with HTTP Basic auth (the common 5986 case).
	AuthTLSBasic AuthMethod = iota

	// AuthNTLM is plaintext NTLM, typically paired with an unencrypted
	// 5985 listener on a trusted network.
	AuthNTLM

	// AuthKerberos is SPNEGO/Kerberos, authenticated over HTTPS.
	AuthKerberos
)

// Credentials carries the fields every transport variant needs, tagged by
// Method so only the fields relevant to that method are read.
type Credentials struct {
	Method AuthMethod

	// NTLM and TLSBasic; Username is also the Kerberos client principal.
	Username string
	Password string
	Domain   string // NTLM only.

	// TLSBasic only.
	CAPath             string
	InsecureSkipVerify bool

	// Kerberos only.
	Realm        string
	SPN          string
	KeytabPath   string
	Krb5ConfPath string
}

// LogValue redacts Password so logging a Credentials value never writes a
// secret to a log sink.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("method", int(c.Method)),
		slog.Any("creds", auth.Credentials{Username: c.Username, Domain: c.Domain, Password: c.Password}),
		slog.String("realm", c.Realm),
		slog.String("spn", c.SPN),
	)
}

// buildAuthenticator constructs the auth.Authenticator the session's
// transport is wrapped with, per the credential's Method.
func buildAuthenticator(creds Credentials) (auth.Authenticator, error) {
	switch creds.Method {
	case AuthNTLM:
		return auth.NewNTLMAuth(auth.Credentials{
			Username: creds.Username,
			Password: creds.Password,
			Domain:   creds.Domain,
		}), nil

	case AuthKerberos:
		provider, err := auth.NewKerberosProvider(auth.KerberosCredentials{
			Realm:        creds.Realm,
			Username:     creds.Username,
			SPN:          creds.SPN,
			KeytabPath:   creds.KeytabPath,
			Krb5ConfPath: creds.Krb5ConfPath,
		})
		if err != nil {
			return nil, fmt.Errorf("winrm: build kerberos provider: %w", err)
		}
		return auth.NewNegotiateAuth(provider), nil

	default: // AuthTLSBasic
		return auth.NewBasicAuth(auth.Credentials{
			Username: creds.Username,
			Password: creds.Password,
		}), nil
	}
}

// buildTLSConfig builds the *tls.Config a TLS-based variant's transport
// uses: InsecureSkipVerify passthrough, or a root pool seeded from CAPath.
func buildTLSConfig(creds Credentials) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: creds.InsecureSkipVerify}
	if creds.CAPath == "" {
		return cfg, nil
	}

	pem, err := os.ReadFile(creds.CAPath)
	if err != nil {
		return nil, fmt.Errorf("winrm: read CA trust path %s: %w", creds.CAPath, err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("winrm: no certificates parsed from %s", creds.CAPath)
	}
	cfg.RootCAs = pool
	return cfg, nil
}
