package auth

import (
	"context"
	"fmt"
	"os"

	"github.com/go-krb5/krb5/client"
	"github.com/go-krb5/krb5/config"
	"github.com/go-krb5/krb5/credentials"
	"github.com/go-krb5/krb5/keytab"
	"github.com/go-krb5/krb5/spnego"
)

// KerberosCredentials identifies a principal for the Kerberos/SPNEGO
// transport variant: a realm and a username, authenticated either by a
// keytab or by the credential cache named by $KRB5CCNAME when no keytab
// is supplied.
type KerberosCredentials struct {
	// Realm is the Kerberos realm (e.g. EXAMPLE.COM).
	Realm string

	// Username is the client principal's name.
	Username string

	// SPN is the target service principal name (e.g. HTTP/winrm-host.example.com).
	SPN string

	// KeytabPath is the path to a keytab file. Empty means "use the
	// credential cache named by $KRB5CCNAME instead"; NewKerberosProvider
	// fails if that variable is unset.
	KeytabPath string

	// Krb5ConfPath overrides the krb5.conf location. Empty means
	// $KRB5_CONFIG, falling back to /etc/krb5.conf.
	Krb5ConfPath string
}

// KerberosProvider implements SecurityProvider using the pure Go krb5
// library over HTTPS, where TLS already provides transport encryption and
// SPNEGO is used purely for the client/server handshake.
type KerberosProvider struct {
	client       *client.Client
	spnegoClient *spnego.SPNEGO
	targetSPN    string
	isComplete   bool
}

// NewKerberosProvider builds a KerberosProvider from the given credentials.
func NewKerberosProvider(creds KerberosCredentials) (*KerberosProvider, error) {
	confPath := creds.Krb5ConfPath
	if confPath == "" {
		confPath = os.Getenv("KRB5_CONFIG")
	}
	if confPath == "" {
		confPath = "/etc/krb5.conf"
	}
	conf, err := config.Load(confPath)
	if err != nil {
		return nil, fmt.Errorf("auth: load krb5.conf from %s: %w", confPath, err)
	}

	var cl *client.Client
	if creds.KeytabPath != "" {
		kt, err := keytab.Load(creds.KeytabPath)
		if err != nil {
			return nil, fmt.Errorf("auth: load keytab from %s: %w", creds.KeytabPath, err)
		}
		cl = client.NewWithKeytab(creds.Username, creds.Realm, kt, conf, client.DisablePAFXFAST(true))
	} else {
		ccachePath := os.Getenv("KRB5CCNAME")
		if ccachePath == "" {
			return nil, fmt.Errorf("auth: no keytab supplied and KRB5CCNAME is unset")
		}
		cc, err := credentials.LoadCCache(ccachePath)
		if err != nil {
			return nil, fmt.Errorf("auth: load credential cache from %s: %w", ccachePath, err)
		}
		cl, err = client.NewFromCCache(cc, conf, client.DisablePAFXFAST(true))
		if err != nil {
			return nil, fmt.Errorf("auth: create client from credential cache: %w", err)
		}
	}

	return &KerberosProvider{client: cl, targetSPN: creds.SPN}, nil
}

// Step performs one leg of the SPNEGO handshake. Mutual authentication
// (a server challenge after the client's initial token) is not supported:
// a WinRM/HTTPS listener completes the handshake in a single leg.
func (p *KerberosProvider) Step(ctx context.Context, inputToken []byte) ([]byte, bool, error) {
	if err := p.client.Login(); err != nil {
		return nil, false, fmt.Errorf("auth: kerberos login: %w", err)
	}

	if len(inputToken) != 0 {
		if !p.isComplete {
			return nil, false, fmt.Errorf("auth: received server token before client authentication completed (mutual auth not supported)")
		}
		return nil, false, nil
	}

	if p.spnegoClient == nil {
		p.spnegoClient = spnego.SPNEGOClient(p.client, p.targetSPN)
	}

	tkn, err := p.spnegoClient.InitSecContext()
	if err != nil {
		return nil, false, fmt.Errorf("auth: init security context: %w", err)
	}
	token, err := tkn.Marshal()
	if err != nil {
		return nil, false, fmt.Errorf("auth: marshal token: %w", err)
	}

	p.isComplete = true
	return token, false, nil
}

// Complete reports whether the handshake has produced a token.
func (p *KerberosProvider) Complete() bool {
	return p.isComplete
}

// Close releases the underlying Kerberos client's resources.
func (p *KerberosProvider) Close() error {
	p.client.Destroy()
	return nil
}
