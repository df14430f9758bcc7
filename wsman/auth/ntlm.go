package auth

import (
	"net/http"

	"github.com/Azure/go-ntlmssp"
)

// NTLMAuth implements plaintext NTLM authentication, the second of the
// three transport variants: no SPNEGO negotiation, just a Basic-auth-shaped
// credential handed to the NTLM handshake directly.
type NTLMAuth struct {
	creds Credentials
}

// NewNTLMAuth creates a new NTLM authentication handler.
func NewNTLMAuth(creds Credentials) *NTLMAuth {
	return &NTLMAuth{creds: creds}
}

// Name returns the authentication scheme name.
func (a *NTLMAuth) Name() string {
	return "NTLM"
}

// Transport wraps base with the NTLM handshake (github.com/Azure/go-ntlmssp),
// preceded by a credentialsRoundTripper that sets the Basic-auth-shaped
// header the ntlmssp negotiator reads its credentials from.
func (a *NTLMAuth) Transport(base http.RoundTripper) http.RoundTripper {
	return &credentialsRoundTripper{
		creds: a.creds,
		base:  ntlmssp.Negotiator{RoundTripper: base},
	}
}

// credentialsRoundTripper sets domain\username:password as a Basic auth
// header before delegating to the NTLM negotiator, which reads credentials
// off that header rather than taking them as constructor arguments.
type credentialsRoundTripper struct {
	creds Credentials
	base  http.RoundTripper
}

func (t *credentialsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	user := t.creds.Username
	if t.creds.Domain != "" {
		user = t.creds.Domain + `\` + user
	}
	reqCopy.SetBasicAuth(user, t.creds.Password)

	return t.base.RoundTrip(reqCopy)
}
