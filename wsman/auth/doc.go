// Package auth provides the authentication schemes a WinRM endpoint
// negotiates over HTTP(S): Basic, NTLM, Kerberos, and the Negotiate
// (SPNEGO) wrapper around the latter two. winrm.Session selects one of
// these from a winrm.Credentials value (see winrm/creds.go) and installs
// it as the http.RoundTripper the wsman.Client posts SOAP envelopes
// through — this package knows nothing about shells, commands, or WQL.
//
// # Supported Authentication Methods
//
//   - Basic: HTTP Basic authentication (use only over TLS)
//   - NTLM: NT LAN Manager authentication (via github.com/Azure/go-ntlmssp)
//   - Kerberos: via gokrb5 (pure Go), SPNEGO-wrapped over HTTPS
//   - Negotiate: SPNEGO wrapper driven by a pluggable SecurityProvider
//
// # Usage
//
// NTLM authentication:
//
//	auth := auth.NewNTLMAuth(auth.Credentials{
//	    Username: "administrator",
//	    Password: "password",
//	    Domain:   "DOMAIN",
//	})
//
// Kerberos authentication, against a keytab:
//
//	provider, _ := auth.NewKerberosProvider(auth.KerberosCredentials{
//	    Realm:      "DOMAIN.COM",
//	    Username:   "administrator",
//	    SPN:        "HTTP/winrm-host.domain.com",
//	    KeytabPath: "/etc/winrm/administrator.keytab",
//	})
//	auth := auth.NewNegotiateAuth(provider)
//
// Kerberos against the credential cache named by $KRB5CCNAME (e.g. after
// kinit), leaving KeytabPath empty:
//
//	provider, _ := auth.NewKerberosProvider(auth.KerberosCredentials{
//	    Realm:    "DOMAIN.COM",
//	    Username: "administrator",
//	    SPN:      "HTTP/winrm-host.domain.com",
//	})
//	auth := auth.NewNegotiateAuth(provider)
package auth
