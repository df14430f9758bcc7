package winrm

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cwb124/WinRM/wsman"
	"github.com/cwb124/WinRM/wsman/transport"
)

// Session is a single WinRM endpoint connection: the transport, its
// authentication, and the mutable per-session Config every operation
// snapshots values from. A Session is safe to share across goroutines
// provided the Shells/commands it creates are not (see package docs on
// Shell).
type Session struct {
	mu       sync.Mutex
	endpoint string
	client   *wsman.Client
	cfg      Config
}

// Open validates the endpoint and builds a Session authenticated per
// creds. The endpoint must be an absolute http(s) URL (e.g.
// "https://host:5986/wsman").
func Open(endpoint string, creds Credentials, cfg Config) (*Session, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}
	if cfg.OperationTimeout < 0 {
		return nil, ErrNegativeTimeout
	}

	tr := transport.NewHTTPTransport()
	if u.Scheme == "https" {
		tlsCfg, err := buildTLSConfig(creds)
		if err != nil {
			return nil, err
		}
		tr = transport.NewHTTPTransport(transport.WithTLSConfig(tlsCfg))
	}

	authenticator, err := buildAuthenticator(creds)
	if err != nil {
		return nil, err
	}
	tr.Client().Transport = authenticator.Transport(tr.Client().Transport)

	return &Session{
		endpoint: endpoint,
		client:   wsman.NewClient(endpoint, tr),
		cfg:      cfg,
	}, nil
}

// Endpoint returns the session's WinRM endpoint URL.
func (s *Session) Endpoint() string {
	return s.endpoint
}

// Config returns a copy of the session's current configuration.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetOperationTimeout changes the OperationTimeout future operations
// snapshot into their header block.
func (s *Session) SetOperationTimeout(d time.Duration) error {
	if d < 0 {
		return ErrNegativeTimeout
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.OperationTimeout = d
	return nil
}

// SetMaxEnvelopeSize changes the MaxEnvelopeSize future operations
// snapshot into their header block.
func (s *Session) SetMaxEnvelopeSize(octets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.MaxEnvelopeSize = octets
}

// SetLocale changes the Locale future operations snapshot into their
// header block.
func (s *Session) SetLocale(locale string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Locale = locale
}

func (s *Session) snapshotConfig() wsman.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.toWSManConfig()
}
