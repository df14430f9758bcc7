package winrm

import (
	"time"

	"github.com/cwb124/WinRM/wsman"
)

// Config holds the session-level settings a caller may change between
// operations: operation timeout, max envelope size, and locale. Unlike
// wsman.Config (seconds as an int, snapshot-per-operation), this is the
// caller-facing Duration-based form; toWSManConfig converts it once per
// call site.
type Config struct {
	// OperationTimeout is the WS-Management operation timeout. Zero means
	// "use the 60s default".
	OperationTimeout time.Duration

	// MaxEnvelopeSize is the max envelope size in octets. Zero means
	// "use the 153600 default".
	MaxEnvelopeSize int

	// Locale is a BCP-47 locale tag. Empty means "use en-US".
	Locale string
}

// NewConfig returns a Config with the default values applied.
func NewConfig() Config {
	return Config{
		OperationTimeout: time.Duration(wsman.DefaultOperationTimeout) * time.Second,
		MaxEnvelopeSize:  wsman.DefaultMaxEnvelopeSize,
		Locale:           wsman.DefaultLocale,
	}
}

// toWSManConfig converts to the seconds-based Config the wsman package
// operations take.
func (c Config) toWSManConfig() wsman.Config {
	return wsman.Config{
		OperationTimeout: int(c.OperationTimeout.Seconds()),
		MaxEnvelopeSize:  c.MaxEnvelopeSize,
		Locale:           c.Locale,
	}
}
