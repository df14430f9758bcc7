package wsman

import "encoding/xml"

// Envelope represents a SOAP 1.2 envelope for a WS-Management message. The
// body shape is always exactly one Header and one Body: the Body wraps a
// single input element (rsp:Shell, rsp:CommandLine, rsp:Receive, ...)
// except for Delete, whose Body is empty.
type Envelope struct {
	XMLName xml.Name `xml:"s:Envelope"`

	// Namespace declarations. NsShellNs is only emitted for shell bodies
	// (see WithShellNamespace); NsXsiAttr is omitted unless set, and no
	// operation in this package sets it.
	NsSoap    string `xml:"xmlns:s,attr"`
	NsAddr    string `xml:"xmlns:a,attr"`
	NsWsman   string `xml:"xmlns:w,attr"`
	NsMsWsman string `xml:"xmlns:p,attr"`
	NsShellNs string `xml:"xmlns:rsp,attr,omitempty"`
	NsXsiAttr string `xml:"xmlns:xsi,attr,omitempty"`

	Header *Header `xml:"s:Header"`
	Body   *Body   `xml:"s:Body"`
}

// Body represents the SOAP body. Content is pre-serialized XML for the
// operation's input element, or nil for an empty body (Delete).
type Body struct {
	Content []byte `xml:",innerxml"`
}

// NewEnvelope creates an envelope with the fixed namespace declarations
// every WS-Management message carries.
func NewEnvelope() *Envelope {
	return &Envelope{
		NsSoap:    NsSoap,
		NsAddr:    NsAddressing,
		NsWsman:   NsWsman,
		NsMsWsman: NsWsmanMicrosoft,
		Header:    &Header{},
		Body:      &Body{},
	}
}

// WithHeader replaces the envelope's header block.
func (e *Envelope) WithHeader(h *Header) *Envelope {
	e.Header = h
	return e
}

// WithShellNamespace declares the Windows Remote Shell namespace prefix
// (rsp:) used by Shell/CommandLine/Receive/Signal bodies.
func (e *Envelope) WithShellNamespace() *Envelope {
	e.NsShellNs = NsShell
	return e
}

// WithBody sets the pre-serialized SOAP body content.
func (e *Envelope) WithBody(content []byte) *Envelope {
	e.Body.Content = content
	return e
}

// Marshal serializes the envelope to XML.
func (e *Envelope) Marshal() ([]byte, error) {
	return xml.Marshal(e)
}

// MarshalIndent serializes the envelope to indented XML, useful for tests
// and debugging output.
func (e *Envelope) MarshalIndent(prefix, indent string) ([]byte, error) {
	return xml.MarshalIndent(e, prefix, indent)
}
