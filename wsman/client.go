package wsman

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cwb124/WinRM/wsman/transport"
)

// Client drives the six WS-Management operations a WinRM endpoint needs:
// Create/Command/Receive/Signal/Delete for the cmd shell conversation, and
// Enumerate for WQL queries against WMI.
type Client struct {
	endpoint  string
	transport *transport.HTTPTransport
}

// NewClient creates a WSMan client bound to a single endpoint URL.
func NewClient(endpoint string, tr *transport.HTTPTransport) *Client {
	return &Client{endpoint: endpoint, transport: tr}
}

// NewMessageID generates a fresh WS-Addressing MessageID. Every outbound
// envelope gets its own — no two requests share a MessageID — so this is
// called once per operation, never cached.
func NewMessageID() string {
	return "uuid:" + strings.ToUpper(uuid.New().String())
}

// StreamChunk is one decoded rsp:Stream element's content, in the order it
// appeared in the Receive response body.
type StreamChunk struct {
	Name string // "stdout" or "stderr"
	Data []byte
}

// ReceiveResult holds the decoded output of one Receive call. Streams
// preserves the document order of the response's rsp:Stream elements —
// stdout and stderr chunks are not coalesced or reordered, since a single
// response can interleave them.
type ReceiveResult struct {
	Streams      []StreamChunk
	CommandState string
	ExitCode     int
	Done         bool
}

func (c *Client) header(action, resourceURI string, cfg Config) *Header {
	return NewHeader(HeaderParams{
		Action:      action,
		To:          c.endpoint,
		ResourceURI: resourceURI,
		MessageID:   NewMessageID(),
		Config:      cfg,
	})
}

// Create opens a cmd shell (WS-Transfer Create) and returns its endpoint
// reference, which carries the server-assigned ShellId selector.
func (c *Client) Create(ctx context.Context, cfg Config, options map[string]string, idleTimeout string) (*EndpointReference, error) {
	env := NewEnvelope().WithShellNamespace()
	env.WithHeader(c.header(ActionCreate, ResourceURICmd, cfg))

	if idleTimeout == "" {
		idleTimeout = "PT60M"
	}
	for name, value := range options {
		env.Header.WithOption(name, value)
	}

	body := `<rsp:Shell xmlns:rsp="` + NsShell + `">
  <rsp:InputStreams>stdin</rsp:InputStreams>
  <rsp:OutputStreams>stdout stderr</rsp:OutputStreams>
  <rsp:IdleTimeOut>` + idleTimeout + `</rsp:IdleTimeOut>
</rsp:Shell>`
	env.WithBody([]byte(body))

	respBody, err := c.sendEnvelope(ctx, cfg, "create", env)
	if err != nil {
		return nil, fmt.Errorf("wsman: create shell: %w", err)
	}

	var resp createResponse
	if err := xml.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("wsman: parse create response: %w", err)
	}

	epr := &EndpointReference{
		Address:     resp.Body.ResourceCreated.Address,
		ResourceURI: resp.Body.ResourceCreated.ReferenceParameters.ResourceURI,
		Selectors:   resp.Body.ResourceCreated.ReferenceParameters.SelectorSet.Selectors,
	}
	if epr.ResourceURI == "" {
		epr.ResourceURI = ResourceURICmd
	}
	if epr.ShellID() == "" {
		return nil, fmt.Errorf("wsman: create shell: server response carried no ShellId selector")
	}
	return epr, nil
}

// Command starts a command line in an open shell and returns the server's
// CommandId.
func (c *Client) Command(ctx context.Context, cfg Config, epr *EndpointReference, command string, arguments []string) (string, error) {
	h := c.header(ActionCommand, epr.ResourceURI, cfg)
	h.WithSelectors(epr.Selectors)
	h.WithOption("WINRS_CONSOLEMODE_STDIN", "TRUE")
	h.WithOption("WINRS_SKIP_CMD_SHELL", "FALSE")
	env := NewEnvelope().WithShellNamespace().WithHeader(h)

	body := `<rsp:CommandLine xmlns:rsp="` + NsShell + `">
  <rsp:Command>"` + xmlEscape(command) + `"</rsp:Command>
`
	for _, a := range arguments {
		body += `  <rsp:Arguments>` + xmlEscape(a) + `</rsp:Arguments>
`
	}
	body += `</rsp:CommandLine>`
	env.WithBody([]byte(body))

	respBody, err := c.sendEnvelope(ctx, cfg, "command", env)
	if err != nil {
		return "", fmt.Errorf("wsman: run command: %w", err)
	}

	var resp commandResponse
	if err := xml.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("wsman: parse command response: %w", err)
	}
	if resp.Body.CommandResponse.CommandID == "" {
		return "", fmt.Errorf("wsman: run command: server response carried no CommandId")
	}
	return resp.Body.CommandResponse.CommandID, nil
}

// Receive drains one round of a command's output streams. A response whose
// CommandState is not Done means the command is still running; the caller
// is expected to call Receive again in a loop until Done arrives, at which
// point ExitCode holds the command's exit code.
func (c *Client) Receive(ctx context.Context, cfg Config, epr *EndpointReference, commandID string) (*ReceiveResult, error) {
	h := c.header(ActionReceive, epr.ResourceURI, cfg)
	h.WithSelectors(epr.Selectors)
	h.WithOption("WSMAN_CMDSHELL_OPTION_KEEPALIVE", "True")
	env := NewEnvelope().WithShellNamespace().WithHeader(h)

	body := `<rsp:Receive xmlns:rsp="` + NsShell + `">
  <rsp:DesiredStream CommandId="` + commandID + `">stdout stderr</rsp:DesiredStream>
</rsp:Receive>`
	env.WithBody([]byte(body))

	respBody, err := c.sendEnvelope(ctx, cfg, "receive", env)
	if err != nil {
		var fault *Fault
		if errors.As(err, &fault) && fault.IsTimeout() {
			// The server's long-poll wait for new output elapsed with
			// nothing to report; this is routine, not a failure.
			return &ReceiveResult{}, nil
		}
		return nil, fmt.Errorf("wsman: receive: %w", err)
	}

	var resp receiveResponse
	if err := xml.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("wsman: parse receive response: %w", err)
	}

	result := &ReceiveResult{}
	for _, stream := range resp.Body.ReceiveResponse.Streams {
		if stream.Content == "" {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(stream.Content)
		if err != nil {
			return nil, fmt.Errorf("wsman: decode %s stream: %w", stream.Name, err)
		}
		result.Streams = append(result.Streams, StreamChunk{Name: stream.Name, Data: decoded})
	}

	result.CommandState = lastPathSegment(resp.Body.ReceiveResponse.CommandState.State)
	if result.CommandState == "Done" {
		if resp.Body.ReceiveResponse.CommandState.ExitCode == nil {
			return nil, fmt.Errorf("wsman: receive: CommandState is Done but the response carried no ExitCode")
		}
		result.ExitCode = *resp.Body.ReceiveResponse.CommandState.ExitCode
		result.Done = true
	}
	return result, nil
}

// Signal sends a control signal (e.g. terminate) to a running command.
func (c *Client) Signal(ctx context.Context, cfg Config, epr *EndpointReference, commandID, code string) error {
	h := c.header(ActionSignal, epr.ResourceURI, cfg)
	h.WithSelectors(epr.Selectors)
	env := NewEnvelope().WithShellNamespace().WithHeader(h)

	body := `<rsp:Signal xmlns:rsp="` + NsShell + `" CommandId="` + commandID + `">
  <rsp:Code>` + code + `</rsp:Code>
</rsp:Signal>`
	env.WithBody([]byte(body))

	_, err := c.sendEnvelope(ctx, cfg, "signal", env)
	if err != nil {
		return fmt.Errorf("wsman: signal: %w", err)
	}
	return nil
}

// Delete closes a shell (WS-Transfer Delete). The body is empty.
func (c *Client) Delete(ctx context.Context, cfg Config, epr *EndpointReference) error {
	h := c.header(ActionDelete, epr.ResourceURI, cfg)
	h.WithSelectors(epr.Selectors)
	env := NewEnvelope().WithHeader(h)

	_, err := c.sendEnvelope(ctx, cfg, "delete", env)
	if err != nil {
		return fmt.Errorf("wsman: delete shell: %w", err)
	}
	return nil
}

// EnumerateResult is one instance's property record from a WQL query
// response, keyed by CIM property name. Multiple values under the same
// key (e.g. a multi-valued property) are preserved in order.
type EnumerateResult map[string][]string

// Enumerate issues a WQL query (WS-Enumeration Enumerate with a WQL-dialect
// Filter) against the given CIM namespace and returns every instance the
// server returned in its first Enumerate response, keyed by the CIM class
// element name each instance was returned under (e.g. "Win32_Service").
// This module does not implement Pull: EnumerateResponse already carries
// the full item set for the bounded queries this library targets.
func (c *Client) Enumerate(ctx context.Context, cfg Config, namespace, query string) (map[string][]EnumerateResult, error) {
	resourceURI := WMIResourceURI(namespace)
	h := c.header(ActionEnumerate, resourceURI, cfg)
	env := NewEnvelope().WithHeader(h)

	body := fmt.Sprintf(`<wsen:Enumerate xmlns:wsen="%s">
  <wsman:OptimizeEnumeration xmlns:wsman="%s"/>
  <wsman:MaxElements xmlns:wsman="%s">32000</wsman:MaxElements>
  <wsman:Filter xmlns:wsman="%s" Dialect="%s">%s</wsman:Filter>
</wsen:Enumerate>`, NsEnumeration, NsWsman, NsWsman, NsWsman, DialectWQL, xmlEscape(query))
	env.WithBody([]byte(body))

	respBody, err := c.sendEnvelope(ctx, cfg, "enumerate", env)
	if err != nil {
		return nil, fmt.Errorf("wsman: enumerate: %w", err)
	}

	return parseEnumerateItems(respBody)
}

// sendEnvelope marshals env, posts it, and surfaces any SOAP fault in the
// (otherwise HTTP-200) response as an error. op names the WS-Management
// verb being sent (e.g. "create", "command") and is stamped onto any
// resulting Fault.
func (c *Client) sendEnvelope(ctx context.Context, cfg Config, op string, env *Envelope) ([]byte, error) {
	c.transport.SetOperationTimeout(time.Duration(cfg.OperationTimeoutSeconds()) * time.Second)

	body, err := env.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}

	respBody, err := c.transport.Post(ctx, c.endpoint, body)
	if err != nil {
		return nil, err
	}
	if err := CheckFault(op, respBody); err != nil {
		return nil, err
	}
	return respBody, nil
}

// xmlEscape escapes text for inclusion inside a hand-built XML body.
func xmlEscape(s string) string {
	var buf strings.Builder
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// lastPathSegment returns the trailing segment of a CommandState URI (e.g.
// ".../CommandState/Done" -> "Done").
func lastPathSegment(uri string) string {
	if i := strings.LastIndexByte(uri, '/'); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// Response types for XML parsing.

type createResponse struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		ResourceCreated struct {
			Address             string `xml:"Address"`
			ReferenceParameters struct {
				ResourceURI string `xml:"ResourceURI"`
				SelectorSet struct {
					Selectors []Selector `xml:"Selector"`
				} `xml:"SelectorSet"`
			} `xml:"ReferenceParameters"`
		} `xml:"ResourceCreated"`
	} `xml:"Body"`
}

type commandResponse struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		CommandResponse struct {
			CommandID string `xml:"CommandId"`
		} `xml:"CommandResponse"`
	} `xml:"Body"`
}

type receiveResponse struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		ReceiveResponse struct {
			Streams []struct {
				Name      string `xml:"Name,attr"`
				CommandID string `xml:"CommandId,attr"`
				Content   string `xml:",chardata"`
			} `xml:"Stream"`
			CommandState struct {
				State    string `xml:"State,attr"`
				ExitCode *int   `xml:"ExitCode"`
			} `xml:"CommandState"`
		} `xml:"ReceiveResponse"`
	} `xml:"Body"`
}

// enumerateItemsResponse captures only the envelope structure needed to
// reach the raw Items element; the CIM instance shape inside it is schema-
// per-class, so it is parsed generically by parseEnumerateItems.
type enumerateItemsResponse struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		EnumerateResponse struct {
			Items struct {
				Raw []byte `xml:",innerxml"`
			} `xml:"Items"`
		} `xml:"EnumerateResponse"`
	} `xml:"Body"`
}

// cimProperty is one <cim:Property NAME="...">value</cim:Property>-shaped
// element inside a CIM instance, tolerant of the p:/cim: prefix variance
// different WinRM listeners emit.
type cimProperty struct {
	XMLName xml.Name
	Name    string `xml:"NAME,attr"`
	Value   string `xml:",chardata"`
}

// cimInstance is one WMI instance returned by Enumerate.
type cimInstance struct {
	XMLName    xml.Name
	Properties []cimProperty `xml:",any"`
}

// parseEnumerateItems decodes the raw Items block into one EnumerateResult
// per CIM instance, grouped by the instance's class element name (e.g.
// "Win32_Service") — a single WQL query's Items block can in principle mix
// classes, so the class name is the grouping key rather than something
// dropped on the floor. Each property is wrapped into a []string even
// when the server returned exactly one value, so callers never
// special-case cardinality.
func parseEnumerateItems(respBody []byte) (map[string][]EnumerateResult, error) {
	var resp enumerateItemsResponse
	if err := xml.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("wsman: parse enumerate response: %w", err)
	}
	if len(resp.Body.EnumerateResponse.Items.Raw) == 0 {
		return nil, nil
	}

	wrapped := append([]byte("<items>"), resp.Body.EnumerateResponse.Items.Raw...)
	wrapped = append(wrapped, []byte("</items>")...)

	var items struct {
		Instances []cimInstance `xml:",any"`
	}
	if err := xml.Unmarshal(wrapped, &items); err != nil {
		return nil, fmt.Errorf("wsman: parse enumerate items: %w", err)
	}

	results := make(map[string][]EnumerateResult)
	for _, inst := range items.Instances {
		row := EnumerateResult{}
		for _, p := range inst.Properties {
			name := p.Name
			if name == "" {
				name = p.XMLName.Local
			}
			row[name] = append(row[name], p.Value)
		}
		class := inst.XMLName.Local
		results[class] = append(results[class], row)
	}
	return results, nil
}
