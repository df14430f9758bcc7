// Package transport provides the HTTP/TLS transport wsman.Client posts its
// SOAP envelopes through.
//
// The transport layer handles:
//   - HTTP/HTTPS connections
//   - TLS configuration
//   - Request/response handling
//   - deriving a read deadline from the WS-Management OperationTimeout a
//     request carries, via SetOperationTimeout, so a slow server triggers
//     the protocol's own timeout fault instead of a bare connection reset
package transport
