// Package wsman implements the WS-Management (WSMan) protocol engine used
// to talk to WinRM listeners: SOAP 1.2 envelope construction, the
// WS-Addressing/WS-Management header set, and the Create/Command/Receive/
// Signal/Delete/Enumerate operations a WinRM endpoint understands.
//
// # Subpackages
//
//   - auth: authentication handlers (Kerberos/SPNEGO, NTLM, TLS+Basic)
//   - transport: HTTP(S) transport layer
package wsman

// XML Namespace URIs for WS-Management protocol.
const (
	// NsSoap is the SOAP 1.2 envelope namespace.
	NsSoap = "http://www.w3.org/2003/05/soap-envelope"

	// NsAddressing is the WS-Addressing namespace.
	NsAddressing = "http://schemas.xmlsoap.org/ws/2004/08/addressing"

	// NsWsman is the DMTF WS-Management namespace.
	NsWsman = "http://schemas.dmtf.org/wbem/wsman/1/wsman.xsd"

	// NsWsmanMicrosoft is the Microsoft WS-Management namespace extension.
	NsWsmanMicrosoft = "http://schemas.microsoft.com/wbem/wsman/1/wsman.xsd"

	// NsShell is the Windows Remote Shell namespace.
	NsShell = "http://schemas.microsoft.com/wbem/wsman/1/windows/shell"

	// NsTransfer is the WS-Transfer namespace.
	NsTransfer = "http://schemas.xmlsoap.org/ws/2004/09/transfer"

	// NsEnumeration is the WS-Enumeration namespace.
	NsEnumeration = "http://schemas.xmlsoap.org/ws/2004/09/enumeration"

	// NsXsi is the XML Schema Instance namespace.
	NsXsi = "http://www.w3.org/2001/XMLSchema-instance"
)

// AddressAnonymous is the WS-Addressing anonymous reply-to address.
const AddressAnonymous = "http://schemas.xmlsoap.org/ws/2004/08/addressing/role/anonymous"

// WSMan action URIs. Every one of these is sent with mustUnderstand=true.
const (
	// ActionCreate opens a cmd shell.
	ActionCreate = "http://schemas.xmlsoap.org/ws/2004/09/transfer/Create"

	// ActionDelete closes a shell.
	ActionDelete = "http://schemas.xmlsoap.org/ws/2004/09/transfer/Delete"

	// ActionCommand starts a command within a shell.
	ActionCommand = "http://schemas.microsoft.com/wbem/wsman/1/windows/shell/Command"

	// ActionReceive drains a command's output streams.
	ActionReceive = "http://schemas.microsoft.com/wbem/wsman/1/windows/shell/Receive"

	// ActionSignal sends a control signal (e.g. terminate) to a command.
	ActionSignal = "http://schemas.microsoft.com/wbem/wsman/1/windows/shell/Signal"

	// ActionEnumerate enumerates resources (used for WQL/WMI queries).
	ActionEnumerate = "http://schemas.xmlsoap.org/ws/2004/09/enumeration/Enumerate"
)

// Signal codes for the Signal action.
const (
	// SignalTerminate terminates a command.
	SignalTerminate = "http://schemas.microsoft.com/wbem/wsman/1/windows/shell/signal/terminate"

	// SignalCtrlC sends Ctrl+C to a running command.
	SignalCtrlC = "http://schemas.microsoft.com/wbem/wsman/1/windows/shell/signal/ctrl_c"

	// SignalCtrlBreak sends Ctrl+Break to a running command.
	SignalCtrlBreak = "http://schemas.microsoft.com/wbem/wsman/1/windows/shell/signal/ctrl_break"
)

// Resource URIs.
const (
	// ResourceURICmd is the resource URI for a cmd.exe shell.
	ResourceURICmd = "http://schemas.microsoft.com/wbem/wsman/1/windows/shell/cmd"

	// wmiResourceURIPrefix is prepended to a CIM namespace path (default
	// DefaultWMINamespace) to build the resource URI run_wql targets.
	wmiResourceURIPrefix = "http://schemas.microsoft.com/wbem/wsman/1/wmi/"

	// DefaultWMINamespace is the default CIM namespace for WQL queries.
	DefaultWMINamespace = "root/cimv2/*"
)

// WMIResourceURI builds the resource URI for a WMI namespace path. An empty
// namespace falls back to DefaultWMINamespace.
func WMIResourceURI(namespace string) string {
	if namespace == "" {
		namespace = DefaultWMINamespace
	}
	return wmiResourceURIPrefix + namespace
}

// DialectWQL is the filter dialect URI for a WQL query inside an Enumerate
// request's Filter element.
const DialectWQL = "http://schemas.microsoft.com/wbem/wsman/1/WQL"
