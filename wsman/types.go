package wsman

// EndpointReference represents a WS-Addressing Endpoint Reference (EPR).
// It identifies a created shell instance on the server: its Selectors
// always include a ShellId selector once Create succeeds.
type EndpointReference struct {
	Address     string     `xml:"Address"`
	ResourceURI string     `xml:"ReferenceParameters>ResourceURI"`
	Selectors   []Selector `xml:"ReferenceParameters>SelectorSet>Selector"`
}

// ShellID returns the value of the ShellId selector, or "" if absent.
func (e *EndpointReference) ShellID() string {
	for _, s := range e.Selectors {
		if s.Name == "ShellId" {
			return s.Value
		}
	}
	return ""
}
