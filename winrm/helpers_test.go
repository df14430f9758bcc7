package winrm

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cwb124/WinRM/wsman"
)

// testSession spins up an httptest.Server driven by handler and returns a
// Session opened against it. Credentials are throwaway Basic auth; the
// fake server never checks them.
func testSession(t *testing.T, handler http.HandlerFunc) (*Session, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	sess, err := Open(server.URL, Credentials{Method: AuthTLSBasic, Username: "u", Password: "p"}, NewConfig())
	if err != nil {
		server.Close()
		t.Fatalf("Open: %v", err)
	}
	return sess, server.Close
}

func testEPR() *wsman.EndpointReference {
	return &wsman.EndpointReference{
		ResourceURI: wsman.ResourceURICmd,
		Selectors:   []wsman.Selector{wsman.NewSelector("ShellId", "shell-1")},
	}
}

func readRequestBody(t *testing.T, r *http.Request) string {
	t.Helper()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("read request body: %v", err)
	}
	return string(body)
}

func createResponseXML(shellID string) string {
	return `<s:Envelope xmlns:s="http://www.w3.org/2003/05/soap-envelope">
  <s:Body>
    <x:ResourceCreated xmlns:x="` + wsman.NsTransfer + `">
      <a:Address xmlns:a="` + wsman.NsAddressing + `">http://localhost:5985/wsman</a:Address>
      <a:ReferenceParameters xmlns:a="` + wsman.NsAddressing + `">
        <w:ResourceURI xmlns:w="` + wsman.NsWsman + `">` + wsman.ResourceURICmd + `</w:ResourceURI>
        <w:SelectorSet xmlns:w="` + wsman.NsWsman + `">
          <w:Selector Name="ShellId">` + shellID + `</w:Selector>
        </w:SelectorSet>
      </a:ReferenceParameters>
    </x:ResourceCreated>
  </s:Body>
</s:Envelope>`
}

func commandResponseXML(commandID string) string {
	return `<s:Envelope xmlns:s="http://www.w3.org/2003/05/soap-envelope">
  <s:Body>
    <rsp:CommandResponse xmlns:rsp="` + wsman.NsShell + `">
      <rsp:CommandId>` + commandID + `</rsp:CommandId>
    </rsp:CommandResponse>
  </s:Body>
</s:Envelope>`
}

func emptyResponseXML() string {
	return `<s:Envelope xmlns:s="http://www.w3.org/2003/05/soap-envelope"><s:Body/></s:Envelope>`
}
