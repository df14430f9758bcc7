package winrm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/cwb124/WinRM/wsman"
)

// TestRunWQL_NormalizationAndFilterShape checks that a single matching
// instance comes back keyed by its CIM class element name as a
// length-one slice, and the request body carries the expected WQL
// Filter/Dialect shape.
func TestRunWQL_NormalizationAndFilterShape(t *testing.T) {
	var receivedBody string
	sess, closeFn := testSession(t, func(w http.ResponseWriter, r *http.Request) {
		receivedBody = readRequestBody(t, r)
		_, _ = w.Write([]byte(`<s:Envelope xmlns:s="http://www.w3.org/2003/05/soap-envelope">
  <s:Body>
    <wsen:EnumerateResponse xmlns:wsen="` + wsman.NsEnumeration + `">
      <wsman:Items xmlns:wsman="` + wsman.NsWsman + `">
        <p:Win32_Service xmlns:p="http://schemas.microsoft.com/wbem/wsman/1/wmi/root/cimv2/Win32_Service">
          <p:Name>winrm</p:Name>
          <p:State>Running</p:State>
        </p:Win32_Service>
      </wsman:Items>
    </wsen:EnumerateResponse>
  </s:Body>
</s:Envelope>`))
	})
	defer closeFn()

	classes, err := sess.RunWQL(context.Background(), "", "SELECT * FROM Win32_Service")
	if err != nil {
		t.Fatalf("RunWQL: %v", err)
	}
	rows, ok := classes["Win32_Service"]
	if !ok || len(rows) != 1 {
		t.Fatalf("got %+v, want one row under key \"Win32_Service\"", classes)
	}
	if got := rows[0]["Name"]; len(got) != 1 || got[0] != "winrm" {
		t.Errorf("Name = %+v, want a single-element slice [\"winrm\"]", got)
	}

	wantFilter := `<wsman:Filter xmlns:wsman="` + wsman.NsWsman + `" Dialect="` + wsman.DialectWQL + `">SELECT * FROM Win32_Service</wsman:Filter>`
	if !strings.Contains(receivedBody, wantFilter) {
		t.Errorf("request body missing WQL filter shape, got:\n%s", receivedBody)
	}
}

func TestRunWQL_EmptyQueryRejected(t *testing.T) {
	sess, closeFn := testSession(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be sent for an empty query")
	})
	defer closeFn()

	if _, err := sess.RunWQL(context.Background(), "", ""); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("err = %v, want ErrInvalidQuery", err)
	}
}
