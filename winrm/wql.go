package winrm

import (
	"context"
	"fmt"

	"github.com/cwb124/WinRM/wsman"
)

// RunWQL issues a WQL query against the given CIM namespace (empty means
// wsman.DefaultWMINamespace) and returns the matching instances grouped by
// CIM class element name (e.g. "Win32_Service"). Each instance is a map
// keyed by CIM property name with every value wrapped into a slice — even
// single-valued properties — so callers never special-case cardinality.
func (s *Session) RunWQL(ctx context.Context, namespace, query string) (map[string][]wsman.EnumerateResult, error) {
	if query == "" {
		return nil, ErrInvalidQuery
	}
	results, err := s.client.Enumerate(ctx, s.snapshotConfig(), namespace, query)
	if err != nil {
		return nil, fmt.Errorf("winrm: run_wql: %w", err)
	}
	return results, nil
}
