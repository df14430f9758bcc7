package wsman

import (
	"fmt"
	"strconv"
	"strings"
)

// OperationTimeout converts a positive number of seconds to the ISO-8601
// duration literal WS-Management expects for w:OperationTimeout, of the
// form "PT<sec>S".
func OperationTimeout(seconds int) string {
	return fmt.Sprintf("PT%dS", seconds)
}

// ParseOperationTimeoutSeconds parses a "PT<sec>S" literal back into a
// number of seconds, for round-tripping and for interpreting
// OperationTimeout values on incoming fault text.
func ParseOperationTimeoutSeconds(duration string) (int, error) {
	if !strings.HasPrefix(duration, "PT") || !strings.HasSuffix(duration, "S") {
		return 0, fmt.Errorf("wsman: %q is not a PT<seconds>S duration", duration)
	}
	s := strings.TrimSuffix(strings.TrimPrefix(duration, "PT"), "S")
	seconds, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("wsman: parse duration %q: %w", duration, err)
	}
	return seconds, nil
}
