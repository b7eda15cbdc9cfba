package transcript

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimestamp converts a display timestamp ("1:05", "12:34", "1:02:05")
// into whole seconds. Anything that is not a 2- or 3-part colon string is an
// error; callers dealing with scraped rows typically substitute 0 rather
// than abort a whole transcript over one malformed stamp.
func ParseTimestamp(display string) (int, error) {
	parts := strings.Split(strings.TrimSpace(display), ":")

	switch len(parts) {
	case 2:
		m, err := parseStampField(parts[0])
		if err != nil {
			return 0, err
		}
		s, err := parseStampField(parts[1])
		if err != nil {
			return 0, err
		}
		return m*60 + s, nil
	case 3:
		h, err := parseStampField(parts[0])
		if err != nil {
			return 0, err
		}
		m, err := parseStampField(parts[1])
		if err != nil {
			return 0, err
		}
		s, err := parseStampField(parts[2])
		if err != nil {
			return 0, err
		}
		return h*3600 + m*60 + s, nil
	default:
		return 0, fmt.Errorf("malformed timestamp: %q", display)
	}
}

func parseStampField(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("malformed timestamp field: %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative timestamp field: %q", s)
	}
	return n, nil
}

// FormatTimestamp renders seconds as a display timestamp, omitting the hour
// field when zero and zero-padding the trailing fields to two digits.
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
