package frames

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// rangeSeparator separates the start and end timestamps of a frame.
const rangeSeparator = "-->"

// ParseTimestamp decodes a timestamp formatted as H:MM:SS,mmm.
//
// The hour field may have any number of digits. Fields are not range
// checked, so "0:75:00,000" decodes to 75 minutes.
func ParseTimestamp(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q: want H:MM:SS,mmm", ErrMalformedTimestamp, s)
	}

	secs, millis, ok := strings.Cut(parts[2], ",")
	if !ok {
		return 0, fmt.Errorf("%w: %q: missing milliseconds", ErrMalformedTimestamp, s)
	}

	var total int64

	for _, field := range []struct {
		value string
		scale int64
	}{
		{parts[0], 3600 * 1000},
		{parts[1], 60 * 1000},
		{secs, 1000},
		{millis, 1},
	} {
		n, err := strconv.ParseInt(field.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrMalformedTimestamp, s, err)
		}

		total += n * field.scale
	}

	return time.Duration(total) * time.Millisecond, nil
}

// FormatTimestamp encodes d as HH:MM:SS,mmm, truncating to milliseconds.
func FormatTimestamp(d time.Duration) string {
	ms := d.Milliseconds()

	hours := ms / 3_600_000
	ms -= hours * 3_600_000
	minutes := ms / 60_000
	ms -= minutes * 60_000
	seconds := ms / 1000
	ms -= seconds * 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, ms)
}

// parseRange decodes a "start --> end" line.
func parseRange(line string) (time.Duration, time.Duration, error) {
	startStr, endStr, ok := strings.Cut(line, rangeSeparator)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q: missing %q", ErrMalformedTimestamp, line, rangeSeparator)
	}

	start, err := ParseTimestamp(startStr)
	if err != nil {
		return 0, 0, err
	}

	end, err := ParseTimestamp(endStr)
	if err != nil {
		return 0, 0, err
	}

	return start, end, nil
}
