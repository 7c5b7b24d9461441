// Package framestest builds frame file text for tests.
package framestest

import (
	"strconv"
	"strings"
)

// JoinLF joins multiple strings with LF line endings.
//
// Example:
//
//	content := framestest.JoinLF(
//		"$$##",
//		"..::",
//	) // -> "$$##\n..::"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

// Block renders one frame block without its trailing separator.
// The start and end arguments are written verbatim, so tests can pass
// malformed timestamps.
//
// Example:
//
//	framestest.Block(1, "00:00:00,000", "00:00:01,000", "A")
//	// -> "1\n00:00:00,000 --> 00:00:01,000\nA"
func Block(seq int, start, end string, lines ...string) string {
	head := []string{
		strconv.Itoa(seq),
		start + " --> " + end,
	}

	return JoinLF(append(head, lines...)...)
}

// File joins blocks with blank-line separators the way the upstream
// converter writes them, including the trailing blank line.
func File(blocks ...string) string {
	var sb strings.Builder

	for _, b := range blocks {
		sb.WriteString(b)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// WithCRLF converts LF line endings in s to CRLF.
func WithCRLF(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}
