package judge

import "strings"

// Normalize canonicalises program output for comparison: CRLF becomes LF,
// every line is trimmed and blank lines are dropped.
func Normalize(text string) string {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
