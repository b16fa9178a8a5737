package report

import "strings"

// bulletMarker is the bullet prefix the prompts ask for and the reflow
// pass normalizes to.
const bulletMarker = "•"

// ReflowBullets guarantees that every bullet marker starts its own line.
// Models sometimes run bullets together on one line despite instructions;
// this deterministic pass normalizes that before callers see the text.
func ReflowBullets(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var out []string
	for _, line := range lines {
		out = append(out, splitInlineBullets(line)...)
	}

	return strings.Join(out, "\n")
}

// splitInlineBullets breaks a line containing mid-line bullet markers into
// one line per bullet. Lines without inline markers pass through unchanged.
func splitInlineBullets(line string) []string {
	if !strings.Contains(line, bulletMarker) {
		return []string{line}
	}

	parts := strings.Split(line, bulletMarker)

	var out []string
	if head := strings.TrimSpace(parts[0]); head != "" {
		out = append(out, head)
	}
	for _, part := range parts[1:] {
		if body := strings.TrimSpace(part); body != "" {
			out = append(out, bulletMarker+" "+body)
		}
	}

	if len(out) == 0 {
		// The line was nothing but markers and whitespace.
		return nil
	}

	return out
}
