package client

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SectionPrompt builds the classification prompt for a target description
// and a gridWidth x gridWidth numbered overlay.
func SectionPrompt(target string, gridWidth int) string {
	sections := gridWidth * gridWidth
	return fmt.Sprintf(`<task>
Identify which numbered section contains the %s in the provided image.
</task>

<instructions>
1. Locate your target: the %s in the image
2. Determine which red-numbered section it primarily occupies
3. If the target spans multiple sections, choose the section that contains the center/majority of the target
4. Only the area inside the highlighted outline is in scope; ignore unnumbered surroundings
</instructions>

<format>
Return only the section number (1-%d) that best represents the location of the %s.
</format>`, target, target, sections, target)
}

var cellNumberRe = regexp.MustCompile(`-?\d+`)

// ParseCellNumber extracts the cell number from a model reply. Code fences
// and surrounding prose are tolerated; a reply without a number, or with
// more than one distinct number, is ErrMalformedResponse. The value is NOT
// range-checked here.
func ParseCellNumber(raw string) (int, error) {
	s := stripFences(raw)
	if s == "" {
		return 0, fmt.Errorf("empty reply: %w", ErrMalformedResponse)
	}

	matches := cellNumberRe.FindAllString(s, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("no number in %q: %w", truncate(raw, 80), ErrMalformedResponse)
	}

	first, err := strconv.Atoi(matches[0])
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", matches[0], ErrMalformedResponse)
	}
	for _, m := range matches[1:] {
		n, err := strconv.Atoi(m)
		if err != nil || n != first {
			return 0, fmt.Errorf("ambiguous reply %q: %w", truncate(raw, 80), ErrMalformedResponse)
		}
	}
	return first, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i >= 0 {
			s = s[i+1:]
		}
		if j := strings.LastIndex(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	return strings.TrimSpace(strings.Trim(s, "`"))
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
