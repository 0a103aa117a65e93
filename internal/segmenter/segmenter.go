// Package segmenter splits extracted filing text into "Item N" sections.
package segmenter

import (
	"regexp"
	"strings"

	"finqa/internal/domain"
)

// itemHeadingRe matches a line that starts with "Item 7", "ITEM 1A." and so on.
var itemHeadingRe = regexp.MustCompile(`(?i)(^|\n)(item\s+\d+[a-z]?\b[^\n]*)`)

// Normalize trims every line and drops the blank ones.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			kept = append(kept, ln)
		}
	}
	return strings.Join(kept, "\n")
}

// Split returns the sections of text in document order. Each heading owns the
// span up to the next heading; text before the first heading is dropped. With
// no headings at all the whole text becomes one FallbackSection.
func Split(text string) []domain.Section {
	cleaned := Normalize(text)
	matches := itemHeadingRe.FindAllStringSubmatchIndex(cleaned, -1)
	if len(matches) == 0 {
		return []domain.Section{{Heading: domain.FallbackSection, Text: cleaned}}
	}

	sections := make([]domain.Section, 0, len(matches))
	for i, m := range matches {
		// m[4]:m[5] is the heading group.
		start := m[4]
		end := len(cleaned)
		if i+1 < len(matches) {
			end = matches[i+1][4]
		}
		heading := strings.TrimSpace(cleaned[m[4]:m[5]])
		content := strings.TrimSpace(cleaned[start:end])

		body := ""
		if _, rest, found := strings.Cut(content, "\n"); found {
			body = strings.TrimSpace(rest)
		}
		sections = append(sections, domain.Section{Heading: heading, Text: body})
	}
	return sections
}
