package resume

import (
	"strings"
	"unicode"
)

// Paragraph is a block of text with an optional layout role such as
// "title" or "sectionHeading".
type Paragraph struct {
	Content string
	Role    string
}

const (
	maxHeadingLen   = 50
	maxSkillItemLen = 100
)

// DetectSections groups paragraphs under the closest preceding heading.
// When no heading mentions skills, short bullet items are collected into a
// "Skills" section.
func DetectSections(paragraphs []Paragraph) map[string]string {
	sections := map[string]string{}
	var current string
	var body []string
	flush := func() {
		if current != "" {
			sections[current] = strings.Join(body, "\n")
		}
	}

	for _, p := range paragraphs {
		content := strings.TrimSpace(p.Content)
		if content == "" {
			continue
		}
		if isHeading(content, p.Role) {
			flush()
			current = strings.TrimSpace(strings.TrimRight(content, ":"))
			body = body[:0]
			continue
		}
		body = append(body, content)
	}
	flush()

	if !hasSection(sections, "skill") {
		var items []string
		for _, p := range paragraphs {
			content := strings.TrimSpace(p.Content)
			if isBullet(content) && len(content) < maxSkillItemLen {
				items = append(items, content)
			}
		}
		if len(items) > 0 {
			sections["Skills"] = strings.Join(items, "\n")
		}
	}
	return sections
}

func isHeading(content, role string) bool {
	switch role {
	case "title", "sectionHeading", "heading":
		return true
	}
	if strings.HasSuffix(content, ":") {
		return true
	}
	return len(content) < maxHeadingLen && isUpper(content)
}

// isUpper requires at least one letter so lines like "2019 - 2021" are not headings.
func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isBullet(s string) bool {
	return strings.HasPrefix(s, "•") || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "*")
}

func hasSection(sections map[string]string, needle string) bool {
	for name := range sections {
		if strings.Contains(strings.ToLower(name), needle) {
			return true
		}
	}
	return false
}
