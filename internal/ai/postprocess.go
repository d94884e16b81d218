package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// PostProcessor validates and cleans generated content before it is
// persisted.
type PostProcessor struct {
	maxTags              int
	maxDescriptionLength int
}

// NewPostProcessor returns a PostProcessor with default limits.
func NewPostProcessor() *PostProcessor {
	return &PostProcessor{
		maxTags:              10,
		maxDescriptionLength: 2000,
	}
}

var controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]`)

// CleanDescription strips control characters and normalizes whitespace.
func (p *PostProcessor) CleanDescription(s string) string {
	s = controlChars.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > p.maxDescriptionLength {
		s = s[:p.maxDescriptionLength]
	}
	return strings.TrimSpace(s)
}

// ParseTags accepts either a JSON array of strings or a newline/comma
// separated list, then trims, lowercases, dedupes, and caps the result.
func (p *PostProcessor) ParseTags(raw string) []string {
	raw = strings.TrimSpace(raw)

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		sep := "\n"
		if strings.Contains(raw, ",") {
			sep = ","
		}
		tags = strings.Split(raw, sep)
	}

	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.Trim(strings.TrimSpace(t), `-*"'`))
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if len(out) == p.maxTags {
			break
		}
	}
	return out
}

var dangerousTags = []string{"script", "iframe", "object", "embed"}

// SanitizeLandingPage strips script-capable elements from generated HTML.
func (p *PostProcessor) SanitizeLandingPage(html string) string {
	for _, tag := range dangerousTags {
		re := regexp.MustCompile(fmt.Sprintf(`(?is)<%s[^>]*>.*?</%s>`, tag, tag))
		html = re.ReplaceAllString(html, "")
		open := regexp.MustCompile(fmt.Sprintf(`(?i)<%s[^>]*/?>`, tag))
		html = open.ReplaceAllString(html, "")
	}
	return strings.TrimSpace(html)
}
