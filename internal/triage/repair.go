package triage

import (
	"regexp"
	"strings"
)

var (
	fencedJSONRe    = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	lineCommentRe   = regexp.MustCompile(`//[^\n]*`)
)

// RepairJSON normalizes the common defects in model-produced JSON so it can
// be decoded: markdown code fences, byte order marks, trailing commas and
// line comments. The text between the outermost braces is returned; if no
// braces are found the cleaned text is returned as is.
func RepairJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if m := fencedJSONRe.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimPrefix(s, "\ufffe")

	s = lineCommentRe.ReplaceAllString(s, "")
	s = trailingCommaRe.ReplaceAllString(s, "$1")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}
