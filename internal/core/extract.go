package core

import (
	"regexp"
	"strings"
)

// Pre-compiled extraction patterns.
var (
	// Text between a '[' and the next ',' with no ']' or ',' in between.
	itemRegex = regexp.MustCompile(`\[([^\],]+),`)

	// Message after "[Error:" up to the "(FullSyndicate" marker.
	errorBoundedRegex = regexp.MustCompile(`\[Error:\s*(.*?)\(FullSyndicate`)

	// Message after "[Error:" to the end of the line when the marker is missing.
	errorOpenRegex = regexp.MustCompile(`\[Error:\s*(.*)`)
)

// ExtractItem returns the label of a report line: the text between the first
// '[' that is followed by a comma-terminated segment and that comma. The value
// is returned untrimmed. ok is false when no such segment exists.
func ExtractItem(text string) (item string, ok bool) {
	m := itemRegex.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractError returns the trimmed message following "[Error:". When a
// "(FullSyndicate" marker follows, the message stops there; otherwise it runs
// to the end of the line. ok is false when "[Error:" does not occur.
func ExtractError(text string) (msg string, ok bool) {
	if m := errorBoundedRegex.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := errorOpenRegex.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}
