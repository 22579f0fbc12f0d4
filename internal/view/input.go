package view

import (
	"fmt"
	"strings"
)

// SearchPrefix switches the editor into search mode.
const SearchPrefix = "/"

// ParseSearch reports whether input is a search and, if so, its query.
func ParseSearch(input string) (string, bool) {
	if !strings.HasPrefix(input, SearchPrefix) {
		return "", false
	}
	return strings.TrimPrefix(input, SearchPrefix), true
}

// Reference is the Markdown inserted for an uploaded file. Paths containing
// spaces are wrapped in angle brackets so the link target stays intact.
func Reference(path string, isImage bool) string {
	name := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		name = path[idx+1:]
	}
	target := path
	if strings.Contains(path, " ") || strings.Contains(name, " ") {
		target = "<" + path + ">"
	}
	if isImage {
		return fmt.Sprintf("![%s](%s)", name, target)
	}
	return fmt.Sprintf("[%s](%s)", name, target)
}
