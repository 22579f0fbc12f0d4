package tui

import (
	"net/url"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// droppedFiles reports the files a paste refers to. Terminals deliver a
// dragged file as its path, quoted or backslash-escaped, sometimes as a
// file:// URI. The paste only counts as a drop when every token is an
// existing regular file.
func droppedFiles(text string) ([]string, bool) {
	tokens := splitPathTokens(text)
	if len(tokens) == 0 {
		return nil, false
	}
	paths := make([]string, 0, len(tokens))
	for _, token := range tokens {
		path, ok := normalizeDropPath(token)
		if !ok {
			return nil, false
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return nil, false
		}
		paths = append(paths, path)
	}
	return paths, true
}

func normalizeDropPath(token string) (string, bool) {
	if strings.HasPrefix(token, "file://") {
		u, err := url.Parse(token)
		if err != nil || (u.Host != "" && u.Host != "localhost") {
			return "", false
		}
		return u.Path, u.Path != ""
	}
	expanded, err := homedir.Expand(token)
	if err != nil {
		return "", false
	}
	return expanded, expanded != ""
}

func splitPathTokens(text string) []string {
	var (
		tokens  []string
		current strings.Builder
		quote   rune
		escaped bool
		started bool
	)
	flush := func() {
		if started {
			tokens = append(tokens, current.String())
		}
		current.Reset()
		started = false
	}
	for _, r := range text {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			started = true
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			started = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if quote != 0 {
		return nil
	}
	flush()
	return tokens
}
