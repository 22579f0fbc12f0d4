package tuitest

import (
	"regexp"
	"strings"
)

// Frame is one full repaint, split on erase-display sequences.
type Frame struct {
	Index int
	ANSI  string
	Plain string
}

var (
	eraseDisplay = regexp.MustCompile(`\x1b\[[0-9;]*J`)
	csiSequence  = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	oscSequence  = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)
	shiftChars   = strings.NewReplacer("\x0e", "", "\x0f", "", "\x00", "")
)

func parseFrames(raw []byte) []Frame {
	text := strings.ReplaceAll(string(raw), "\r", "")
	var frames []Frame
	for _, part := range eraseDisplay.Split(text, -1) {
		part = strings.TrimPrefix(part, "\x1b[H")
		plain := tidy(stripANSI(part))
		if plain == "" {
			continue
		}
		frames = append(frames, Frame{Index: len(frames), ANSI: part, Plain: plain})
	}
	if frames == nil && text != "" {
		frames = []Frame{{ANSI: text, Plain: tidy(stripANSI(text))}}
	}
	return frames
}

// FinalFrame is the last repaint, false when nothing was drawn.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// Contains reports whether text was drawn at any point. Renderers that repaint
// only changed lines never emit a frame separator, so prefer this over frame
// assertions.
func (r *Recording) Contains(text string) bool {
	return r != nil && strings.Contains(plainText(r.Raw), text)
}

// AnyFrameContains reports whether some full repaint shows text.
func (r *Recording) AnyFrameContains(text string) bool {
	if r == nil {
		return false
	}
	for _, f := range r.Frames {
		if strings.Contains(f.Plain, text) {
			return true
		}
	}
	return false
}

func plainText(raw []byte) string {
	return stripANSI(strings.ReplaceAll(string(raw), "\r", ""))
}

func stripANSI(s string) string {
	s = oscSequence.ReplaceAllString(s, "")
	s = csiSequence.ReplaceAllString(s, "")
	return shiftChars.Replace(s)
}

// tidy drops trailing spaces on each line and trailing blank lines.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[:end], "\n")
}
