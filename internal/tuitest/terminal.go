package tuitest

import (
	"bytes"
	"io"
)

// termQuery is a request a program may send its terminal and the answer a real
// terminal would give. Without answers, background detection blocks until it
// times out.
type termQuery struct {
	query []byte
	reply []byte
}

const responderTail = 64

type terminalResponder struct {
	w       io.Writer
	pending []byte
	queries []termQuery
}

func newTerminalResponder(w io.Writer, light bool) *terminalResponder {
	fg, bg := "cccc/cccc/cccc", "0000/0000/0000"
	if light {
		fg, bg = "0000/0000/0000", "ffff/ffff/ffff"
	}
	var queries []termQuery
	queries = append(queries, termQuery{query: []byte("\x1b[6n"), reply: []byte("\x1b[1;1R")})
	for _, st := range []string{"\x07", "\x1b\\"} {
		queries = append(queries,
			termQuery{query: []byte("\x1b]10;?" + st), reply: []byte("\x1b]10;rgb:" + fg + st)},
			termQuery{query: []byte("\x1b]11;?" + st), reply: []byte("\x1b]11;rgb:" + bg + st)},
		)
	}
	return &terminalResponder{w: w, queries: queries}
}

// Process answers every query found in chunk, including one split across the
// previous chunk.
func (tr *terminalResponder) Process(chunk []byte) {
	tr.pending = append(tr.pending, chunk...)
	for tr.answerFirst() {
	}
	if len(tr.pending) > responderTail {
		tr.pending = append([]byte(nil), tr.pending[len(tr.pending)-responderTail:]...)
	}
}

// answerFirst replies to the earliest query in pending and drops everything
// up to its end.
func (tr *terminalResponder) answerFirst() bool {
	first, at := -1, -1
	for i, p := range tr.queries {
		if idx := bytes.Index(tr.pending, p.query); idx >= 0 && (at < 0 || idx < at) {
			first, at = i, idx
		}
	}
	if first < 0 {
		return false
	}
	p := tr.queries[first]
	tr.pending = tr.pending[at+len(p.query):]
	_, _ = tr.w.Write(p.reply)
	return true
}
