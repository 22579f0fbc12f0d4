package tuitest

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestParseFramesSplitsOnClear(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[H\x1b[1mjot\x1b[0m /\r\nfirst   \r\n\x1b[2J\x1b[Hjot /?q=x\r\nsecond\r\n\r\n")
	frames := parseFrames(raw)
	if len(frames) != 2 {
		t.Fatalf("frames got %d want 2", len(frames))
	}
	if frames[0].Plain != "jot /\nfirst" {
		t.Fatalf("first frame got %q", frames[0].Plain)
	}
	rec := &Recording{Raw: raw, Frames: frames}
	last, ok := rec.FinalFrame()
	if !ok || !strings.Contains(last.Plain, "second") {
		t.Fatalf("final frame got %q", last.Plain)
	}
	if !rec.AnyFrameContains("first") || rec.AnyFrameContains("third") {
		t.Fatal("AnyFrameContains mismatch")
	}
	if !rec.Contains("jot /?q=x") {
		t.Fatal("Contains should see text across escapes")
	}
}

func TestPasteAndType(t *testing.T) {
	if got := Paste("/tmp/a b.png"); !bytes.Equal(got, []byte("/tmp/a b.png")) {
		t.Fatalf("paste got %q", got)
	}
	steps := Type("ab", 0)
	if len(steps) != 2 || string(steps[0].Input) != "a" || string(steps[1].Input) != "b" {
		t.Fatalf("type got %+v", steps)
	}
}

func TestTerminalResponderAnswersQueries(t *testing.T) {
	var out bytes.Buffer
	responder := newTerminalResponder(&out, false)
	responder.Process([]byte("noise\x1b[6n"))
	responder.Process([]byte("\x1b]11;"))
	responder.Process([]byte("?\x07\x1b]10;?\x1b\\"))
	want := "\x1b[1;1R\x1b]11;rgb:0000/0000/0000\x07\x1b]10;rgb:cccc/cccc/cccc\x1b\\"
	if out.String() != want {
		t.Fatalf("responses got %q want %q", out.String(), want)
	}
}

func TestTerminalResponderLightBackground(t *testing.T) {
	var out bytes.Buffer
	newTerminalResponder(&out, true).Process([]byte("\x1b]11;?\x1b\\"))
	if want := "\x1b]11;rgb:ffff/ffff/ffff\x1b\\"; out.String() != want {
		t.Fatalf("response got %q want %q", out.String(), want)
	}
}

func TestReplayWaitsForText(t *testing.T) {
	screen := &capture{}
	var written []string
	write := func(b []byte) (int, error) {
		written = append(written, string(b))
		return len(b), nil
	}
	go func() {
		time.Sleep(50 * time.Millisecond)
		screen.mu.Lock()
		screen.buf.WriteString("\x1b[1mready\x1b[0m")
		screen.mu.Unlock()
	}()

	steps := []Step{{Input: []byte("a")}, WaitFor("ready"), {Input: []byte("b")}}
	if err := replay(context.Background(), steps, screen, write); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if strings.Join(written, "") != "ab" {
		t.Fatalf("written got %q", written)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := replay(ctx, []Step{WaitFor("never")}, screen, write); err == nil {
		t.Fatal("expected a timeout waiting for missing text")
	}
}
