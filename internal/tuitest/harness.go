// Package tuitest drives a terminal program through a pseudo terminal and
// records what it draws, so end-to-end tests can script keystrokes and pastes
// against the real binary.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 100
	defaultHeight  = 30
	defaultTimeout = 10 * time.Second
	pollInterval   = 20 * time.Millisecond
)

// Step is one scripted action. Delay is waited first; then, when Until is
// set, the step blocks until that text has been drawn; finally Input is
// written to the terminal.
type Step struct {
	Delay time.Duration
	Until string
	Input []byte
}

// Config describes the program and the script to replay against it.
type Config struct {
	Command []string
	Dir     string
	Env     []string
	Width   int
	Height  int
	Steps   []Step
	// Timeout bounds the whole run, including waiting for exit.
	Timeout time.Duration
	// LightBackground makes the terminal report a white background to
	// color queries instead of a black one.
	LightBackground  bool
	AllowedExitCodes []int
	// AllowInterrupt accepts a program killed by SIGINT.
	AllowInterrupt bool
}

// Recording is everything the program wrote.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// Run starts cfg.Command on a PTY, replays the steps and waits for the program
// to exit.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, orDefault(cfg.Timeout, defaultTimeout))
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = environ(cfg.Env)

	size := &pty.Winsize{
		Rows: uint16(orDefault(cfg.Height, defaultHeight)),
		Cols: uint16(orDefault(cfg.Width, defaultWidth)),
	}
	term, err := pty.StartWithSize(cmd, size)
	if err != nil {
		return nil, fmt.Errorf("tuitest: start %s: %w", cfg.Command[0], err)
	}
	defer func() { _ = term.Close() }()

	screen := &capture{}
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		screen.pump(term, newTerminalResponder(term, cfg.LightBackground))
	}()

	started := time.Now()
	if err := replay(ctx, cfg.Steps, screen, term.Write); err != nil {
		return nil, err
	}

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()
	select {
	case err := <-exited:
		if err := checkExit(err, cfg); err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: program did not exit: %w", ctx.Err())
	}

	_ = term.Close()
	<-drained

	raw := screen.Bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(started)}, nil
}

func replay(ctx context.Context, steps []Step, screen *capture, write func([]byte) (int, error)) error {
	for i, step := range steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("tuitest: step %d: %w", i, ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if step.Until != "" {
			if err := screen.waitFor(ctx, step.Until); err != nil {
				return fmt.Errorf("tuitest: step %d waiting for %q: %w", i, step.Until, err)
			}
		}
		if len(step.Input) > 0 {
			if _, err := write(step.Input); err != nil {
				return fmt.Errorf("tuitest: step %d write: %w", i, err)
			}
		}
	}
	return nil
}

func checkExit(err error, cfg Config) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		for _, code := range cfg.AllowedExitCodes {
			if exitErr.ExitCode() == code {
				return nil
			}
		}
	}
	if cfg.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt") {
		return nil
	}
	return fmt.Errorf("tuitest: program exited: %w", err)
}

// capture accumulates PTY output and lets the script wait on it.
type capture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *capture) pump(term *os.File, responder *terminalResponder) {
	chunk := make([]byte, 4096)
	for {
		n, err := term.Read(chunk)
		if n > 0 {
			responder.Process(chunk[:n])
			c.mu.Lock()
			c.buf.Write(chunk[:n])
			c.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

func (c *capture) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.buf.Bytes()...)
}

func (c *capture) waitFor(ctx context.Context, text string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if strings.Contains(plainText(c.Bytes()), text) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func environ(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, kv := range env {
		if strings.HasPrefix(kv, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

func orDefault[T int | time.Duration](v, fallback T) T {
	if v <= 0 {
		return fallback
	}
	return v
}

// Input sequences for the keys jot binds.
var (
	KeyEnter = []byte{'\r'}
	KeyCtrlC = []byte{3}
	KeyEsc   = []byte{27}
	KeyTab   = []byte{'\t'}
	KeyCtrlS = []byte{19}
)

// Paste delivers text in a single write, the way a terminal without
// bracketed paste passes on a paste or a file dragged onto the window. The
// program reads it as one chunk rather than separate keystrokes.
func Paste(text string) []byte {
	return []byte(text)
}

// Type sends text one keystroke per step, each after delay.
func Type(text string, delay time.Duration) []Step {
	steps := make([]Step, 0, len(text))
	for _, r := range text {
		steps = append(steps, Step{Delay: delay, Input: []byte(string(r))})
	}
	return steps
}

// WaitFor is a step that blocks until text has been drawn.
func WaitFor(text string) Step {
	return Step{Until: text}
}
