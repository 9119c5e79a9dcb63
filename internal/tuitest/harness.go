// Package tuitest drives the wordcloud binary inside a pseudo terminal and
// records what it draws, so CLI tests can assert on whole screens.
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

// Step is one scripted interaction. WaitFor, when set, blocks until the
// screen output contains that text; Delay then pauses before Input is typed.
type Step struct {
	WaitFor string
	Delay   time.Duration
	Input   []byte
}

// Config describes the program to spawn and the script to replay.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

// Recording holds the raw terminal stream and the frames parsed from it.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// output is the terminal stream shared between the PTY reader and the
// script, which polls it for WaitFor text.
type output struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (o *output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.Write(p)
}

func (o *output) Bytes() []byte {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]byte(nil), o.buf.Bytes()...)
}

func (o *output) contains(text string) bool {
	return strings.Contains(stripANSI(string(o.Bytes())), text)
}

// Run starts cfg.Command in a PTY of the configured size, replays the steps
// and waits for the program to exit.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	width, height, timeout := cfg.Width, cfg.Height, cfg.Timeout
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(height), Cols: uint16(width)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	out := &output{}
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		responder := newTerminalResponder(ptmx)
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				responder.Process(buf[:n])
				_, _ = out.Write(buf[:n])
			}
			if readErr != nil {
				return
			}
		}
	}()

	start := time.Now()
	for i, step := range cfg.Steps {
		if step.WaitFor != "" {
			if err := waitFor(ctx, out, step.WaitFor); err != nil {
				return nil, fmt.Errorf("tuitest: step %d: %w", i, err)
			}
		}
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("tuitest: step %d: %w", i, ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if len(step.Input) > 0 {
			if _, err := ptmx.Write(step.Input); err != nil {
				return nil, fmt.Errorf("tuitest: write input: %w", err)
			}
		}
	}

	if err := wait(ctx, cmd, cfg); err != nil {
		return nil, err
	}

	_ = ptmx.Close()
	<-drained

	raw := out.Bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

func waitFor(ctx context.Context, out *output, text string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for !out.contains(text) {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %q: %w", text, ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}

func wait(ctx context.Context, cmd *exec.Cmd, cfg Config) error {
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
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
		return fmt.Errorf("tuitest: program exited with error: %w", err)
	case <-ctx.Done():
		return fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}
}

func buildEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}
