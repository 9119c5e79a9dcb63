package tuitest

import (
	"regexp"
	"strings"
)

// Frame is one screen, with and without escape sequences.
type Frame struct {
	Index int
	ANSI  string
	Plain string
}

var (
	// the renderer clears the screen before each full repaint
	frameSeparator = regexp.MustCompile(`\x1b\[[0-9;]*J`)
	csiPattern     = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	oscPattern     = regexp.MustCompile(`\x1b\][^\x07]*(\x07|\x1b\\)`)
)

func parseFrames(raw []byte) []Frame {
	cleaned := strings.ReplaceAll(string(raw), "\r", "")
	var frames []Frame
	for _, segment := range frameSeparator.Split(cleaned, -1) {
		segment = strings.TrimPrefix(strings.Trim(segment, "\x00"), "\x1b[H")
		plain := stripANSI(segment)
		if strings.TrimSpace(plain) == "" {
			continue
		}
		frames = append(frames, Frame{Index: len(frames), ANSI: segment, Plain: normalizeLines(plain)})
	}
	if len(frames) == 0 && cleaned != "" {
		frames = append(frames, Frame{ANSI: cleaned, Plain: normalizeLines(stripANSI(cleaned))})
	}
	return frames
}

// FinalFrame returns the last captured frame.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// Plain is the whole recorded stream without escape sequences.
func (r *Recording) Plain() string {
	if r == nil {
		return ""
	}
	return stripANSI(strings.ReplaceAll(string(r.Raw), "\r", ""))
}

// Contains reports whether text was drawn at any point.
func (r *Recording) Contains(text string) bool {
	return strings.Contains(r.Plain(), text)
}

func stripANSI(s string) string {
	s = oscPattern.ReplaceAllString(s, "")
	s = csiPattern.ReplaceAllString(s, "")
	return strings.NewReplacer("\x0f", "", "\x0e", "").Replace(s)
}

func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
