package tuitest

// Key sequences as a terminal sends them.
var (
	KeyEnter    = []byte{'\r'}
	KeyEsc      = []byte{0x1b}
	KeyTab      = []byte{'\t'}
	KeyShiftTab = []byte("\x1b[Z")
	KeyDown     = []byte("\x1b[B")
	KeyUp       = []byte("\x1b[A")
	KeyCtrlC    = []byte{0x03}
	KeyCtrlP    = []byte{0x10}
	KeyCtrlS    = []byte{0x13}
)

// Type returns the bytes for typing s.
func Type(s string) []byte {
	return []byte(s)
}
