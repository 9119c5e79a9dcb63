package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const (
	minDialogWidth = 36
	maxDialogWidth = 72
	dialogPadding  = 8
	// border plus horizontal padding of dialogBoxStyle
	dialogChrome = 6
)

// dialogWidth is the outer width of a dialog box on a screen width cells wide.
func dialogWidth(width int) int {
	w := width - dialogPadding
	if w > maxDialogWidth {
		w = maxDialogWidth
	}
	if w < minDialogWidth {
		w = minDialogWidth
	}
	if w > width {
		w = width
	}
	return w
}

// overlay replaces the rows of base under the vertically centered box with
// the box rows, centered horizontally.
func overlay(base, box string, width int) string {
	rows := strings.Split(base, "\n")
	boxRows := strings.Split(box, "\n")
	if len(boxRows) > len(rows) {
		boxRows = boxRows[:len(rows)]
	}
	top := (len(rows) - len(boxRows)) / 2
	for i, line := range boxRows {
		line = truncate.String(line, uint(width))
		rows[top+i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, line)
	}
	return strings.Join(rows, "\n")
}

// statusLine renders one full-width row, cut to fit.
func statusLine(width int, text string) string {
	if width <= 0 {
		return ""
	}
	line := truncate.String(text, uint(width-2))
	return statusBarStyle.Width(width).MaxWidth(width).Render(line)
}

// wrap folds text for a box whose content area is width cells wide.
func wrap(text string, width int) string {
	if width < 1 {
		width = 1
	}
	return wordwrap.String(text, width)
}
