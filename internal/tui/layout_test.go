package tui

import (
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"
)

func TestDialogWidth(t *testing.T) {
	cases := []struct {
		name  string
		width int
		want  int
	}{
		{name: "narrow", width: 30, want: 30},
		{name: "small", width: 40, want: 36},
		{name: "standard", width: 80, want: 72},
		{name: "wide", width: 200, want: 72},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := dialogWidth(tc.width); got != tc.want {
				t.Fatalf("dialogWidth(%d) = %d, want %d", tc.width, got, tc.want)
			}
		})
	}
}

func TestOverlayCentersBox(t *testing.T) {
	base := strings.Join([]string{"......", "......", "......", "......", "......"}, "\n")
	out := overlay(base, "XX\nYY", 6)
	rows := strings.Split(out, "\n")
	if len(rows) != 5 {
		t.Fatalf("overlay changed the row count to %d", len(rows))
	}
	if rows[0] != "......" || rows[3] != "......" || rows[4] != "......" {
		t.Fatalf("rows outside the box changed: %q", rows)
	}
	if strings.TrimSpace(rows[1]) != "XX" || strings.TrimSpace(rows[2]) != "YY" {
		t.Fatalf("box rows misplaced: %q", rows)
	}
	if ansi.PrintableRuneWidth(rows[1]) != 6 {
		t.Fatalf("box row should span the width, got %q", rows[1])
	}
}

func TestOverlayClipsTallBox(t *testing.T) {
	out := overlay("a\nb", "1\n2\n3\n4", 4)
	if rows := strings.Split(out, "\n"); len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestStatusLineFitsWidth(t *testing.T) {
	line := statusLine(20, strings.Repeat("long status ", 10))
	if strings.Contains(line, "\n") {
		t.Fatalf("status line wrapped: %q", line)
	}
	if w := ansi.PrintableRuneWidth(line); w != 20 {
		t.Fatalf("status line width = %d, want 20", w)
	}
}

func TestRenderHintsMarksDisabled(t *testing.T) {
	out := renderHints([]keyHint{{Key: "r", Description: "refresh"}, {Key: "s", Description: "save", Disabled: true}})
	if !strings.Contains(out, "refresh") || !strings.Contains(out, "save") {
		t.Fatalf("hints missing: %q", out)
	}
}
