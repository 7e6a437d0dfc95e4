package main

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestHexdump(t *testing.T) {
	color.NoColor = true

	data := []byte("Hello\x00\x01World!!!!!!")
	out := hexdump(0x20000000, data, nil)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "20000000  48 65 6c 6c 6f 00 01 57") {
		t.Errorf("row 1 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "20000010") {
		t.Errorf("row 2 address = %q", lines[1])
	}
	// Unprintable bytes show as dots in the gutter.
	if !strings.Contains(lines[0], "|Hello..World!!!!|") {
		t.Errorf("ascii gutter = %q", lines[0])
	}
}

func TestHexdumpShortRowPadding(t *testing.T) {
	color.NoColor = true

	out := hexdump(0, []byte{0xaa, 0xbb}, nil)
	if !strings.Contains(out, "aa bb ") {
		t.Errorf("out = %q", out)
	}
	// The hex column keeps its width so the gutter stays aligned.
	if !strings.Contains(out, "|.."+strings.Repeat(" ", 14)+"|") {
		t.Errorf("gutter not padded: %q", out)
	}
}

func TestHexdumpMarksChanges(t *testing.T) {
	color.NoColor = false
	defer func() { color.NoColor = true }()

	data := []byte{1, 2, 3}
	mark := []bool{false, true, false}
	out := hexdump(0, data, mark)

	// Only the marked byte gets the escape sequence.
	if strings.Count(out, "\x1b[31m") != 2 {
		t.Errorf("expected hex and ascii highlight for one byte: %q", out)
	}
}
