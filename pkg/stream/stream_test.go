package stream

import (
	"bytes"
	"strings"
	"testing"
)

func collectLines(t *testing.T, data []byte) []string {
	t.Helper()
	sc := NewScanner(bytes.NewReader(data))
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	return lines
}

func Test_Scanner_LineCountMatchesNewlineSegments(t *testing.T) {
	cases := []struct {
		name  string
		input []byte
		lines int
	}{
		{"empty", []byte{}, 0},
		{"single line no terminator", []byte("hello"), 1},
		{"single line with terminator", []byte("hello\n"), 1},
		{"three lines", []byte("a\nb\nc\n"), 3},
		{"trailing unterminated line", []byte("a\nb\nc"), 3},
		{"blank lines", []byte("\n\n\n"), 3},
		{"invalid utf8", []byte{0xff, 0xfe, '\n', 'o', 'k', '\n'}, 2},
		{"null bytes", []byte{0x00, 0x01, '\n'}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := collectLines(t, tc.input)
			if len(got) != tc.lines {
				t.Errorf("got %d lines, want %d: %q", len(got), tc.lines, got)
			}
		})
	}
}

func Test_Scanner_NeverFailsOnArbitraryBytes(t *testing.T) {
	inputs := [][]byte{
		{0xc3, 0x28},             // invalid 2-byte sequence
		{0xe2, 0x82},             // truncated 3-byte sequence
		{0xf0, 0x90, 0x28, 0xbc}, // invalid 4-byte sequence
		{0x80, 0x81, 0x82},       // stray continuation bytes
	}
	for _, input := range inputs {
		sc := NewScanner(bytes.NewReader(input))
		for sc.Scan() {
			if !strings.Contains(sc.Text(), Replacement) {
				t.Errorf("expected replacement characters in %q", sc.Text())
			}
		}
		if err := sc.Err(); err != nil {
			t.Errorf("decoding failure must not surface as error: %v", err)
		}
	}
}

func Test_Scanner_ValidTextPassesThrough(t *testing.T) {
	lines := collectLines(t, []byte("first\nsecond — with unicode ✓\n"))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "first" || lines[1] != "second — with unicode ✓" {
		t.Errorf("valid text was altered: %q", lines)
	}
}

func Test_Scanner_HandlesLongLines(t *testing.T) {
	// bufio.Scanner would reject this; the stream reader must not.
	long := strings.Repeat("x", 256*1024)
	lines := collectLines(t, []byte(long+"\nshort\n"))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if len(lines[0]) != 256*1024 {
		t.Errorf("long line truncated to %d bytes", len(lines[0]))
	}
}

func Test_Scanner_FreshStreamPerCall(t *testing.T) {
	data := []byte("one\ntwo\n")
	for i := 0; i < 2; i++ {
		sc := NewScanner(bytes.NewReader(data))
		var count int
		for sc.Scan() {
			count++
		}
		if count != 2 {
			t.Errorf("pass %d: got %d lines, want 2", i, count)
		}
	}
}

func Test_Decode_ReplacesInvalidSequences(t *testing.T) {
	if got := Decode("ok"); got != "ok" {
		t.Errorf("valid input altered: %q", got)
	}
	got := Decode(string([]byte{'a', 0xff, 'b'}))
	if !strings.Contains(got, Replacement) {
		t.Errorf("expected replacement character, got %q", got)
	}
	if !strings.HasPrefix(got, "a") || !strings.HasSuffix(got, "b") {
		t.Errorf("valid bytes around the invalid sequence were lost: %q", got)
	}
}
