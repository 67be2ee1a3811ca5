// Package stream reads file content as resilient text: byte sequences that
// are not valid UTF-8 are replaced with U+FFFD instead of failing, so a
// single corrupted or binary-disguised file can never abort the pipeline.
// Errors are reserved for real I/O failures (missing file, permissions).
package stream

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

// Replacement is the placeholder substituted for undecodable byte sequences.
const Replacement = string(utf8.RuneError)

// Scanner yields a file's content line by line. Unlike bufio.Scanner it has
// no line length limit and never reports decoding failures.
type Scanner struct {
	reader *bufio.Reader
	line   string
	err    error
	done   bool
}

// NewScanner returns a fresh line scanner over r. Each call produces an
// independent, restartable stream.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(r)}
}

// Scan advances to the next line. It returns false at end of input or on an
// I/O error; decoding problems never stop the scan.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}

	raw, err := s.reader.ReadString('\n')
	if err != nil {
		s.done = true
		if err != io.EOF {
			s.err = err
			return false
		}
		if raw == "" {
			return false
		}
	}

	s.line = Decode(strings.TrimSuffix(raw, "\n"))
	return true
}

// Text returns the current line without its terminator, with invalid byte
// sequences already replaced.
func (s *Scanner) Text() string {
	return s.line
}

// Err returns the first I/O error encountered, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Decode replaces invalid UTF-8 sequences in s with the replacement
// character. Valid input is returned unchanged without reallocation.
func Decode(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, Replacement)
}
