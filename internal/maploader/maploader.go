// Package maploader reads the plain-text map file format: a header line
// of width, height, resolution, followed by width*height row-major cell
// values. It is a thin external collaborator, not part of the core engine.
package maploader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gridwarden/internal/grid"
)

// LoaderError reports a malformed map file: a missing/invalid header or a
// cell count that does not reach width*height before EOF.
type LoaderError struct {
	Reason string
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("maploader: %s", e.Reason)
}

// Load parses r as a map file and returns the resulting grid. Lines
// starting with '#' and blank lines are comments. The first non-comment
// line must be "<width> <height> <resolution>"; all remaining non-comment
// tokens are row-major cell values, read until width*height values have
// been consumed or EOF is reached early (an error in the latter case).
func Load(r io.Reader) (*grid.Grid, error) {
	tokens := newTokenScanner(r)

	header, err := tokens.nextLine()
	if err != nil {
		return nil, &LoaderError{Reason: "missing header line"}
	}
	fields := strings.Fields(header)
	if len(fields) != 3 {
		return nil, &LoaderError{Reason: "header must have width, height, resolution"}
	}

	width, err := strconv.Atoi(fields[0])
	if err != nil || width <= 0 {
		return nil, &LoaderError{Reason: "invalid width"}
	}
	height, err := strconv.Atoi(fields[1])
	if err != nil || height <= 0 {
		return nil, &LoaderError{Reason: "invalid height"}
	}
	resolution, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || resolution <= 0 {
		return nil, &LoaderError{Reason: "invalid resolution"}
	}

	want := width * height
	cells := make([]float32, 0, want)
	for len(cells) < want {
		tok, ok := tokens.next()
		if !ok {
			return nil, &LoaderError{Reason: "truncated cell data"}
		}
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return nil, &LoaderError{Reason: fmt.Sprintf("invalid cell value %q", tok)}
		}
		cells = append(cells, float32(v))
	}

	return grid.New(width, height, resolution, cells)
}

// tokenScanner strips comment lines ('#' prefix) and blank lines, then
// yields whitespace-separated tokens across the remaining content.
type tokenScanner struct {
	scanner *bufio.Scanner
	pending []string
}

func newTokenScanner(r io.Reader) *tokenScanner {
	return &tokenScanner{scanner: bufio.NewScanner(r)}
}

// nextLine returns the next non-comment, non-blank raw line, for reading
// the header as a whole.
func (t *tokenScanner) nextLine() (string, error) {
	for t.scanner.Scan() {
		line := strings.TrimSpace(t.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}
	if err := t.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// next returns the next whitespace-separated token from the remaining
// non-comment, non-blank lines.
func (t *tokenScanner) next() (string, bool) {
	for len(t.pending) == 0 {
		line, err := t.nextLine()
		if err != nil {
			return "", false
		}
		t.pending = strings.Fields(line)
	}
	tok := t.pending[0]
	t.pending = t.pending[1:]
	return tok, true
}
