// Package transport implements the newline-delimited JSON framing the driver
// speaks over the child process pipe pair.
package transport

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

// maxLineBytes bounds a single response line. Fetched pages ride inside the
// result payload, so lines can get large.
const maxLineBytes = 16 * 1024 * 1024

// Framed frames one JSON document per line in each direction. It carries no
// timeout of its own; deadlines are layered on by the session.
type Framed struct {
	mu      sync.Mutex
	w       *bufio.Writer
	enc     *json.Encoder
	scanner *bufio.Scanner
}

// New creates a framed transport over the given stream pair. r is the peer's
// output (read side), w the peer's input (write side).
func New(r io.Reader, w io.Writer) *Framed {
	bw := bufio.NewWriter(w)
	f := &Framed{
		w:       bw,
		enc:     json.NewEncoder(bw),
		scanner: bufio.NewScanner(r),
	}
	f.scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return f
}

// WriteMessage serializes v as a single line, appends the line terminator and
// flushes. The flush is mandatory: the peer reads line by line and would block
// forever on a buffered request.
func (f *Framed) WriteMessage(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.enc.Encode(v); err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	if err := f.w.Flush(); err != nil {
		return fmt.Errorf("flushing message: %w", err)
	}
	return nil
}

// ReadMessage returns the next non-empty line from the peer, or io.EOF once
// the stream ends.
func (f *Framed) ReadMessage() (string, error) {
	for f.scanner.Scan() {
		line := strings.TrimSpace(f.scanner.Text())
		if line == "" {
			continue
		}
		return line, nil
	}
	if err := f.scanner.Err(); err != nil {
		return "", fmt.Errorf("scanning input: %w", err)
	}
	return "", io.EOF
}
