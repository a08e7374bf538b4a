package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when the context ends before a line arrives.
var ErrInputCancelled = errors.New("input canceled")

// LineReader reads chat input line by line and honors context cancellation,
// so an interrupt lands mid-prompt instead of after the next Enter.
type LineReader struct {
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewLineReader wraps the given input stream, typically os.Stdin.
func NewLineReader(in io.Reader) *LineReader {
	if in == nil {
		panic("input stream cannot be nil")
	}
	return &LineReader{reader: bufio.NewReader(in)}
}

// ReadLine returns the next trimmed line. Cancellation wins the race with a
// pending read; the abandoned goroutine drains on its own once the stream
// produces a line or closes.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	type result struct {
		err  error
		line string
	}
	ch := make(chan result, 1)

	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		line, err := r.reader.ReadString('\n')
		ch <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-ch:
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}
