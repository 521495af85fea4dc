package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/KirkDiggler/ultima-end/internal/errors"
)

// MaxLineLength is the longest line a prompt accepts. Longer lines are
// discarded whole and reported as invalid input.
const MaxLineLength = 4096

type readResult struct {
	line string
	err  error
}

// Terminal reads the player's input one line at a time. It is shared by the
// menu, the game loop and the command prompts so they consume one stream.
//
// Lines are read by a background goroutine started on the first prompt, so a
// prompt can return on context cancellation while the read is still pending.
type Terminal struct {
	in    *bufio.Reader
	out   io.Writer
	lines chan readResult
	start sync.Once
}

// NewTerminal creates a terminal reading from in and prompting on out
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:    bufio.NewReaderSize(in, MaxLineLength),
		out:   out,
		lines: make(chan readResult),
	}
}

// Prompt writes message and blocks for the next line. It returns io.EOF once
// the input is exhausted, ctx.Err() when ctx is done first, and an
// InvalidArgument error for a line over MaxLineLength.
func (t *Terminal) Prompt(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	_, _ = fmt.Fprint(t.out, message) // nolint:errcheck // console output

	t.start.Do(func() { go t.readLines() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	}
}

// readLines feeds t.lines until the input ends or fails, then closes it
func (t *Terminal) readLines() {
	defer close(t.lines)

	for {
		line, err := t.readLine()
		if err == io.EOF {
			return
		}
		if err != nil && !errors.IsInvalidArgument(err) {
			t.lines <- readResult{err: errors.Wrap(err, "failed to read input")}
			return
		}
		t.lines <- readResult{line: line, err: err}
	}
}

// readLine returns one line without its terminator. An overlong line is
// consumed up to its newline and reported instead of returned.
func (t *Terminal) readLine() (string, error) {
	var (
		buf     []byte
		tooLong bool
	)
	for {
		chunk, isPrefix, err := t.in.ReadLine()
		if err != nil {
			if err == io.EOF && (len(buf) > 0 || tooLong) {
				break
			}
			return "", err
		}
		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > MaxLineLength {
				tooLong = true
				buf = nil
			}
		}
		if !isPrefix {
			break
		}
	}

	if tooLong {
		return "", errors.InvalidArgumentf("line too long, the limit is %d characters", MaxLineLength)
	}
	return string(buf), nil
}
