package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrCancelled is returned by a prompt interrupted with Ctrl-C.
var ErrCancelled = errors.New("operación cancelada")

// ErrRead wraps a failure of the underlying input stream.
var ErrRead = errors.New("error de lectura de la entrada")

type readResult struct {
	line string
	err  error
}

// lineReader feeds lines from an io.Reader through a channel so a prompt
// can wait for input and an interrupt at the same time. Lines have no
// length limit.
type lineReader struct {
	lines      chan readResult
	interrupts <-chan os.Signal
}

func newLineReader(r io.Reader, interrupts <-chan os.Signal) *lineReader {
	lr := &lineReader{
		lines:      make(chan readResult),
		interrupts: interrupts,
	}
	go lr.read(bufio.NewReader(r))
	return lr
}

func (lr *lineReader) read(br *bufio.Reader) {
	defer close(lr.lines)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lr.lines <- readResult{line: line}
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return
		default:
			lr.lines <- readResult{err: fmt.Errorf("%w: %v", ErrRead, err)}
			return
		}
	}
}

// next waits for one trimmed line. It returns io.EOF when input ends,
// ErrRead when the stream fails, ErrCancelled on interrupt, and ctx.Err()
// when ctx is done.
func (lr *lineReader) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-lr.interrupts:
		return "", ErrCancelled
	case res, ok := <-lr.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}
