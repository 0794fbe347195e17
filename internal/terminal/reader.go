package terminal

import (
	"bufio"
	"context"
	"io"
	"strings"
)

type line struct {
	text string
	err  error
}

// lineReader reads lines on its own goroutine so that a pending read can be
// abandoned when the context is cancelled.
type lineReader struct {
	lines chan line
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{lines: make(chan line)}
	go func() {
		defer close(lr.lines)
		br := bufio.NewReader(r)
		for {
			s, err := br.ReadString('\n')
			if s != "" {
				lr.lines <- line{text: strings.TrimRight(s, "\r\n")}
			}
			if err != nil {
				lr.lines <- line{err: err}
				return
			}
		}
	}()
	return lr
}

func (lr *lineReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-lr.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}
