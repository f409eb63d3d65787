// Package lineio reads newline-delimited files without letting one
// oversized line stop the read.
package lineio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ErrTooLong is reported for a line longer than the reader's limit.
var ErrTooLong = errors.New("line too long")

// Line is one line of input. Text is empty when Err is set.
type Line struct {
	Number int // 1-based
	Text   string
	Err    error
}

// Scan calls fn for every line in r, with line terminators ("\n" or
// "\r\n") removed. Lines longer than limit bytes are passed with
// ErrTooLong and the rest of the line is discarded; reading continues
// with the next line. Scan returns only read errors from r.
func Scan(r io.Reader, limit int, fn func(Line)) error {
	br := bufio.NewReader(r)
	var buf []byte
	tooLong := false
	n := 0
	for {
		chunk, isPrefix, err := br.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > limit {
				tooLong = true
				buf = buf[:0]
			}
		}
		if isPrefix {
			continue
		}

		n++
		if tooLong {
			fn(Line{Number: n, Err: fmt.Errorf("%w: exceeds %d bytes", ErrTooLong, limit)})
		} else {
			fn(Line{Number: n, Text: string(buf)})
		}
		buf = buf[:0]
		tooLong = false
	}
}
