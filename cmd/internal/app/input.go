package app

import (
	"bufio"
	"context"
	"io"
)

// maxLineBytes bounds a single input line. The scanner errors out past this
// instead of silently splitting a message.
const maxLineBytes = 1 << 20

// NewLineSource reads r line by line on a background goroutine and delivers
// each line on the returned channel. The channel is closed on EOF, read
// error, or context cancellation, which downstream consumers treat as quit.
//
// Stdin reads cannot be interrupted portably, so cancellation only stops
// delivery; the goroutine itself may linger in a blocked Read until the
// process exits.
func NewLineSource(ctx context.Context, r io.Reader) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

		for sc.Scan() {
			select {
			case out <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
