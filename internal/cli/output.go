package cli

import (
	"fmt"
	"io"
)

// writer prints command output. Write errors to a terminal are not actionable.
type writer struct {
	w io.Writer
}

func (o writer) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o writer) println(args ...interface{}) {
	_, _ = fmt.Fprintln(o.w, args...)
}
