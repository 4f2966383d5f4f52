// Package debug has helpers producing human readable dumps of internal
// structures.
package debug

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// TreeWriter writes indented lines to underlying writer. First write error is
// remembered and all following writes are skipped, check it with Err or
// Flush.
type TreeWriter struct {
	w      *bufio.Writer
	indent string
	err    error
}

func NewTreeWriter(w io.Writer) *TreeWriter {
	return &TreeWriter{
		w:      bufio.NewWriter(w),
		indent: "  ",
	}
}

// WithIndent changes string used for a single level of indentation.
func (tw *TreeWriter) WithIndent(indent string) *TreeWriter {
	tw.indent = indent
	return tw
}

func (tw *TreeWriter) prefix(depth int) {
	for range depth {
		if _, tw.err = tw.w.WriteString(tw.indent); tw.err != nil {
			return
		}
	}
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	if tw.err != nil {
		return
	}
	tw.prefix(depth)
	if tw.err != nil {
		return
	}
	if _, tw.err = fmt.Fprintf(tw.w, format, args...); tw.err != nil {
		return
	}
	tw.err = tw.w.WriteByte('\n')
}

func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.Line(depth, "%s: %s", label, encodeText(value))
}

// Err returns first error encountered while writing.
func (tw *TreeWriter) Err() error {
	return tw.err
}

// Flush pushes buffered data to the underlying writer.
func (tw *TreeWriter) Flush() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.w.Flush()
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
