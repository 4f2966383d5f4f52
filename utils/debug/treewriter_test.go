package debug

import (
	"errors"
	"strings"
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{
			name:   "no depth",
			depth:  0,
			format: "test",
			want:   "test\n",
		},
		{
			name:   "depth 1",
			depth:  1,
			format: "indented",
			want:   "  indented\n",
		},
		{
			name:   "depth 2",
			depth:  2,
			format: "double indent",
			want:   "    double indent\n",
		},
		{
			name:   "with formatting",
			depth:  1,
			format: "value: %d",
			args:   []any{42},
			want:   "  value: 42\n",
		},
		{
			name:   "multiple args",
			depth:  0,
			format: "%s = %d",
			args:   []any{"count", 5},
			want:   "count = 5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			tw := NewTreeWriter(&sb)
			tw.Line(tt.depth, tt.format, tt.args...)
			if err := tw.Flush(); err != nil {
				t.Fatalf("Flush() error = %v", err)
			}
			if got := sb.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	var sb strings.Builder
	tw := NewTreeWriter(&sb).WithIndent("\t")
	tw.TextBlock(1, "label", "Part 1")
	tw.TextBlock(0, "empty", "")
	if err := tw.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	want := "\tlabel: \"Part 1\"\nempty: \n"
	if got := sb.String(); got != want {
		t.Errorf("TextBlock() = %q, want %q", got, want)
	}
}

type failingWriter struct{}

var errWrite = errors.New("write failed")

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWrite
}

func TestTreeWriter_StickyError(t *testing.T) {
	tw := NewTreeWriter(failingWriter{})
	// large enough to overflow buffer
	tw.Line(0, "%s", strings.Repeat("x", 8192))
	tw.Line(0, "after error")
	if err := tw.Flush(); !errors.Is(err, errWrite) {
		t.Errorf("Flush() error = %v, want %v", err, errWrite)
	}
	if !errors.Is(tw.Err(), errWrite) {
		t.Errorf("Err() = %v, want %v", tw.Err(), errWrite)
	}
}
