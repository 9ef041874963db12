package progress

import (
	"bytes"
	"testing"
)

func TestBarWritesOutput(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, 3, "processing")
	b.Add(1)
	b.Finish()
	if buf.Len() == 0 {
		t.Error("expected progress output")
	}
}

func TestNilBarIsNoop(t *testing.T) {
	var b *Bar
	b.Add(1)
	b.Finish()
}
