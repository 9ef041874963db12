// Package progress renders a terminal progress bar for batch commands.
package progress

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Bar tracks completion of a fixed number of steps. A nil Bar is a valid
// no-op, so callers do not need to special-case quiet runs.
type Bar struct {
	bar *progressbar.ProgressBar
}

// New returns a Bar rendering count steps to w.
func New(w io.Writer, count int, description string) *Bar {
	return &Bar{
		bar: progressbar.NewOptions(count,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		),
	}
}

// Add marks n steps complete.
func (b *Bar) Add(n int) {
	if b == nil {
		return
	}
	_ = b.bar.Add(n)
}

// Finish completes the bar and clears it from the terminal.
func (b *Bar) Finish() {
	if b == nil {
		return
	}
	_ = b.bar.Finish()
}
