// Package notify provides the best-effort audible alert.
package notify

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Sounder emits an audible alert. Playback is strictly best-effort:
// callers swallow failures and fall back to a textual notice.
type Sounder interface {
	Play() error
}

// Bell rings the terminal bell twice, mirroring the two-tone beep of the
// original alert. Whether anything is audible depends on the terminal.
type Bell struct {
	w     io.Writer
	pause time.Duration
}

// NewBell creates a Bell writing to w, defaulting to stdout.
func NewBell(w io.Writer) *Bell {
	if w == nil {
		w = os.Stdout
	}
	return &Bell{w: w, pause: 300 * time.Millisecond}
}

// Play rings the bell twice with a short pause.
func (b *Bell) Play() error {
	if _, err := fmt.Fprint(b.w, "\a"); err != nil {
		return err
	}
	time.Sleep(b.pause)
	_, err := fmt.Fprint(b.w, "\a")
	return err
}

// Noop is the sounder used when sound alerts are disabled.
type Noop struct{}

// Play does nothing.
func (Noop) Play() error { return nil }
