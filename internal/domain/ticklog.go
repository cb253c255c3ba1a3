package domain

import (
	"fmt"
	"strings"
)

// TickLog is the free-text log buffer for a single tick. One buffer is passed
// into every strategy call and flushed into the tick record exactly once at
// tick end, so no log state survives between ticks.
type TickLog struct {
	buf strings.Builder
}

// Printf appends one formatted line to the buffer.
func (l *TickLog) Printf(format string, args ...any) {
	fmt.Fprintf(&l.buf, format, args...)
	l.buf.WriteByte('\n')
}

// String returns everything logged this tick.
func (l *TickLog) String() string { return l.buf.String() }

// Len returns the buffered byte count.
func (l *TickLog) Len() int { return l.buf.Len() }
