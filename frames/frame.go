package frames

import "time"

// Frame is one visual state of the playback, valid over [Start, End).
type Frame struct {
	Content string
	Seq     int
	Start   time.Duration
	End     time.Duration
}

// Contains reports whether elapsed falls within the frame's half-open
// interval.
func (f Frame) Contains(elapsed time.Duration) bool {
	return elapsed >= f.Start && elapsed < f.End
}
