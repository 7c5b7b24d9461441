package frames

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Store is an ordered, read-only collection of frames for one playback
// session. Frames keep their file order; the store never re-sorts them.
//
// Create instances with [NewStore] or [Load].
type Store struct {
	frames []Frame
	// ordered is true when frames are sorted by start time and do not
	// overlap, which allows binary search in [Store.Lookup].
	ordered bool
}

// NewStore creates a [Store] holding a copy of fs.
func NewStore(fs []Frame) *Store {
	fs = slices.Clone(fs)

	return &Store{
		frames:  fs,
		ordered: isOrdered(fs),
	}
}

// Len returns the number of frames.
func (s *Store) Len() int {
	return len(s.frames)
}

// At returns the frame at index i.
func (s *Store) At(i int) Frame {
	return s.frames[i]
}

// Frames returns a copy of all frames in file order.
func (s *Store) Frames() []Frame {
	return slices.Clone(s.frames)
}

// Duration returns the end time of the last frame in sequence order, or zero
// for an empty store.
func (s *Store) Duration() time.Duration {
	if len(s.frames) == 0 {
		return 0
	}

	return s.frames[len(s.frames)-1].End
}

// Width returns the widest content line across all frames, in terminal
// cells.
func (s *Store) Width() int {
	width := 0

	for _, f := range s.frames {
		for line := range strings.SplitSeq(f.Content, "\n") {
			width = max(width, runewidth.StringWidth(line))
		}
	}

	return width
}

// Lookup returns the index of the first frame whose interval contains
// elapsed.
func (s *Store) Lookup(elapsed time.Duration) (int, bool) {
	if s.ordered {
		return s.search(elapsed)
	}

	return s.scan(elapsed)
}

func (s *Store) scan(elapsed time.Duration) (int, bool) {
	for i, f := range s.frames {
		if f.Contains(elapsed) {
			return i, true
		}
	}

	return -1, false
}

func (s *Store) search(elapsed time.Duration) (int, bool) {
	i := sort.Search(len(s.frames), func(i int) bool {
		return s.frames[i].End > elapsed
	})

	if i < len(s.frames) && s.frames[i].Contains(elapsed) {
		return i, true
	}

	return -1, false
}

func isOrdered(fs []Frame) bool {
	for i, f := range fs {
		if f.End < f.Start {
			return false
		}

		if i > 0 && f.Start < fs[i-1].End {
			return false
		}
	}

	return true
}
