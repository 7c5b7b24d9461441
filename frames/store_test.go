package frames_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/asciiplay/frames"
)

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func TestStoreLookup(t *testing.T) {
	t.Parallel()

	contiguous := []frames.Frame{
		{Seq: 0, Start: ms(0), End: ms(1000), Content: "A"},
		{Seq: 1, Start: ms(1000), End: ms(2000), Content: "B"},
	}

	gapped := []frames.Frame{
		{Seq: 0, Start: ms(100), End: ms(200), Content: "A"},
		{Seq: 1, Start: ms(300), End: ms(400), Content: "B"},
	}

	overlapping := []frames.Frame{
		{Seq: 0, Start: ms(0), End: ms(1000), Content: "A"},
		{Seq: 1, Start: ms(500), End: ms(1500), Content: "B"},
	}

	tcs := map[string]struct {
		frames  []frames.Frame
		elapsed time.Duration
		want    int
		found   bool
	}{
		"inside first": {
			frames:  contiguous,
			elapsed: ms(500),
			want:    0,
			found:   true,
		},
		"boundary belongs to next": {
			frames:  contiguous,
			elapsed: ms(1000),
			want:    1,
			found:   true,
		},
		"at end of last": {
			frames:  contiguous,
			elapsed: ms(2000),
			want:    -1,
			found:   false,
		},
		"negative elapsed": {
			frames:  contiguous,
			elapsed: ms(-750),
			want:    -1,
			found:   false,
		},
		"before first": {
			frames:  gapped,
			elapsed: ms(50),
			want:    -1,
			found:   false,
		},
		"in gap": {
			frames:  gapped,
			elapsed: ms(250),
			want:    -1,
			found:   false,
		},
		"after gap": {
			frames:  gapped,
			elapsed: ms(300),
			want:    1,
			found:   true,
		},
		"overlap picks first": {
			frames:  overlapping,
			elapsed: ms(700),
			want:    0,
			found:   true,
		},
		"overlap tail": {
			frames:  overlapping,
			elapsed: ms(1200),
			want:    1,
			found:   true,
		},
		"empty store": {
			frames:  nil,
			elapsed: 0,
			want:    -1,
			found:   false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			store := frames.NewStore(tc.frames)

			got, ok := store.Lookup(tc.elapsed)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStoreLookupMatchesLinearScan(t *testing.T) {
	t.Parallel()

	var fs []frames.Frame

	// 30 fps frames with a hole in the middle.
	for i := range 90 {
		if i >= 40 && i < 45 {
			continue
		}

		fs = append(fs, frames.Frame{
			Seq:     i + 1,
			Start:   ms(i * 33),
			End:     ms((i + 1) * 33),
			Content: "x",
		})
	}

	store := frames.NewStore(fs)

	for elapsed := ms(-100); elapsed < ms(3200); elapsed += time.Millisecond {
		want := -1

		for i, f := range fs {
			if f.Contains(elapsed) {
				want = i

				break
			}
		}

		got, ok := store.Lookup(elapsed)
		require.Equal(t, want, got, "elapsed %s", elapsed)
		require.Equal(t, want >= 0, ok, "elapsed %s", elapsed)
	}
}

func TestStoreAccessors(t *testing.T) {
	t.Parallel()

	src := []frames.Frame{
		{Seq: 1, Start: 0, End: ms(33), Content: "ab\nabcd"},
		{Seq: 2, Start: ms(33), End: ms(66), Content: "日本"},
	}

	store := frames.NewStore(src)

	// Mutating the source does not affect the store.
	src[0].Content = "changed"

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, "ab\nabcd", store.At(0).Content)
	assert.Equal(t, ms(66), store.Duration())
	assert.Equal(t, 4, store.Width())

	all := store.Frames()
	all[1].Content = "changed"
	assert.Equal(t, "日本", store.At(1).Content)

	empty := frames.NewStore(nil)
	assert.Zero(t, empty.Duration())
	assert.Zero(t, empty.Width())
}
