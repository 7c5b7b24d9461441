package audio

import (
	"encoding/binary"
	"errors"
	"io"
)

// readSamples fills dst with little-endian int16 samples read from r, using
// raw as scratch space of len(dst)*BytesPerSample bytes. A short final read
// is zero-padded. It returns io.EOF only when no sample was read.
func readSamples(r io.Reader, raw []byte, dst []int16) (int, error) {
	n, err := io.ReadFull(r, raw)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = nil
	}

	if n == 0 && err == nil {
		err = io.EOF
	}

	samples := n / BytesPerSample
	for i := range samples {
		dst[i] = int16(binary.LittleEndian.Uint16(raw[i*BytesPerSample:])) //nolint:gosec // Two's complement reinterpretation.
	}

	clear(dst[samples:])

	return samples, err
}
