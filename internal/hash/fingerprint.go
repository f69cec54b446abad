package hash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// chunk bounds the scratch buffer used while streaming floats into the digest.
const chunk = 4096

// Fingerprint returns a 64-bit xxhash of a row-major float64 matrix and its
// per-column tags. Shape is part of the digest, so a 2x3 and a 3x2 matrix
// with the same backing data never collide by construction.
func Fingerprint(rows, cols int, tags []byte, data []float64) uint64 {
	d := xxhash.New()

	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[0:8], uint64(rows))
	binary.LittleEndian.PutUint64(hdr[8:16], uint64(cols))
	_, _ = d.Write(hdr[:])
	_, _ = d.Write(tags)

	buf := make([]byte, 0, chunk*8)
	for start := 0; start < len(data); start += chunk {
		end := min(start+chunk, len(data))
		buf = buf[:0]
		for _, f := range data[start:end] {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
		}
		_, _ = d.Write(buf)
	}

	return d.Sum64()
}

// Combine mixes an additional value into an existing fingerprint.
func Combine(fp uint64, v uint64) uint64 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], fp)
	binary.LittleEndian.PutUint64(b[8:16], v)
	return xxhash.Sum64(b[:])
}
