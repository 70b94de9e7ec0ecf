package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Compressor writes `.json.s2` IR files as a single S2 block.
//
// IR files are written once by decode and read back by every later encode, so
// Compress uses the better-ratio encoder. Decoding speed does not depend on
// which encoder wrote the block.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses data with s2.EncodeBetter.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	n := s2.MaxEncodedLen(len(data))
	if n < 0 {
		return nil, fmt.Errorf("s2: %d bytes is too large for one block", len(data))
	}

	return s2.EncodeBetter(make([]byte, n), data), nil
}

// Decompress decodes one S2 block.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2: %w", err)
	}

	return s2.Decode(make([]byte, n), data)
}
