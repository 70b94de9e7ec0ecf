package compress

// ZstdCompressor provides Zstandard compression, the best ratio of the built-in
// codecs for JSON documents.
//
// The default build uses the pure-Go klauspost/compress implementation. Building
// with cgo and the gozstd tag switches to the libzstd binding.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
