// Package compress provides the codecs applied to serialized IR documents.
//
// A decoded navigation database is several megabytes of JSON with long runs of
// repeated keys, so IR files are usually stored compressed. The codec is chosen
// from the file name suffix (see format.CompressionFromPath):
//
//   - .json: no compression
//   - .json.zst: Zstandard, klauspost/compress (or libzstd with -tags gozstd)
//   - .json.s2: S2 block
//   - .json.lz4: LZ4 frame
//   - .json.xz: xz/LZMA2, ulikunitz/xz
//
// Every codec is stateless from the caller's view and safe for concurrent use.
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	packed, err := codec.Compress(doc)
//	doc, err = codec.Decompress(packed)
package compress
