// Package format names the on-disk encodings of IR documents.
package format

import "strings"

// CompressionType selects the compression applied to a serialized IR document.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.
	CompressionXZ   CompressionType = 0x5 // CompressionXZ represents xz (LZMA2) compression.
)

var compressionExtensions = []struct {
	ext string
	typ CompressionType
}{
	{".zst", CompressionZstd},
	{".s2", CompressionS2},
	{".lz4", CompressionLZ4},
	{".xz", CompressionXZ},
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionXZ:
		return "XZ"
	default:
		return "Unknown"
	}
}

// Extension returns the file name suffix for the compression, empty for none.
func (c CompressionType) Extension() string {
	for _, e := range compressionExtensions {
		if e.typ == c {
			return e.ext
		}
	}

	return ""
}

// CompressionFromPath infers the compression from a file name suffix such as
// "ir.json.zst". Names without a known suffix are uncompressed.
func CompressionFromPath(path string) CompressionType {
	lower := strings.ToLower(path)
	for _, e := range compressionExtensions {
		if strings.HasSuffix(lower, e.ext) {
			return e.typ
		}
	}

	return CompressionNone
}
