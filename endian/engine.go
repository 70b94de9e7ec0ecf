// Package endian provides the byte order plumbing for the container codecs.
//
// Every multi-byte integer in the navigation database container is little-endian.
// The package combines encoding/binary's ByteOrder and AppendByteOrder into a
// single EndianEngine and layers two small cursors on top of it: Reader for
// bounds-checked sequential reads and Writer for appending into a pooled buffer.
//
//	r := endian.NewReader(data)
//	mask, err := r.Uint32()
//
//	w := endian.NewWriter(28)
//	defer w.Release()
//	w.PutUint32(mask)
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine used by the container.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
