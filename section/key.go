package section

import (
	"fmt"

	"github.com/arloliu/navdb/encoding"
)

// The foreign keys below are the ways one section points into another. A key
// read from a container is resolved through the target section's read-time
// index; the same logical entity is given a fresh key of the same form when the
// target is serialized again.

// IndexKey is a zero-based position in the target's item list.
type IndexKey int

// ByteOffsetKey is an absolute byte offset in the container. The table of
// contents addresses sections with it.
type ByteOffsetKey int

// SectionOffsetKey is a byte offset from the start of the target section.
type SectionOffsetKey int

// BitPositionKey is a (byte, bit) position inside a bit-packed target.
type BitPositionKey = encoding.BitPosition

func (k IndexKey) String() string {
	return fmt.Sprintf("index %d", int(k))
}

// Advance returns the offset n bytes further on.
func (k ByteOffsetKey) Advance(n int) ByteOffsetKey {
	return k + ByteOffsetKey(n)
}

func (k ByteOffsetKey) String() string {
	return fmt.Sprintf("offset 0x%08x", int(k))
}

func (k SectionOffsetKey) String() string {
	return fmt.Sprintf("section offset 0x%x", int(k))
}
