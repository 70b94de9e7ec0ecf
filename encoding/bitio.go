package encoding

import (
	"fmt"

	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/internal/pool"
)

// MaxBitsPerRead is the widest value a single ReadBits call can return.
const MaxBitsPerRead = 31

// BitPosition addresses a single bit: Byte is the byte index and Bit is the bit
// index within that byte, 0 being the most significant bit.
type BitPosition struct {
	Byte int `json:"byte"`
	Bit  int `json:"bit"`
}

// Offset returns the absolute bit offset of the position.
func (p BitPosition) Offset() int {
	return p.Byte*8 + p.Bit
}

func (p BitPosition) String() string {
	return fmt.Sprintf("%d:%d", p.Byte, p.Bit)
}

// BitReader reads bits MSB-first from a byte slice.
type BitReader struct {
	data []byte
	pos  int
}

// NewBitReader creates a BitReader positioned at bit 0 of data.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

// ReadBits reads the next n bits, 1 <= n <= 31, most significant first.
//
// Parameters:
//   - n: Number of bits to read
//
// Returns:
//   - uint32: The bits read, right-aligned
//   - error: errs.ErrOutOfRange if n is invalid or fewer than n bits remain;
//     the cursor does not move on error
func (r *BitReader) ReadBits(n int) (uint32, error) {
	if n < 1 || n > MaxBitsPerRead {
		return 0, fmt.Errorf("%w: cannot read %d bits at once", errs.ErrOutOfRange, n)
	}
	if n > r.RemainingBits() {
		return 0, fmt.Errorf("%w: need %d bits at %s, have %d",
			errs.ErrOutOfRange, n, r.Position(), r.RemainingBits())
	}

	var v uint32
	for range n {
		b := r.data[r.pos>>3]
		v = v<<1 | uint32(b>>(7-uint(r.pos&7)))&1
		r.pos++
	}

	return v, nil
}

// RemainingBits returns the number of unread bits.
func (r *BitReader) RemainingBits() int {
	return len(r.data)*8 - r.pos
}

// Seek moves the cursor to pos.
func (r *BitReader) Seek(pos BitPosition) error {
	if pos.Byte < 0 || pos.Byte >= len(r.data) || pos.Bit < 0 || pos.Bit > 7 {
		return fmt.Errorf("%w: seek to %s in %d bytes", errs.ErrOutOfRange, pos, len(r.data))
	}
	r.pos = pos.Offset()

	return nil
}

// Position returns the position of the next bit to be read.
func (r *BitReader) Position() BitPosition {
	return BitPosition{Byte: r.pos >> 3, Bit: r.pos & 7}
}

// BitWriter appends bits MSB-first into a pooled buffer.
type BitWriter struct {
	buf      *pool.ByteBuffer
	bitBuf   uint64 // pending bits, right-aligned
	bitCount int    // number of valid bits in bitBuf, always < 8 between calls
}

// NewBitWriter creates an empty BitWriter with room for at least sizeHint bytes.
func NewBitWriter(sizeHint int) *BitWriter {
	buf := pool.GetSectionBuffer()
	buf.Grow(sizeHint)

	return &BitWriter{buf: buf}
}

// WriteBits appends the low n bits of value, most significant first.
// n must be in 0..32.
func (w *BitWriter) WriteBits(n int, value uint32) {
	if n <= 0 {
		return
	}
	if n > 32 {
		panic(fmt.Sprintf("encoding: cannot write %d bits at once", n))
	}

	w.bitBuf = w.bitBuf<<uint(n) | uint64(value)&(1<<uint(n)-1)
	w.bitCount += n
	for w.bitCount >= 8 {
		w.bitCount -= 8
		w.buf.B = append(w.buf.B, byte(w.bitBuf>>uint(w.bitCount)))
	}
	w.bitBuf &= 1<<uint(w.bitCount) - 1
}

// WriteBit appends a single bit.
func (w *BitWriter) WriteBit(bit bool) {
	if bit {
		w.WriteBits(1, 1)
	} else {
		w.WriteBits(1, 0)
	}
}

// Position returns the position the next bit will be written at.
func (w *BitWriter) Position() BitPosition {
	return BitPosition{Byte: w.buf.Len(), Bit: w.bitCount}
}

// Len returns the number of bytes Bytes would return.
func (w *BitWriter) Len() int {
	if w.bitCount > 0 {
		return w.buf.Len() + 1
	}

	return w.buf.Len()
}

// Bytes returns a copy of the written bits. A partial final byte is padded with
// zero bits.
func (w *BitWriter) Bytes() []byte {
	out := make([]byte, w.Len())
	copy(out, w.buf.B)
	if w.bitCount > 0 {
		out[len(out)-1] = byte(w.bitBuf << uint(8-w.bitCount))
	}

	return out
}

// Release returns the underlying buffer to the pool. The BitWriter must not be
// used afterwards.
func (w *BitWriter) Release() {
	pool.PutSectionBuffer(w.buf)
	w.buf = nil
}
