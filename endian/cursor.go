package endian

import (
	"fmt"

	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/internal/pool"
)

// Reader reads little-endian integers sequentially from a byte slice.
type Reader struct {
	data   []byte
	offset int
	engine EndianEngine
}

// NewReader creates a Reader positioned at the first byte of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, engine: GetLittleEndianEngine()}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.offset
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.offset
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.take(n)
	return err
}

// Bytes returns the next n bytes. The result aliases the underlying buffer.
func (r *Reader) Bytes(n int) ([]byte, error) {
	return r.take(n)
}

// Uint8 reads one byte.
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// Uint16 reads a little-endian 16-bit value.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint16(b), nil
}

// Int16 reads a little-endian signed 16-bit value.
func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err //nolint:gosec
}

// Uint24 reads a 16-bit little-endian value followed by a high byte, the layout
// the container uses for its 3-byte fields.
func (r *Reader) Uint24() (uint32, error) {
	b, err := r.take(3)
	if err != nil {
		return 0, err
	}

	return uint32(r.engine.Uint16(b)) | uint32(b[2])<<16, nil
}

// Uint32 reads a little-endian 32-bit value.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint32(b), nil
}

// UintN reads an n-byte little-endian unsigned value, n in 0..8.
func (r *Reader) UintN(n int) (uint64, error) {
	if n < 0 || n > 8 {
		return 0, fmt.Errorf("%w: integer width %d", errs.ErrOutOfRange, n)
	}

	b, err := r.take(n)
	if err != nil {
		return 0, err
	}

	var v uint64
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}

	return v, nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			errs.ErrOutOfRange, n, r.offset, r.Remaining())
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n

	return b, nil
}

// Writer appends little-endian integers to a pooled byte buffer.
type Writer struct {
	buf    *pool.ByteBuffer
	engine EndianEngine
}

// NewWriter creates a Writer with room for at least sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	buf := pool.GetSectionBuffer()
	buf.Grow(sizeHint)

	return &Writer{buf: buf, engine: GetLittleEndianEngine()}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// PutUint8 appends one byte.
func (w *Writer) PutUint8(v uint8) {
	w.buf.B = append(w.buf.B, v)
}

// PutUint16 appends a little-endian 16-bit value.
func (w *Writer) PutUint16(v uint16) {
	w.buf.B = w.engine.AppendUint16(w.buf.B, v)
}

// PutUint24 appends the low 16 bits little-endian followed by bits 16..23.
func (w *Writer) PutUint24(v uint32) {
	w.buf.B = w.engine.AppendUint16(w.buf.B, uint16(v)) //nolint:gosec
	w.buf.B = append(w.buf.B, byte(v>>16))             //nolint:gosec
}

// PutUint32 appends a little-endian 32-bit value.
func (w *Writer) PutUint32(v uint32) {
	w.buf.B = w.engine.AppendUint32(w.buf.B, v)
}

// PutUintN appends the low n bytes of v little-endian. Values wider than n bytes
// are rejected with errs.ErrOutOfRange.
func (w *Writer) PutUintN(n int, v uint64) error {
	if n < 0 || n > 8 || (n < 8 && v>>(uint(n)*8) != 0) {
		return fmt.Errorf("%w: value %d does not fit in %d bytes", errs.ErrOutOfRange, v, n)
	}
	for i := 0; i < n; i++ {
		w.buf.B = append(w.buf.B, byte(v>>(uint(i)*8)))
	}

	return nil
}

// Write appends raw bytes.
func (w *Writer) Write(data []byte) {
	w.buf.MustWrite(data)
}

// Zero appends n zero bytes.
func (w *Writer) Zero(n int) {
	for i := 0; i < n; i++ {
		w.buf.B = append(w.buf.B, 0)
	}
}

// Bytes returns a copy of the written bytes that stays valid after Release.
func (w *Writer) Bytes() []byte {
	out := make([]byte, w.buf.Len())
	copy(out, w.buf.B)

	return out
}

// Release returns the underlying buffer to the pool. The Writer must not be used
// afterwards.
func (w *Writer) Release() {
	pool.PutSectionBuffer(w.buf)
	w.buf = nil
}
