package section

import (
	"fmt"

	"github.com/arloliu/navdb/errs"
)

// field extracts a width-bit field starting at shift.
func field(word uint32, width, shift uint) uint32 {
	return word >> shift & (1<<width - 1)
}

func flag(word uint32, shift uint) bool {
	return field(word, 1, shift) != 0
}

// fieldPacker assembles a record word from bit-fields. The first field that
// does not fit is kept as the error and later puts are ignored.
type fieldPacker struct {
	word uint32
	err  error
}

func (p *fieldPacker) put(name string, v uint32, width, shift uint) {
	if p.err != nil {
		return
	}
	if uint64(v) >= 1<<width {
		p.err = fmt.Errorf("%w: %s %d does not fit in %d bits", errs.ErrOutOfRange, name, v, width)
		return
	}
	p.word |= v << shift
}

func (p *fieldPacker) putInt(name string, v int, width, shift uint) {
	if v < 0 || uint64(v) > 0xffffffff {
		if p.err == nil {
			p.err = fmt.Errorf("%w: %s %d does not fit in %d bits", errs.ErrOutOfRange, name, v, width)
		}

		return
	}
	p.put(name, uint32(v), width, shift)
}

func (p *fieldPacker) putBool(v bool, shift uint) {
	if v {
		p.word |= 1 << shift
	}
}

// unknownFields checks an IR unknown list and widens it to n entries.
func unknownFields(u []uint32, n int) ([]uint32, error) {
	if len(u) > n {
		return nil, fmt.Errorf("%w: %d unknown fields, expected %d", errs.ErrInvalidIR, len(u), n)
	}
	out := make([]uint32, n)
	copy(out, u)

	return out, nil
}
