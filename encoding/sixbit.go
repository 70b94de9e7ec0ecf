package encoding

import (
	"fmt"

	"github.com/arloliu/navdb/errs"
)

// SixBitAlphabet maps 6-bit codes to characters.
type SixBitAlphabet struct {
	name   string
	decode [64]byte // 0 marks an invalid code
	encode [256]byte
	valid  [256]bool
}

var (
	// SimpleSixBit maps code v to the ASCII character v+0x20, covering space
	// through underscore.
	SimpleSixBit = newSimpleSixBit()

	// ComplexSixBit maps 0 to space, 1..26 to A..Z and 0x20..0x29 to the digits.
	// All other codes are invalid.
	ComplexSixBit = newComplexSixBit()
)

func newSimpleSixBit() *SixBitAlphabet {
	a := &SixBitAlphabet{name: "simple"}
	for v := range 64 {
		a.set(byte(v), byte(v+0x20))
	}

	return a
}

func newComplexSixBit() *SixBitAlphabet {
	a := &SixBitAlphabet{name: "complex"}
	a.set(0, ' ')
	for v := byte(1); v <= 26; v++ {
		a.set(v, 'A'+v-1)
	}
	for v := byte(0x20); v <= 0x29; v++ {
		a.set(v, '0'+v-0x20)
	}

	return a
}

func (a *SixBitAlphabet) set(code, ch byte) {
	a.decode[code] = ch
	a.encode[ch] = code
	a.valid[ch] = true
}

func (a *SixBitAlphabet) String() string {
	return a.name
}

// SixBitEncodedSize returns the number of bytes n characters occupy.
func SixBitEncodedSize(n int) int {
	return n/4*3 + n%4
}

// SixBitDecodedSize returns the number of characters e bytes decode to.
func SixBitDecodedSize(e int) int {
	return e * 4 / 3
}

// Encode packs text four characters per three bytes.
//
// Groups are stored back to front: the first character ends up in the last byte
// of the result. A trailing partial group uses one byte per character and its
// missing characters are encoded as code 0.
//
// Parameters:
//   - text: Characters from the alphabet
//
// Returns:
//   - []byte: SixBitEncodedSize(len(text)) bytes
//   - error: errs.ErrUnencodableCharacter for characters outside the alphabet
func (a *SixBitAlphabet) Encode(text string) ([]byte, error) {
	codes := make([]byte, len(text)+3)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !a.valid[c] {
			return nil, fmt.Errorf("%w: %q at %d in %s six-bit text %q",
				errs.ErrUnencodableCharacter, c, i, a.name, text)
		}
		codes[i] = a.encode[c]
	}

	out := make([]byte, SixBitEncodedSize(len(text)))
	i := len(out) - 1
	for g := 0; g < len(text); g += 4 {
		a0, a1, a2, a3 := codes[g], codes[g+1], codes[g+2], codes[g+3]

		out[i] = a1>>4 | a0<<2
		i--
		if i < 0 {
			break
		}
		out[i] = (a2&0x3c)>>2 | (a1&0x0f)<<4
		i--
		if i < 0 {
			break
		}
		out[i] = a3 | (a2&0x03)<<6
		i--
	}

	return out, nil
}

// Decode unpacks data into SixBitDecodedSize(len(data)) characters, walking the
// bytes from last to first. The result is not trimmed.
//
// Returns errs.ErrIllegalEncoding for codes the alphabet does not define.
func (a *SixBitAlphabet) Decode(data []byte) (string, error) {
	out := make([]byte, 0, SixBitDecodedSize(len(data)))

	i := len(data) - 1
	for phase := 0; i >= 0; phase = (phase + 1) % 4 {
		var code byte
		switch phase {
		case 0:
			code = data[i] >> 2 & 0x3f
			i--
		case 1:
			code = data[i+1]<<4&0x30 | data[i]>>4&0x0f
			i--
		case 2:
			code = data[i+1]<<2&0x3c | data[i]>>6&0x03
		case 3:
			code = data[i] & 0x3f
			i--
		}

		ch := a.decode[code]
		if ch == 0 {
			return "", fmt.Errorf("%w: %s six-bit code 0x%02x", errs.ErrIllegalEncoding, a.name, code)
		}
		out = append(out, ch)
	}

	return string(out), nil
}
