package encoding

import (
	"fmt"
	"strings"

	"github.com/arloliu/navdb/errs"
)

// prefixCodeRange assigns consecutive codes of one bit length to a run of characters.
type prefixCodeRange struct {
	bits  int
	first uint32
	chars string
}

const prefixTextTerminator = 0

// The 9-bit range of the extended alphabet is the basic range plus eleven
// punctuation characters.
var (
	basicPrefixRanges = []prefixCodeRange{
		{bits: 3, first: 0x0, chars: "A"},
		{bits: 4, first: 0x2, chars: "\x00ENORI"},
		{bits: 5, first: 0x10, chars: "L STUMCDHBGKPY"},
		{bits: 9, first: 0x1e0, chars: "VWFJZXQ1204367985"},
	}
	extendedPrefixRanges = []prefixCodeRange{
		basicPrefixRanges[0],
		basicPrefixRanges[1],
		basicPrefixRanges[2],
		{bits: 9, first: 0x1e0, chars: basicPrefixRanges[3].chars + "-/,.&()+;':"},
	}
)

const maxPrefixCodeBits = 9

type prefixCode struct {
	bits int
	code uint32
}

type prefixAlphabet struct {
	name   string
	ranges []prefixCodeRange
	codes  map[byte]prefixCode
}

func newPrefixAlphabet(name string, ranges []prefixCodeRange) *prefixAlphabet {
	a := &prefixAlphabet{name: name, ranges: ranges, codes: make(map[byte]prefixCode)}
	for _, r := range ranges {
		for i := 0; i < len(r.chars); i++ {
			a.codes[r.chars[i]] = prefixCode{bits: r.bits, code: r.first + uint32(i)} //nolint:gosec
		}
	}

	return a
}

var (
	basicPrefixAlphabet    = newPrefixAlphabet("basic", basicPrefixRanges)
	extendedPrefixAlphabet = newPrefixAlphabet("extended", extendedPrefixRanges)
)

// PrefixTextDecoder reads NUL-terminated prefix-coded strings from a BitReader.
// It always accepts the extended alphabet.
type PrefixTextDecoder struct {
	r *BitReader
}

// NewPrefixTextDecoder creates a decoder reading from r.
func NewPrefixTextDecoder(r *BitReader) *PrefixTextDecoder {
	return &PrefixTextDecoder{r: r}
}

// Position returns the reader position, which is where the next string starts.
func (d *PrefixTextDecoder) Position() BitPosition {
	return d.r.Position()
}

// DecodeAt seeks to pos and decodes one string.
func (d *PrefixTextDecoder) DecodeAt(pos BitPosition) (string, error) {
	if err := d.r.Seek(pos); err != nil {
		return "", err
	}

	return d.Decode()
}

// Decode decodes one string at the current position, consuming its terminator.
//
// Returns:
//   - string: The decoded text without the terminator
//   - error: errs.ErrIllegalEncoding for a bit pattern no code matches,
//     errs.ErrOutOfRange if the input ends before the terminator
func (d *PrefixTextDecoder) Decode() (string, error) {
	var sb strings.Builder
	for {
		ch, err := d.next()
		if err != nil {
			return "", err
		}
		if ch == prefixTextTerminator {
			return sb.String(), nil
		}
		sb.WriteByte(ch)
	}
}

func (d *PrefixTextDecoder) next() (byte, error) {
	start := d.r.Position()

	const minBits = 3
	v, err := d.r.ReadBits(minBits)
	if err != nil {
		return 0, err
	}
	for bits := minBits; ; bits++ {
		for _, rg := range extendedPrefixRanges {
			if rg.bits == bits && v >= rg.first && v < rg.first+uint32(len(rg.chars)) { //nolint:gosec
				return rg.chars[v-rg.first], nil
			}
		}
		if bits == maxPrefixCodeBits {
			return 0, fmt.Errorf("%w: prefix code 0x%x at %s", errs.ErrIllegalEncoding, v, start)
		}

		bit, err := d.r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		v = v<<1 | bit
	}
}

// HasRemaining reports whether another string may follow: more than three bits
// remain and they are not just the zero padding of the final byte.
func (d *PrefixTextDecoder) HasRemaining() bool {
	remaining := d.r.RemainingBits()
	if remaining <= 3 {
		return false
	}
	if remaining >= 8 {
		return true
	}

	pos := d.r.Position()
	rest, err := d.r.ReadBits(remaining)
	_ = d.r.Seek(pos)

	return err == nil && rest != 0
}

// PrefixTextEncoder writes NUL-terminated prefix-coded strings to a BitWriter.
type PrefixTextEncoder struct {
	w *BitWriter
}

// NewPrefixTextEncoder creates an encoder appending to w.
func NewPrefixTextEncoder(w *BitWriter) *PrefixTextEncoder {
	return &PrefixTextEncoder{w: w}
}

// Position returns the position the next string will start at.
func (e *PrefixTextEncoder) Position() BitPosition {
	return e.w.Position()
}

// Encode writes text with the basic alphabet followed by the terminator.
// Nothing is written when text contains a character outside the alphabet.
func (e *PrefixTextEncoder) Encode(text string) error {
	return e.encode(basicPrefixAlphabet, text)
}

// EncodeExtended writes text with the extended alphabet followed by the terminator.
func (e *PrefixTextEncoder) EncodeExtended(text string) error {
	return e.encode(extendedPrefixAlphabet, text)
}

func (e *PrefixTextEncoder) encode(a *prefixAlphabet, text string) error {
	codes := make([]prefixCode, 0, len(text)+1)
	for i := 0; i < len(text); i++ {
		c, ok := a.codes[text[i]]
		if !ok || text[i] == prefixTextTerminator {
			return fmt.Errorf("%w: %q at %d in %s prefix text %q",
				errs.ErrUnencodableCharacter, text[i], i, a.name, text)
		}
		codes = append(codes, c)
	}
	codes = append(codes, a.codes[prefixTextTerminator])

	for _, c := range codes {
		e.w.WriteBits(c.bits, c.code)
	}

	return nil
}
