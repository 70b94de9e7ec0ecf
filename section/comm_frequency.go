package section

import (
	"fmt"

	"github.com/arloliu/navdb/encoding"
	"github.com/arloliu/navdb/endian"
	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

const (
	commUnknownSize      = 8
	narrativeLeadingBits = 7
	frequencyBase        = 0xd2f0
)

// Additional data bitmap of a communication frequency.
const (
	commHasInfo1     = 0x01
	commHasInfo2     = 0x02
	commHasInfo3     = 0x04
	commHasInfo4     = 0x08
	commHasNarrative = 0x10
	commFlag5        = 0x20
	commFlag6        = 0x40
	commFlag7        = 0x80
)

type commRecord struct {
	freq ir.CommunicationFrequency
	kind IndexKey
}

// decodeFrequency maps the 12-bit channel code to kHz. Codes that are not a
// multiple of five carry the extra 5 kHz of 25 kHz channel spacing.
func decodeFrequency(code uint32) int {
	f := (int(code)*5 + frequencyBase) * 2
	if code%5 > 0 {
		f += 5
	}

	return f
}

func encodeFrequency(khz int) (uint32, error) {
	code := (khz/2 - frequencyBase) / 5
	if khz < frequencyBase*2 || code > 0xfff || decodeFrequency(uint32(code)) != khz { //nolint:gosec
		return 0, fmt.Errorf("%w: %d kHz is not a representable channel", errs.ErrOutOfRange, khz)
	}

	return uint32(code), nil //nolint:gosec
}

// Communication frequency word, optionally followed by the additional data
// bitmap and its blobs:
//
//	00000fff channel code          00800000 additional data follows
//	00003000 unknown 0             07000000 unknown 4
//	00004000 unknown 1             38000000 unknown 5
//	00008000 unknown 2             40000000 unknown 6
//	003f0000 type index            80000000 unknown 7
//	00400000 unknown 3
func decodeCommFrequencies(c *Catalog, data []byte) ([]commRecord, error) {
	var out []commRecord
	r := endian.NewReader(data)
	for r.Remaining() > 0 {
		idx := len(out)
		w, err := r.Uint32()
		if err != nil {
			return nil, fmt.Errorf("frequency %d: %w", idx, err)
		}
		rec := commRecord{
			kind: IndexKey(field(w, 6, 16)),
			freq: ir.CommunicationFrequency{
				FrequencyKHz: decodeFrequency(field(w, 12, 0)),
				Unknown: []uint32{
					field(w, 2, 12), field(w, 1, 14), field(w, 1, 15), field(w, 1, 22),
					field(w, 3, 24), field(w, 3, 27), field(w, 1, 30), field(w, 1, 31),
				},
			},
		}
		if flag(w, 23) {
			if err := decodeCommAdditional(c, r, &rec.freq); err != nil {
				return nil, fmt.Errorf("frequency %d: %w", idx, err)
			}
		}
		out = append(out, rec)
	}

	return out, nil
}

func decodeCommAdditional(c *Catalog, r *endian.Reader, f *ir.CommunicationFrequency) error {
	bitmap, err := r.Uint8()
	if err != nil {
		return err
	}

	blobs := []struct {
		flag       uint8
		dataLength int
		dst        *[]byte
	}{
		{commHasInfo1, dataLengthCommInfo1, &f.Info1},
		{commHasInfo2, dataLengthCommInfo2, &f.Info2},
		{commHasInfo3, dataLengthCommInfo2, &f.Info3},
		{commHasInfo4, dataLengthCommInfo4, &f.Info4},
	}
	for _, b := range blobs {
		if bitmap&b.flag == 0 {
			continue
		}
		n, err := c.dataLengthValue(b.dataLength)
		if err != nil {
			return err
		}
		if *b.dst, err = readBlob(r, n); err != nil {
			return err
		}
	}

	if bitmap&commHasNarrative != 0 {
		n, err := r.Uint8()
		if err != nil {
			return err
		}
		raw, err := r.Bytes(int(n))
		if err != nil {
			return err
		}
		text, err := encoding.NewPrefixTextDecoder(encoding.NewBitReader(raw)).
			DecodeAt(encoding.BitPosition{Byte: 0, Bit: narrativeLeadingBits})
		if err != nil {
			return fmt.Errorf("narrative: %w", err)
		}
		f.Narrative = &text
	}
	f.Flag5 = bitmap&commFlag5 != 0
	f.Flag6 = bitmap&commFlag6 != 0
	f.Flag7 = bitmap&commFlag7 != 0

	return nil
}

func encodeNarrative(text string) ([]byte, error) {
	w := encoding.NewBitWriter(len(text) + 1)
	defer w.Release()

	w.WriteBits(narrativeLeadingBits, 0)
	if err := encoding.NewPrefixTextEncoder(w).EncodeExtended(text); err != nil {
		return nil, err
	}
	b := w.Bytes()
	if len(b) > 0xff {
		return nil, fmt.Errorf("%w: narrative needs %d bytes, at most 255 allowed", errs.ErrOutOfRange, len(b))
	}

	return b, nil
}

func encodeCommFrequencies(c *Catalog, w *endian.Writer, freqs []commRecord) error {
	for i, rec := range freqs {
		f := rec.freq
		what := func() string { return fmt.Sprintf("frequency %d", i) }

		var bitmap uint8
		blobs := []struct {
			flag       uint8
			dataLength int
			data       []byte
		}{
			{commHasInfo1, dataLengthCommInfo1, f.Info1},
			{commHasInfo2, dataLengthCommInfo2, f.Info2},
			{commHasInfo3, dataLengthCommInfo2, f.Info3},
			{commHasInfo4, dataLengthCommInfo4, f.Info4},
		}
		for j, b := range blobs {
			if b.data == nil {
				continue
			}
			n, err := c.dataLengthValue(b.dataLength)
			if err != nil {
				return err
			}
			if err := checkBlob(b.data, n); err != nil {
				return fmt.Errorf("%s info %d: %w", what(), j+1, err)
			}
			bitmap |= b.flag
		}

		var narrative []byte
		if f.Narrative != nil {
			var err error
			if narrative, err = encodeNarrative(*f.Narrative); err != nil {
				return fmt.Errorf("%s narrative: %w", what(), err)
			}
			bitmap |= commHasNarrative
		}
		for _, fl := range []struct {
			set  bool
			mask uint8
		}{{f.Flag5, commFlag5}, {f.Flag6, commFlag6}, {f.Flag7, commFlag7}} {
			if fl.set {
				bitmap |= fl.mask
			}
		}

		code, err := encodeFrequency(f.FrequencyKHz)
		if err != nil {
			return fmt.Errorf("%s: %w", what(), err)
		}
		u, err := unknownFields(f.Unknown, commUnknownSize)
		if err != nil {
			return fmt.Errorf("%s: %w", what(), err)
		}

		var p fieldPacker
		p.put("channel", code, 12, 0)
		p.put("unknown 0", u[0], 2, 12)
		p.put("unknown 1", u[1], 1, 14)
		p.put("unknown 2", u[2], 1, 15)
		p.putInt("type", int(rec.kind), 6, 16)
		p.put("unknown 3", u[3], 1, 22)
		p.putBool(bitmap != 0, 23)
		p.put("unknown 4", u[4], 3, 24)
		p.put("unknown 5", u[5], 3, 27)
		p.put("unknown 6", u[6], 1, 30)
		p.put("unknown 7", u[7], 1, 31)
		if p.err != nil {
			return fmt.Errorf("%s: %w", what(), p.err)
		}

		w.PutUint32(p.word)
		if bitmap == 0 {
			continue
		}
		w.PutUint8(bitmap)
		for _, b := range blobs {
			w.Write(b.data)
		}
		if narrative != nil {
			w.PutUint8(uint8(len(narrative))) //nolint:gosec
			w.Write(narrative)
		}
	}

	return nil
}
