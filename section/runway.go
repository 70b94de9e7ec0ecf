package section

import (
	"fmt"

	"github.com/arloliu/navdb/endian"
	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

const (
	runwayInfo1Size   = 4
	runwayInfo3Size   = 1
	runwayUnknownSize = 4
)

// runwayRecord is a runway with its table references as indices. The string
// fields of rw are not used.
type runwayRecord struct {
	rw       ir.Runway
	suffix   IndexKey
	lighting IndexKey
	surface  IndexKey
}

// Runway record, a 32-bit word then a 24-bit word:
//
//	e0000000 suffix index          00ffe000 width (ft)
//	1f000000 runway number         00001000 info 1 present
//	00800000 unknown 0             00000800 info 2 present
//	00700000 lighting index        00000400 info 3 present
//	000f0000 surface index         00000200 unknown 1
//	0000ffff length (ft)           00000100 unknown 2
//	                               000000ff unknown 3
func decodeRunways(c *Catalog, data []byte) ([]runwayRecord, error) {
	var out []runwayRecord
	r := endian.NewReader(data)
	for r.Remaining() > 0 {
		w, err := r.Uint32()
		if err != nil {
			return nil, fmt.Errorf("runway %d: %w", len(out), err)
		}
		x, err := r.Uint24()
		if err != nil {
			return nil, fmt.Errorf("runway %d: %w", len(out), err)
		}

		rec := runwayRecord{
			suffix:   IndexKey(field(w, 3, 29)),
			lighting: IndexKey(field(w, 3, 20)),
			surface:  IndexKey(field(w, 4, 16)),
			rw: ir.Runway{
				Number:     int(field(w, 5, 24)),
				LengthFeet: int(field(w, 16, 0)),
				WidthFeet:  int(field(x, 11, 13)),
				Unknown:    []uint32{field(w, 1, 23), field(x, 1, 9), field(x, 1, 8), field(x, 8, 0)},
			},
		}
		if flag(x, 12) {
			if rec.rw.Info1, err = readBlob(r, runwayInfo1Size); err != nil {
				return nil, fmt.Errorf("runway %d info 1: %w", len(out), err)
			}
		}
		if flag(x, 11) {
			n, err := c.dataLengthValue(dataLengthRunwayInfo2)
			if err != nil {
				return nil, err
			}
			if rec.rw.Info2, err = readBlob(r, n); err != nil {
				return nil, fmt.Errorf("runway %d info 2: %w", len(out), err)
			}
		}
		if flag(x, 10) {
			if rec.rw.Info3, err = readBlob(r, runwayInfo3Size); err != nil {
				return nil, fmt.Errorf("runway %d info 3: %w", len(out), err)
			}
		}
		out = append(out, rec)
	}

	return out, nil
}

// readBlob copies n bytes; the result is non-nil even when n is zero.
func readBlob(r *endian.Reader, n int) ([]byte, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return nil, err
	}

	return append([]byte{}, b...), nil
}

func checkBlob(b []byte, size int) error {
	if b != nil && len(b) != size {
		return fmt.Errorf("%w: %d bytes, expected %d", errs.ErrInvalidIR, len(b), size)
	}

	return nil
}

func encodeRunways(c *Catalog, w *endian.Writer, runways []runwayRecord) error {
	for i, rec := range runways {
		rw := rec.rw
		what := func() string { return fmt.Sprintf("runway %d", i) }
		if err := checkBlob(rw.Info1, runwayInfo1Size); err != nil {
			return fmt.Errorf("%s info 1: %w", what(), err)
		}
		if rw.Info2 != nil {
			n, err := c.dataLengthValue(dataLengthRunwayInfo2)
			if err != nil {
				return err
			}
			if err := checkBlob(rw.Info2, n); err != nil {
				return fmt.Errorf("%s info 2: %w", what(), err)
			}
		}
		if err := checkBlob(rw.Info3, runwayInfo3Size); err != nil {
			return fmt.Errorf("%s info 3: %w", what(), err)
		}
		u, err := unknownFields(rw.Unknown, runwayUnknownSize)
		if err != nil {
			return fmt.Errorf("%s: %w", what(), err)
		}

		var p fieldPacker
		p.putInt("suffix", int(rec.suffix), 3, 29)
		p.putInt("number", rw.Number, 5, 24)
		p.put("unknown 0", u[0], 1, 23)
		p.putInt("lighting", int(rec.lighting), 3, 20)
		p.putInt("surface", int(rec.surface), 4, 16)
		p.putInt("length", rw.LengthFeet, 16, 0)
		if p.err != nil {
			return fmt.Errorf("%s: %w", what(), p.err)
		}
		word := p.word

		p = fieldPacker{}
		p.putInt("width", rw.WidthFeet, 11, 13)
		p.putBool(rw.Info1 != nil, 12)
		p.putBool(rw.Info2 != nil, 11)
		p.putBool(rw.Info3 != nil, 10)
		p.put("unknown 1", u[1], 1, 9)
		p.put("unknown 2", u[2], 1, 8)
		p.put("unknown 3", u[3], 8, 0)
		if p.err != nil {
			return fmt.Errorf("%s: %w", what(), p.err)
		}

		w.PutUint32(word)
		w.PutUint24(p.word)
		w.Write(rw.Info1)
		w.Write(rw.Info2)
		w.Write(rw.Info3)
	}

	return nil
}
