package section

import (
	"fmt"
	"strings"

	"github.com/arloliu/navdb/endian"
	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

const (
	facilityRecordSize  = 28
	facilityUnknownSize = 11
	elevationAdjustment = 0x1388
	// coordinateScale is the number of coordinate units in 180 degrees.
	coordinateScale = 1 << 24
	noDetail        = IndexKey(-1)
)

// facilityRecord is a landing facility with every reference as an index into
// its target section.
type facilityRecord struct {
	lonBits      int32
	latBits      int32
	facilityType IndexKey
	region       IndexKey
	airspace     IndexKey
	identifier   [2]byte
	elevation    int
	name         IndexKey
	location     IndexKey
	detail       IndexKey
	avgas        bool
	jetFuel      bool
	radar        bool
	unknown      [facilityUnknownSize]uint32
}

// LandingFacilitySection is the table of 28-byte landing facility records,
// sorted by identifier.
type LandingFacilitySection struct {
	base
	records []facilityRecord
}

// decodeFacility parses one record; bytes are little-endian words:
//
//	0-3   longitude high 16 bits, latitude high 16 bits (signed)
//	4-7   c0000000 unknown 0, 20000000 unknown 1, 1c000000 type index,
//	      03fe0000 icao region index, 0001ff00 longitude low, 000000ff latitude low
//	8-9   first two encoded identifier bytes
//	10-11 8000 has detail, 7fff elevation + 0x1388
//	12-15 c0000000 unknown 2, 20000000 unknown 3, 1f000000 unknown 4,
//	      00800000 avgas, 00400000 jet fuel, 00380000 7 - name bit, 0007ffff name byte
//	16-19 fe000000 detail offset bits 16-22, 01000000 unknown 5, 00800000 radar,
//	      00400000 unknown 6, 00380000 7 - location bit, 0007ffff location byte
//	20-23 ffff0000 detail offset low, 0000e000 airspace index, 00001fff unknown 8
//	24-27 ffffff00 unknown 9, 000000ff unknown 10
//
// Without a detail the 23 detail offset bits are kept as unknown 7.
func decodeFacility(c *Catalog, r *endian.Reader) (facilityRecord, error) {
	var (
		rec   facilityRecord
		words [5]uint32
	)
	lonHigh, _ := r.Int16()
	latHigh, _ := r.Int16()
	words[0], _ = r.Uint32()
	id, _ := r.Bytes(2)
	elev, _ := r.Uint16()
	words[1], _ = r.Uint32()
	words[2], _ = r.Uint32()
	words[3], _ = r.Uint32()
	words[4], _ = r.Uint32()

	w := words[0]
	rec.lonBits = int32(lonHigh)<<9 | int32(field(w, 9, 8)) //nolint:gosec
	rec.latBits = int32(latHigh)<<8 | int32(field(w, 8, 0)) //nolint:gosec
	rec.region = IndexKey(field(w, 9, 17))
	rec.facilityType = IndexKey(field(w, 3, 26))
	rec.unknown[0] = field(w, 2, 30)
	rec.unknown[1] = field(w, 1, 29)
	copy(rec.identifier[:], id)

	hasDetail := elev&0x8000 != 0
	rec.elevation = int(elev&0x7fff) - elevationAdjustment

	w = words[1]
	rec.unknown[2] = field(w, 2, 30)
	rec.unknown[3] = field(w, 1, 29)
	rec.unknown[4] = field(w, 5, 24)
	rec.avgas = flag(w, 23)
	rec.jetFuel = flag(w, 22)
	nameKey := BitPositionKey{Byte: int(field(w, 19, 0)), Bit: 7 - int(field(w, 3, 19))}

	w = words[2]
	detailHigh := field(w, 7, 25) << 16
	rec.unknown[5] = field(w, 1, 24)
	rec.radar = flag(w, 23)
	rec.unknown[6] = field(w, 1, 22)
	locationKey := BitPositionKey{Byte: int(field(w, 19, 0)), Bit: 7 - int(field(w, 3, 19))}

	w = words[3]
	detailOffset := detailHigh | field(w, 16, 16)
	rec.airspace = IndexKey(field(w, 3, 13))
	rec.unknown[8] = field(w, 13, 0)

	w = words[4]
	rec.unknown[9] = field(w, 24, 8)
	rec.unknown[10] = field(w, 8, 0)

	strs, err := c.strings()
	if err != nil {
		return rec, err
	}
	if rec.name, err = strs.Resolve(nameKey); err != nil {
		return rec, fmt.Errorf("name: %w", err)
	}
	if rec.location, err = strs.Resolve(locationKey); err != nil {
		return rec, fmt.Errorf("location: %w", err)
	}

	rec.detail = noDetail
	if !hasDetail {
		rec.unknown[7] = detailOffset
		return rec, nil
	}
	details, err := c.details()
	if err != nil {
		return rec, err
	}
	if rec.detail, err = details.Resolve(SectionOffsetKey(detailOffset)); err != nil {
		return rec, fmt.Errorf("detail: %w", err)
	}

	return rec, nil
}

func decodeLandingFacilities(c *Catalog, entry Entry, data []byte) (Section, error) {
	n, err := itemCount(entry.Section, facilityRecordSize, len(data))
	if err != nil {
		return nil, err
	}

	s := &LandingFacilitySection{base: base{id: entry.Section}, records: make([]facilityRecord, 0, n)}
	r := endian.NewReader(data)
	for i := 0; i < n; i++ {
		rec, err := decodeFacility(c, r)
		if err != nil {
			return nil, fmt.Errorf("landing facility %d: %w", i, err)
		}
		s.records = append(s.records, rec)
	}

	return s, nil
}

func landingFacilitiesFromIR(id ID, _ *ir.NavigationData) (Section, error) {
	return &LandingFacilitySection{base: base{id: id}}, nil
}

// Len returns the number of facilities.
func (s *LandingFacilitySection) Len() int {
	return len(s.records)
}

// MergeFromIR normalizes the document's facilities. It inserts into the string,
// lookup, detail and identifier index sections, so those must exist.
func (s *LandingFacilitySection) MergeFromIR(c *Catalog, doc *ir.NavigationData) error {
	s.records = make([]facilityRecord, 0, len(doc.LandingFacilities))
	prev := -1
	for i := range doc.LandingFacilities {
		if p, ok := identifierPrefix(doc.LandingFacilities[i].Identifier); ok {
			if int(p) < prev {
				return fmt.Errorf("%w: landing facility %d identifier %q sorts before %q",
					errs.ErrInvalidIR, i, doc.LandingFacilities[i].Identifier, doc.LandingFacilities[i-1].Identifier)
			}
			prev = int(p)
		}
		rec, err := c.normalizeFacility(&doc.LandingFacilities[i], IndexKey(i))
		if err != nil {
			return fmt.Errorf("landing facility %d (%s): %w", i, doc.LandingFacilities[i].Identifier, err)
		}
		s.records = append(s.records, rec)
	}

	return nil
}

func (s *LandingFacilitySection) MergeToIR(c *Catalog, doc *ir.NavigationData) error {
	doc.LandingFacilities = make([]ir.LandingFacility, 0, len(s.records))
	for i := range s.records {
		f, err := c.denormalizeFacility(&s.records[i], IndexKey(i))
		if err != nil {
			return fmt.Errorf("landing facility %d: %w", i, err)
		}
		doc.LandingFacilities = append(doc.LandingFacilities, f)
	}

	return nil
}

func encodeFacility(c *Catalog, w *endian.Writer, rec *facilityRecord) error {
	strs, err := c.strings()
	if err != nil {
		return err
	}
	name, err := strs.WrittenKey(rec.name)
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	location, err := strs.WrittenKey(rec.location)
	if err != nil {
		return fmt.Errorf("location: %w", err)
	}

	elevation := rec.elevation + elevationAdjustment
	if elevation < 0 || elevation > 0x7fff {
		return fmt.Errorf("%w: elevation %d ft", errs.ErrOutOfRange, rec.elevation)
	}
	detailOffset := rec.unknown[7]
	if rec.detail != noDetail {
		details, err := c.details()
		if err != nil {
			return err
		}
		off, err := details.WrittenOffset(rec.detail)
		if err != nil {
			return fmt.Errorf("detail: %w", err)
		}
		detailOffset = uint32(off) //nolint:gosec
	}
	if detailOffset > 0x7fffff {
		return fmt.Errorf("%w: detail offset 0x%x", errs.ErrOutOfRange, detailOffset)
	}

	var p fieldPacker
	p.put("unknown 0", rec.unknown[0], 2, 30)
	p.put("unknown 1", rec.unknown[1], 1, 29)
	p.putInt("type", int(rec.facilityType), 3, 26)
	p.putInt("icao region", int(rec.region), 9, 17)
	p.put("longitude", uint32(rec.lonBits)&0x1ff, 9, 8) //nolint:gosec
	p.put("latitude", uint32(rec.latBits)&0xff, 8, 0)   //nolint:gosec
	maskWord := p

	p = fieldPacker{}
	p.put("unknown 2", rec.unknown[2], 2, 30)
	p.put("unknown 3", rec.unknown[3], 1, 29)
	p.put("unknown 4", rec.unknown[4], 5, 24)
	p.putBool(rec.avgas, 23)
	p.putBool(rec.jetFuel, 22)
	p.putInt("name bit", 7-name.Bit, 3, 19)
	p.putInt("name byte", name.Byte, 19, 0)
	nameWord := p

	p = fieldPacker{}
	p.put("detail offset", detailOffset>>16, 7, 25)
	p.put("unknown 5", rec.unknown[5], 1, 24)
	p.putBool(rec.radar, 23)
	p.put("unknown 6", rec.unknown[6], 1, 22)
	p.putInt("location bit", 7-location.Bit, 3, 19)
	p.putInt("location byte", location.Byte, 19, 0)
	locationWord := p

	p = fieldPacker{}
	p.put("detail offset", detailOffset&0xffff, 16, 16)
	p.putInt("airspace", int(rec.airspace), 3, 13)
	p.put("unknown 8", rec.unknown[8], 13, 0)
	detailWord := p

	p = fieldPacker{}
	p.put("unknown 9", rec.unknown[9], 24, 8)
	p.put("unknown 10", rec.unknown[10], 8, 0)
	tailWord := p

	for _, packed := range []fieldPacker{maskWord, nameWord, locationWord, detailWord, tailWord} {
		if packed.err != nil {
			return packed.err
		}
	}

	w.PutUint16(uint16(rec.lonBits >> 9)) //nolint:gosec
	w.PutUint16(uint16(rec.latBits >> 8)) //nolint:gosec
	w.PutUint32(maskWord.word)
	w.Write(rec.identifier[:])
	hasDetail := uint16(0)
	if rec.detail != noDetail {
		hasDetail = 0x8000
	}
	w.PutUint16(hasDetail | uint16(elevation)) //nolint:gosec
	w.PutUint32(nameWord.word)
	w.PutUint32(locationWord.word)
	w.PutUint32(detailWord.word)
	w.PutUint32(tailWord.word)

	return nil
}

func (s *LandingFacilitySection) Serialize(c *Catalog) (Output, error) {
	w := endian.NewWriter(len(s.records) * facilityRecordSize)
	defer w.Release()

	for i := range s.records {
		if err := encodeFacility(c, w, &s.records[i]); err != nil {
			return Output{}, fmt.Errorf("landing facility %d: %w", i, err)
		}
	}

	return Output{Data: w.Bytes(), ItemLength: facilityRecordSize, ItemQuantity: len(s.records)}, nil
}

func (s *LandingFacilitySection) String() string {
	var sb strings.Builder
	for i, rec := range s.records {
		fmt.Fprintf(&sb, "%5d: %02x%02x type %d region %d lat %.5f lon %.5f elev %d name %s location %s",
			i, rec.identifier[0], rec.identifier[1], rec.facilityType, rec.region,
			float64(rec.latBits)/coordinateScale*180, float64(rec.lonBits)/coordinateScale*180,
			rec.elevation, rec.name, rec.location)
		if rec.detail != noDetail {
			fmt.Fprintf(&sb, " detail %s", rec.detail)
		}
		sb.WriteByte('\n')
	}

	return strings.TrimRight(sb.String(), "\n")
}
