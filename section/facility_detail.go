package section

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"

	"github.com/arloliu/navdb/endian"
	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

// Detail block numbers with a known layout.
const (
	detailRunwayBlock = 0
	detailCommBlock   = 1
	detailBlockCount  = 16
)

// detailRecord is a facility detail with its table references as indices.
type detailRecord struct {
	runways []runwayRecord
	comms   []commRecord
	unknown []ir.UnknownDetailBlock
}

// LandingFacilityDetailSection holds the variable-length facility details.
//
// A detail is a 16-bit block bitmap, one 16-bit length per present block, then
// the block contents in ascending block order. Facilities refer to a detail by
// its byte offset in the section.
type LandingFacilityDetailSection struct {
	base
	details        []detailRecord
	offsetIndex    map[SectionOffsetKey]IndexKey
	writtenOffsets []SectionOffsetKey
}

func newLandingFacilityDetails(id ID) *LandingFacilityDetailSection {
	return &LandingFacilityDetailSection{base: base{id: id}, offsetIndex: make(map[SectionOffsetKey]IndexKey)}
}

func decodeLandingFacilityDetails(c *Catalog, entry Entry, data []byte) (Section, error) {
	s := newLandingFacilityDetails(entry.Section)
	r := endian.NewReader(data)
	for r.Remaining() > 0 {
		offset := r.Offset()
		rec, err := decodeDetail(c, r)
		if err != nil {
			return nil, fmt.Errorf("detail at 0x%x: %w", offset, err)
		}
		s.offsetIndex[SectionOffsetKey(offset)] = IndexKey(len(s.details))
		s.details = append(s.details, rec)
	}

	return s, nil
}

func decodeDetail(c *Catalog, r *endian.Reader) (detailRecord, error) {
	var rec detailRecord

	bitmap, err := r.Uint16()
	if err != nil {
		return rec, err
	}
	lengths := make([]int, 0, bits.OnesCount16(bitmap))
	for i := 0; i < bits.OnesCount16(bitmap); i++ {
		n, err := r.Uint16()
		if err != nil {
			return rec, err
		}
		lengths = append(lengths, int(n))
	}

	for block := 0; block < detailBlockCount; block++ {
		if bitmap&(1<<block) == 0 {
			continue
		}
		n := lengths[0]
		lengths = lengths[1:]
		data, err := r.Bytes(n)
		if err != nil {
			return rec, fmt.Errorf("block %d: %w", block, err)
		}

		switch {
		case block == detailRunwayBlock && n > 0:
			if rec.runways, err = decodeRunways(c, data); err != nil {
				return rec, err
			}
		case block == detailCommBlock && n > 0:
			if rec.comms, err = decodeCommFrequencies(c, data); err != nil {
				return rec, err
			}
		default:
			rec.unknown = append(rec.unknown, ir.UnknownDetailBlock{Number: block, Data: append([]byte{}, data...)})
		}
	}

	return rec, nil
}

func landingFacilityDetailsFromIR(id ID, _ *ir.NavigationData) (Section, error) {
	return newLandingFacilityDetails(id), nil
}

// Resolve maps an offset read from the container to the detail's index.
func (s *LandingFacilityDetailSection) Resolve(key SectionOffsetKey) (IndexKey, error) {
	i, ok := s.offsetIndex[key]
	if !ok {
		return 0, fmt.Errorf("%w: no detail starts at %s", errs.ErrUnresolvedKey, key)
	}

	return i, nil
}

func (s *LandingFacilityDetailSection) lookup(key IndexKey) (detailRecord, error) {
	if int(key) < 0 || int(key) >= len(s.details) {
		return detailRecord{}, fmt.Errorf("%w: detail %s of %d", errs.ErrUnresolvedKey, key, len(s.details))
	}

	return s.details[key], nil
}

// insert appends a detail and returns its index.
func (s *LandingFacilityDetailSection) insert(rec detailRecord) IndexKey {
	s.details = append(s.details, rec)
	return IndexKey(len(s.details) - 1)
}

// Len returns the number of details.
func (s *LandingFacilityDetailSection) Len() int {
	return len(s.details)
}

// WrittenOffset returns where the detail at key was placed by the last Serialize.
func (s *LandingFacilityDetailSection) WrittenOffset(key IndexKey) (SectionOffsetKey, error) {
	if int(key) < 0 || int(key) >= len(s.writtenOffsets) {
		return 0, fmt.Errorf("%w: detail %s has not been written", errs.ErrUnresolvedKey, key)
	}

	return s.writtenOffsets[key], nil
}

type detailBlock struct {
	number int
	data   []byte
}

func encodeDetail(c *Catalog, w *endian.Writer, rec detailRecord) error {
	blocks := make([]detailBlock, 0, 2+len(rec.unknown))

	if len(rec.runways) > 0 {
		bw := endian.NewWriter(len(rec.runways) * 8)
		err := encodeRunways(c, bw, rec.runways)
		blocks = append(blocks, detailBlock{number: detailRunwayBlock, data: bw.Bytes()})
		bw.Release()
		if err != nil {
			return err
		}
	}
	if len(rec.comms) > 0 {
		bw := endian.NewWriter(len(rec.comms) * 4)
		err := encodeCommFrequencies(c, bw, rec.comms)
		blocks = append(blocks, detailBlock{number: detailCommBlock, data: bw.Bytes()})
		bw.Release()
		if err != nil {
			return err
		}
	}
	for _, u := range rec.unknown {
		blocks = append(blocks, detailBlock{number: u.Number, data: u.Data})
	}
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].number < blocks[j].number })

	var bitmap uint16
	for i, b := range blocks {
		if b.number < 0 || b.number >= detailBlockCount {
			return fmt.Errorf("%w: detail block number %d", errs.ErrInvalidIR, b.number)
		}
		if i > 0 && blocks[i-1].number == b.number {
			return fmt.Errorf("%w: detail block %d appears twice", errs.ErrInvalidIR, b.number)
		}
		if len(b.data) > 0xffff {
			return fmt.Errorf("%w: detail block %d has %d bytes", errs.ErrOutOfRange, b.number, len(b.data))
		}
		bitmap |= 1 << b.number
	}

	w.PutUint16(bitmap)
	for _, b := range blocks {
		w.PutUint16(uint16(len(b.data))) //nolint:gosec
	}
	for _, b := range blocks {
		w.Write(b.data)
	}

	return nil
}

// Serialize writes the details in insertion order and records their offsets.
func (s *LandingFacilityDetailSection) Serialize(c *Catalog) (Output, error) {
	w := endian.NewWriter(len(s.details) * 32)
	defer w.Release()

	s.writtenOffsets = make([]SectionOffsetKey, 0, len(s.details))
	for i, rec := range s.details {
		s.writtenOffsets = append(s.writtenOffsets, SectionOffsetKey(w.Len()))
		if err := encodeDetail(c, w, rec); err != nil {
			return Output{}, fmt.Errorf("detail %d: %w", i, err)
		}
	}
	data := w.Bytes()

	return Output{Data: data, ItemLength: 1, ItemQuantity: len(data)}, nil
}

func (s *LandingFacilityDetailSection) String() string {
	var sb strings.Builder
	for i, d := range s.details {
		fmt.Fprintf(&sb, "%5d: %d runways, %d frequencies", i, len(d.runways), len(d.comms))
		for _, u := range d.unknown {
			fmt.Fprintf(&sb, ", block %d (%d bytes)", u.Number, len(u.Data))
		}
		sb.WriteByte('\n')
	}

	return strings.TrimRight(sb.String(), "\n")
}
