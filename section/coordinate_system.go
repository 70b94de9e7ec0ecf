package section

import (
	"fmt"
	"strings"

	"github.com/arloliu/navdb/encoding"
	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

const (
	coordinateSystemNameSize = 15
	// coordinateSystemParameters is the parameter count of new tables.
	coordinateSystemParameters = 7
)

// CoordinateSystemSection lists geodetic datums: a six-bit name followed by
// opaque parameter bytes.
type CoordinateSystemSection struct {
	base
	itemLength int
	systems    []ir.CoordinateSystem
}

func decodeCoordinateSystems(_ *Catalog, entry Entry, data []byte) (Section, error) {
	n, err := itemCount(entry.Section, entry.ItemLength, len(data))
	if err != nil {
		return nil, err
	}
	if n > 0 && entry.ItemLength < coordinateSystemNameSize {
		return nil, fmt.Errorf("%w: coordinate system item length %d", errs.ErrMalformedContainer, entry.ItemLength)
	}

	s := &CoordinateSystemSection{base: base{id: CoordinateSystem}, itemLength: entry.ItemLength}
	for i := 0; i < n; i++ {
		item := data[i*entry.ItemLength : (i+1)*entry.ItemLength]
		name, err := encoding.SimpleSixBit.Decode(item[:coordinateSystemNameSize])
		if err != nil {
			return nil, fmt.Errorf("coordinate system %d: %w", i, err)
		}
		s.systems = append(s.systems, ir.CoordinateSystem{
			Name:       strings.TrimRight(name, " "),
			Parameters: append([]byte{}, item[coordinateSystemNameSize:]...),
		})
	}

	return s, nil
}

func coordinateSystemsFromIR(id ID, doc *ir.NavigationData) (Section, error) {
	s := &CoordinateSystemSection{base: base{id: id}}
	if doc.CoordinateSystems == nil {
		return s, nil
	}

	s.itemLength = doc.CoordinateSystems.ItemLength
	if s.itemLength == 0 && len(doc.CoordinateSystems.Systems) > 0 {
		s.itemLength = coordinateSystemNameSize + coordinateSystemParameters
	}
	for i, cs := range doc.CoordinateSystems.Systems {
		if coordinateSystemNameSize+len(cs.Parameters) != s.itemLength {
			return nil, fmt.Errorf("%w: coordinate system %d has %d parameter bytes, item length %d holds %d",
				errs.ErrInvalidIR, i, len(cs.Parameters), s.itemLength, s.itemLength-coordinateSystemNameSize)
		}
	}
	s.systems = append(s.systems, doc.CoordinateSystems.Systems...)

	return s, nil
}

func (s *CoordinateSystemSection) MergeToIR(_ *Catalog, doc *ir.NavigationData) error {
	doc.CoordinateSystems = &ir.CoordinateSystems{
		ItemLength: s.itemLength,
		Systems:    append([]ir.CoordinateSystem{}, s.systems...),
	}

	return nil
}

func (s *CoordinateSystemSection) Serialize(*Catalog) (Output, error) {
	nameWidth := encoding.SixBitDecodedSize(coordinateSystemNameSize)
	out := make([]byte, 0, s.itemLength*len(s.systems))
	for i, cs := range s.systems {
		if len(cs.Name) > nameWidth {
			return Output{}, fmt.Errorf("%w: coordinate system %d name %q is longer than %d characters",
				errs.ErrOutOfRange, i, cs.Name, nameWidth)
		}
		name, err := encoding.SimpleSixBit.Encode(cs.Name + strings.Repeat(" ", nameWidth-len(cs.Name)))
		if err != nil {
			return Output{}, fmt.Errorf("coordinate system %d: %w", i, err)
		}
		out = append(out, name...)
		out = append(out, cs.Parameters...)
	}

	return Output{Data: out, ItemLength: s.itemLength, ItemQuantity: len(s.systems)}, nil
}

func (s *CoordinateSystemSection) String() string {
	var sb strings.Builder
	for i, cs := range s.systems {
		fmt.Fprintf(&sb, "%3d: %-20s % x\n", i, cs.Name, cs.Parameters)
	}

	return strings.TrimRight(sb.String(), "\n")
}
