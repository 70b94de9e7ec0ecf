package section

import (
	"fmt"
	"strings"

	"github.com/arloliu/navdb/encoding"
	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

const icaoPrefixLength = 2

// IcaoRegionSection is the table of ICAO regions. Each item is the identifier
// prefix followed by the region name, six-bit encoded and space padded.
type IcaoRegionSection struct {
	base
	itemLength int
	regions    []ir.IcaoRegion
}

func decodeIcaoRegions(_ *Catalog, entry Entry, data []byte) (Section, error) {
	n, err := itemCount(entry.Section, entry.ItemLength, len(data))
	if err != nil {
		return nil, err
	}
	if n > 0 && encoding.SixBitDecodedSize(entry.ItemLength) < icaoPrefixLength {
		return nil, fmt.Errorf("%w: icao region item length %d", errs.ErrMalformedContainer, entry.ItemLength)
	}

	s := &IcaoRegionSection{base: base{id: IcaoRegion}, itemLength: entry.ItemLength}
	for i := 0; i < n; i++ {
		text, err := encoding.SimpleSixBit.Decode(data[i*entry.ItemLength : (i+1)*entry.ItemLength])
		if err != nil {
			return nil, fmt.Errorf("icao region %d: %w", i, err)
		}
		s.regions = append(s.regions, ir.IcaoRegion{
			IdentifierPrefix: text[:icaoPrefixLength],
			Region:           strings.TrimRight(text[icaoPrefixLength:], " "),
		})
	}

	return s, nil
}

func icaoRegionsFromIR(id ID, doc *ir.NavigationData) (Section, error) {
	s := &IcaoRegionSection{base: base{id: id}}
	if doc.IcaoRegions == nil {
		return s, nil
	}

	longest := 0
	for i, r := range doc.IcaoRegions.Regions {
		if len(r.IdentifierPrefix) != icaoPrefixLength {
			return nil, fmt.Errorf("%w: icao region %d prefix %q", errs.ErrInvalidIR, i, r.IdentifierPrefix)
		}
		longest = max(longest, len(r.IdentifierPrefix)+len(r.Region))
	}
	s.itemLength = doc.IcaoRegions.ItemLength
	if s.itemLength == 0 {
		s.itemLength = encoding.SixBitEncodedSize(longest)
	}
	if encoding.SixBitDecodedSize(s.itemLength) < longest {
		return nil, fmt.Errorf("%w: icao region item length %d holds %d characters, need %d",
			errs.ErrInvalidIR, s.itemLength, encoding.SixBitDecodedSize(s.itemLength), longest)
	}
	s.regions = append(s.regions, doc.IcaoRegions.Regions...)

	return s, nil
}

// Lookup returns the region at key.
func (s *IcaoRegionSection) Lookup(key IndexKey) (ir.IcaoRegion, error) {
	if int(key) < 0 || int(key) >= len(s.regions) {
		return ir.IcaoRegion{}, fmt.Errorf("%w: %s of %d icao regions", errs.ErrUnresolvedKey, key, len(s.regions))
	}

	return s.regions[key], nil
}

// LookupByRegion returns the key of the first region equal to r.
func (s *IcaoRegionSection) LookupByRegion(r ir.IcaoRegion) (IndexKey, error) {
	for i, candidate := range s.regions {
		if candidate == r {
			return IndexKey(i), nil
		}
	}

	return 0, fmt.Errorf("%w: icao region %s %q", errs.ErrUnresolvedKey, r.IdentifierPrefix, r.Region)
}

func (s *IcaoRegionSection) MergeToIR(_ *Catalog, doc *ir.NavigationData) error {
	doc.IcaoRegions = &ir.IcaoRegions{ItemLength: s.itemLength, Regions: append([]ir.IcaoRegion{}, s.regions...)}
	return nil
}

func (s *IcaoRegionSection) Serialize(*Catalog) (Output, error) {
	width := encoding.SixBitDecodedSize(s.itemLength)
	out := make([]byte, 0, s.itemLength*len(s.regions))
	for i, r := range s.regions {
		text := r.IdentifierPrefix + r.Region
		b, err := encoding.SimpleSixBit.Encode(text + strings.Repeat(" ", width-len(text)))
		if err != nil {
			return Output{}, fmt.Errorf("icao region %d: %w", i, err)
		}
		out = append(out, b...)
	}

	return Output{Data: out, ItemLength: s.itemLength, ItemQuantity: len(s.regions)}, nil
}

func (s *IcaoRegionSection) String() string {
	var sb strings.Builder
	for i, r := range s.regions {
		fmt.Fprintf(&sb, "%3d: %s %s\n", i, r.IdentifierPrefix, r.Region)
	}

	return strings.TrimRight(sb.String(), "\n")
}
