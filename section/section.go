package section

import (
	"fmt"

	"github.com/arloliu/navdb/ir"
)

// Output is a serialized section together with the geometry its TOC entry
// declares.
type Output struct {
	Data         []byte
	ItemLength   int
	ItemQuantity int
}

// Section is one typed section of a catalog.
//
// A section is created either from container bytes or from the IR (first pass),
// then MergeFromIR lets it pull cross-section data out of the document (second
// pass). MergeToIR writes its contribution into a document, resolving foreign
// keys through the catalog. Serialize produces the container bytes; it may
// depend on sections that come earlier in DefaultSectionOrder having been
// serialized already.
type Section interface {
	ID() ID
	MergeFromIR(c *Catalog, doc *ir.NavigationData) error
	MergeToIR(c *Catalog, doc *ir.NavigationData) error
	Serialize(c *Catalog) (Output, error)
	String() string
}

// base provides the identity and the no-op merge steps most sections share.
type base struct {
	id ID
}

func (b base) ID() ID {
	return b.id
}

func (b base) MergeFromIR(*Catalog, *ir.NavigationData) error {
	return nil
}

func (b base) MergeToIR(*Catalog, *ir.NavigationData) error {
	return nil
}

// kind is the registry record for a section number.
type kind struct {
	// fromBinary decodes the bytes of a present section. Every byte must be
	// consumed.
	fromBinary func(c *Catalog, entry Entry, data []byte) (Section, error)
	// fromIR builds the section from the document (first pass).
	fromIR func(id ID, doc *ir.NavigationData) (Section, error)
	// itemLength is the fixed TOC item length of the kind, 0 when the IR
	// carries it.
	itemLength int
}

var registry = buildRegistry()

func buildRegistry() map[ID]kind {
	r := map[ID]kind{
		DataLength:            {fromBinary: decodeDataLength, fromIR: dataLengthFromIR},
		IcaoRegion:            {fromBinary: decodeIcaoRegions, fromIR: icaoRegionsFromIR},
		String:                {fromBinary: decodeStrings, fromIR: stringsFromIR, itemLength: 1},
		IdentifierIndex:       {fromBinary: decodeIdentifierIndex, fromIR: identifierIndexFromIR, itemLength: identifierIndexItemLength},
		LandingFacility:       {fromBinary: decodeLandingFacilities, fromIR: landingFacilitiesFromIR, itemLength: facilityRecordSize},
		LandingFacilityDetail: {fromBinary: decodeLandingFacilityDetails, fromIR: landingFacilityDetailsFromIR, itemLength: 1},
		CoordinateSystem:      {fromBinary: decodeCoordinateSystems, fromIR: coordinateSystemsFromIR},
	}
	for _, id := range LookupTableIDs {
		r[id] = kind{fromBinary: decodeLookupTable, fromIR: lookupTableFromIR}
	}
	for _, id := range UnparsedIDs {
		if _, dup := r[id]; dup {
			panic(fmt.Sprintf("section: %s bound twice", id))
		}
		r[id] = kind{fromBinary: decodeUnparsed, fromIR: unparsedFromIR}
	}

	for id := ID(0); id <= MaxSectionNumber; id++ {
		if _, ok := r[id]; !ok {
			panic(fmt.Sprintf("section: %d is not bound to a codec", int(id)))
		}
	}

	return r
}

// naturalGeometry returns the geometry a section of this kind declares for
// actualLength bytes, and false when the IR carries the geometry.
func (k kind) naturalGeometry(actualLength int) (itemLength, itemQuantity int, fixed bool) {
	if k.itemLength == 0 {
		return 0, 0, false
	}

	return k.itemLength, actualLength / k.itemLength, true
}
