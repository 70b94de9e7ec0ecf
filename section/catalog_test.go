package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

func ptr[T any](v T) *T {
	return &v
}

// sampleDocument returns a small document whose coordinates are exact in the
// container's fixed-point format and whose unknown lists are complete, so that
// its facilities survive a round trip unchanged.
func sampleDocument() *ir.NavigationData {
	massachusetts := ir.IcaoRegion{IdentifierPrefix: "K6", Region: "USA MASSACHUSETTS"}
	argentina := ir.IcaoRegion{IdentifierPrefix: "SA", Region: "ARGENTINA"}

	return &ir.NavigationData{
		Metadata: sampleMetadata(),
		DataLength: &ir.DataLength{
			ItemLength: 1,
			Values:     []uint64{2, 0, 0, 5, 0, 0, 0, 0, 0, 3, 2, 4},
		},
		IcaoRegions: &ir.IcaoRegions{Regions: []ir.IcaoRegion{massachusetts, argentina}},
		CoordinateSystems: &ir.CoordinateSystems{Systems: []ir.CoordinateSystem{
			{Name: "WGS 84", Parameters: []byte{1, 2, 3, 4, 5, 6, 7}},
		}},
		LookupTables: []ir.LookupTable{
			{Section: int(LandingFacilityType), Entries: []string{"PUBLIC", "PRIVATE"}},
		},
		LandingFacilities: []ir.LandingFacility{
			{
				Identifier:       "KBOS",
				IcaoRegion:       massachusetts,
				Type:             "PUBLIC",
				Name:             "GENERAL EDWARD LAWRENCE LOGAN INTL",
				City:             "BOSTON",
				State:            "MA",
				Latitude:         45.0,
				Longitude:        -67.5,
				ElevationFeet:    20,
				Airspace:         "CLASS_B",
				AvgasAvailable:   true,
				JetFuelAvailable: true,
				HasRadar:         true,
				Unknown:          []uint32{1, 0, 0, 1, 3, 0, 1, 0, 5, 0x3ffff, 7},
				Detail: &ir.LandingFacilityDetail{
					Runways: []ir.Runway{
						{
							Number: 4, Suffix: "RIGHT", Lighting: "PILOT_CONTROLLED_LIGHTING", Surface: "ASPHALT",
							LengthFeet: 10005, WidthFeet: 150,
							Info1:   []byte{1, 2, 3, 4},
							Info2:   []byte{1, 2, 3, 4, 5},
							Unknown: []uint32{1, 0, 1, 9},
						},
						{
							Number: 22, Suffix: "LEFT", Lighting: "DUSK_TO_DAWN", Surface: "",
							LengthFeet: 7861, WidthFeet: 150,
							Info3:   []byte{9},
							Unknown: []uint32{0, 0, 0, 0},
						},
					},
					CommunicationFrequencies: []ir.CommunicationFrequency{
						{Type: "TOWER", FrequencyKHz: 128800, Unknown: make([]uint32, 8)},
						{
							Type: "FLIGHT_SERVICE_STATION", FrequencyKHz: 122025,
							Info1:     []byte{1, 2, 3},
							Info4:     []byte{1, 2, 3, 4},
							Narrative: ptr("CTC BOSTON APP"),
							Flag6:     true,
							Unknown:   []uint32{1, 1, 0, 1, 2, 3, 1, 0},
						},
					},
					UnknownBlocks: []ir.UnknownDetailBlock{
						{Number: 3, Data: []byte{}},
						{Number: 5, Data: []byte{0xde, 0xad}},
					},
				},
			},
			{
				Identifier:    "KBVY",
				IcaoRegion:    massachusetts,
				Type:          "PUBLIC",
				Name:          "BEVERLY RGNL",
				City:          "BEVERLY",
				State:         "MA",
				Latitude:      42.1875,
				Longitude:     -70.3125,
				ElevationFeet: 107,
				Unknown:       []uint32{0, 0, 0, 0, 0, 0, 0, 0x1234, 0, 0, 0},
			},
			{
				Identifier:    "SABE",
				IcaoRegion:    argentina,
				Type:          "PRIVATE",
				Name:          "AEROPARQUE J. NEWBERY",
				City:          "BUENOS AIRES",
				Latitude:      -22.5,
				Longitude:     -56.25,
				ElevationFeet: -10,
				Unknown:       make([]uint32, facilityUnknownSize),
				Detail: &ir.LandingFacilityDetail{
					CommunicationFrequencies: []ir.CommunicationFrequency{
						{Type: "TOWER", FrequencyKHz: 118025, Unknown: make([]uint32, 8)},
					},
				},
			},
		},
		UnparsedSections: []ir.UnparsedSection{
			{Section: 4, ItemLength: 2, ItemQuantity: 3, Data: []byte{1, 2, 3, 4, 5, 6}},
		},
	}
}

func encodeDocument(t *testing.T, doc *ir.NavigationData, opts ...Option) []byte {
	t.Helper()

	c, err := BuildCatalog(doc, opts...)
	require.NoError(t, err)
	image, err := c.MarshalBinary()
	require.NoError(t, err)

	return image
}

func decodeDocument(t *testing.T, image []byte) *ir.NavigationData {
	t.Helper()

	c, err := DecodeCatalog(image)
	require.NoError(t, err)
	doc, err := c.ToIR()
	require.NoError(t, err)

	return doc
}

func TestCatalog_RoundTrip(t *testing.T) {
	want := sampleDocument()
	image := encodeDocument(t, want)

	got := decodeDocument(t, image)
	require.Equal(t, want.Metadata, got.Metadata)
	require.Equal(t, want.DataLength, got.DataLength)
	require.Equal(t, want.IcaoRegions.Regions, got.IcaoRegions.Regions)
	require.Equal(t, want.CoordinateSystems.Systems, got.CoordinateSystems.Systems)
	require.Equal(t, want.LandingFacilities, got.LandingFacilities)
	require.Equal(t, DefaultTOCEntries, got.TableOfContents.NumSections)
	require.Empty(t, got.TableOfContents.Overrides)
	require.Contains(t, got.Strings, "BOSTONMA")

	tables := make(map[int][]string)
	for _, lt := range got.LookupTables {
		tables[lt.Section] = lt.Entries
	}
	require.Equal(t, []string{"PCL", "DUSK TO DAWN"}, tables[int(RunwayLighting)])
	require.Equal(t, []string{"ASPHALT", "UNKNOWN SURFACE"}, tables[int(RunwaySurface)])
	require.Equal(t, []string{"TOWER", "FSS"}, tables[int(GenericAirportString1)])
	require.Equal(t, []string{"PUBLIC", "PRIVATE"}, tables[int(LandingFacilityType)])

	require.Equal(t, image, encodeDocument(t, got), "re-encoding the decoded document must be byte-identical")
}

func TestCatalog_PreservesOverridesAndTrailingBytes(t *testing.T) {
	image := encodeDocument(t, sampleDocument())
	image = append(image, 0xaa, 0xbb, 0xcc)

	got := decodeDocument(t, image)
	require.Len(t, got.TableOfContents.Overrides, 1)
	require.Equal(t, image, encodeDocument(t, got))
}

func TestCatalog_AbsentSections(t *testing.T) {
	doc := sampleDocument()
	doc.TableOfContents = ir.TableOfContents{
		AbsentSections:          []int{4, 94},
		EmptySectionItemLengths: []ir.EmptySectionItemLength{{Section: 94, ItemLength: 6}},
	}
	image := encodeDocument(t, doc)

	c, err := DecodeCatalog(image)
	require.NoError(t, err)
	_, ok := c.Section(4)
	require.False(t, ok)
	require.True(t, c.TableOfContents().IsAbsent(94))

	got, err := c.ToIR()
	require.NoError(t, err)
	require.Equal(t, []int{4, 94}, got.TableOfContents.AbsentSections)
	require.Equal(t, image, encodeDocument(t, got))
}

func TestCatalog_UnparsedLookupTableSection(t *testing.T) {
	doc := sampleDocument()
	doc.UnparsedSections = append(doc.UnparsedSections,
		ir.UnparsedSection{Section: 61, ItemLength: 1, ItemQuantity: 3, Data: []byte{1, 2, 3}})
	image := encodeDocument(t, doc)

	c, err := DecodeCatalog(image)
	require.NoError(t, err)
	_, ok := c.Section(61)
	require.True(t, ok)
	e, ok := c.TableOfContents().Entry(61)
	require.True(t, ok)
	require.Equal(t, 3, e.ActualLength)

	got, err := c.ToIR()
	require.NoError(t, err)
	require.Contains(t, got.UnparsedSections, doc.UnparsedSections[1])
	require.Equal(t, image, encodeDocument(t, got))
}

func TestCatalog_SectionOrder(t *testing.T) {
	doc := sampleDocument()
	image := encodeDocument(t, doc, WithSectionOrder([]ID{LandingFacility, String}))

	c, err := DecodeCatalog(image)
	require.NoError(t, err)
	entries := c.TableOfContents().Entries()
	require.Equal(t, LandingFacility, entries[0].Section)
	require.Equal(t, ByteOffsetKey(TableOfContentsOffset+DefaultTOCEntries*TOCEntrySize), entries[0].FileOffset)

	got, err := c.ToIR()
	require.NoError(t, err)
	require.Equal(t, doc.LandingFacilities, got.LandingFacilities)
	require.Equal(t, image, encodeDocument(t, got))

	_, err = BuildCatalog(doc, WithSectionOrder([]ID{String, String}))
	require.ErrorIs(t, err, errs.ErrInvalidIR)
	_, err = BuildCatalog(doc, WithSectionOrder([]ID{Metadata}))
	require.ErrorIs(t, err, errs.ErrInvalidIR)
}

func TestDecodeCatalog_Malformed(t *testing.T) {
	image := encodeDocument(t, sampleDocument())

	t.Run("gap before first section", func(t *testing.T) {
		bad := append([]byte{}, image...)
		// section 0 is first in the default layout; move its offset forward
		bad[TableOfContentsOffset+TOCEntrySize] += 4
		_, err := DecodeCatalog(bad)
		require.ErrorIs(t, err, errs.ErrMalformedContainer)

		var se *errs.SectionError
		require.ErrorAs(t, err, &se)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := DecodeCatalog(image[:MetadataSize+10])
		require.ErrorIs(t, err, errs.ErrMalformedContainer)
	})
}

func TestBuildCatalog_InvalidDocument(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc *ir.NavigationData)
		target error
	}{
		{
			name:   "unknown region",
			mutate: func(doc *ir.NavigationData) { doc.LandingFacilities[1].IcaoRegion.Region = "USA MAINE" },
			target: errs.ErrUnresolvedKey,
		},
		{
			name:   "lowercase identifier",
			mutate: func(doc *ir.NavigationData) { doc.LandingFacilities[1].Identifier = "kbvy" },
			target: errs.ErrUnencodableCharacter,
		},
		{
			name:   "identifier without index entry",
			mutate: func(doc *ir.NavigationData) { doc.LandingFacilities[0].Identifier = " BOS" },
			target: errs.ErrOutOfRange,
		},
		{
			name: "identifiers out of order",
			mutate: func(doc *ir.NavigationData) {
				doc.LandingFacilities[1].Identifier = "SAAA"
				doc.LandingFacilities[2].Identifier = "KBOT"
			},
			target: errs.ErrInvalidIR,
		},
		{
			name:   "too many unknown fields",
			mutate: func(doc *ir.NavigationData) { doc.LandingFacilities[1].Unknown = make([]uint32, 12) },
			target: errs.ErrInvalidIR,
		},
		{
			name:   "unknown airspace",
			mutate: func(doc *ir.NavigationData) { doc.LandingFacilities[1].Airspace = "CLASS_D" },
			target: errs.ErrUnresolvedKey,
		},
		{
			name: "wrong info size",
			mutate: func(doc *ir.NavigationData) {
				doc.LandingFacilities[0].Detail.Runways[0].Info2 = []byte{1}
			},
			target: errs.ErrInvalidIR,
		},
		{
			name: "duplicate detail block",
			mutate: func(doc *ir.NavigationData) {
				doc.LandingFacilities[0].Detail.UnknownBlocks[0].Number = 0
			},
			target: errs.ErrInvalidIR,
		},
		{
			name: "unrepresentable frequency",
			mutate: func(doc *ir.NavigationData) {
				doc.LandingFacilities[2].Detail.CommunicationFrequencies[0].FrequencyKHz = 118001
			},
			target: errs.ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDocument()
			tt.mutate(doc)

			c, err := BuildCatalog(doc)
			if err == nil {
				_, err = c.MarshalBinary()
			}
			require.ErrorIs(t, err, tt.target)

			var se *errs.SectionError
			require.ErrorAs(t, err, &se)
		})
	}
}

func TestCatalog_String(t *testing.T) {
	c, err := DecodeCatalog(encodeDocument(t, sampleDocument()))
	require.NoError(t, err)

	s := c.String()
	require.Contains(t, s, ">>> section 12000 METADATA")
	require.Contains(t, s, ">>> section 6 LANDING_FACILITY")
	require.Contains(t, s, "GENERAL EDWARD LAWRENCE LOGAN INTL")
	require.Contains(t, s, "<<< section 9")
}
