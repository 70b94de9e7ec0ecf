package section

import "fmt"

// ID is a section number. Numbers 0..MaxSectionNumber have table of contents
// entries; the pseudo numbers above them name structures that do not.
type ID int

// Section numbers with a known layout.
const (
	DataLength              ID = 0
	IcaoRegion              ID = 1
	String                  ID = 2
	IdentifierIndex         ID = 3
	LandingFacility         ID = 6
	LandingFacilityDetail   ID = 9
	CoordinateSystem        ID = 41
	RunwayLighting          ID = 47
	RunwaySurface           ID = 48
	GenericAirportString1   ID = 49
	LHTU                    ID = 53
	ApproachType            ID = 54
	LandingFacilityType     ID = 55
	AirspaceAbbreviation1   ID = 59
	AirspaceAbbreviation2   ID = 60
	InstrumentApproachType  ID = 62
	NESTB                   ID = 64
	BriefAirspaceType1      ID = 67
	RNAVType                ID = 70
	GPSApproachType1        ID = 76
	GPSApproachType2        ID = 77
	GenericAirportString2   ID = 79
	ExpandedAirspaceAbbrev1 ID = 80
	ExpandedAirspaceAbbrev2 ID = 81
	BriefAirspaceType2      ID = 87

	// MaxSectionNumber is the highest section number with a TOC entry.
	MaxSectionNumber ID = 94

	// RunwayNumberSuffixTable and AirspaceTable are fixed tables compiled into
	// the codec; they never appear in a container.
	RunwayNumberSuffixTable ID = 10001
	AirspaceTable           ID = 10002

	// Metadata is the 512-byte block at offset 0.
	Metadata ID = 12000
	// TableOfContents is the directory at TableOfContentsOffset.
	TableOfContents ID = 12001
)

// Container layout.
const (
	MetadataSize          = 512
	TableOfContentsOffset = 0x200
	TOCEntrySize          = 8
	// MaxTOCEntries bounds the TOC item quantity, which counts the TOC itself.
	MaxTOCEntries = 108
	// DefaultTOCEntries covers sections 0..MaxSectionNumber plus the TOC entry.
	// Slots past MaxSectionNumber may only be absent.
	DefaultTOCEntries = int(MaxSectionNumber) + 2
)

// LookupTableIDs lists the fixed-width string table sections.
var LookupTableIDs = []ID{
	RunwayLighting, RunwaySurface, GenericAirportString1, LHTU, ApproachType,
	LandingFacilityType, AirspaceAbbreviation1, AirspaceAbbreviation2,
	InstrumentApproachType, NESTB, BriefAirspaceType1, RNAVType,
	GPSApproachType1, GPSApproachType2, GenericAirportString2,
	ExpandedAirspaceAbbrev1, ExpandedAirspaceAbbrev2, BriefAirspaceType2,
}

// UnparsedIDs lists the sections kept as opaque bytes.
var UnparsedIDs = []ID{
	4, 5, 7, 8, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29,
	30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40, 42, 43, 44, 45, 46, 50, 51, 52, 56, 57, 58, 61, 63,
	65, 66, 68, 69, 71, 72, 73, 74, 75, 78, 82, 83, 84, 85, 86, 88, 89, 90, 91, 92, 93, 94,
}

// DefaultSectionOrder is both the order sections are built and serialized in
// (every section comes after the sections its foreign keys point into) and the
// file layout used when the IR does not record one.
var DefaultSectionOrder = []ID{
	Metadata, TableOfContents,
	0, 74, 43, 75, 27, 89, 1, 2, 86, 10, 42, 85, 90, 91, 92, 93, 94, 41, 62, 55, 56, 57, 58, 70,
	64, 71, 49, 52, 48, 47, 50, 51, 67, 59, 60, 54, 53, 76, 77, 79, 80, 81, 87, 78, 35, 34, 33, 31,
	30, 32, 14, 12, 11, 13, 18, 16, 15, 17, 19, 20, 24, 22, 21, 23, 25, 26, 9, 6, 4, 3, 5, 7,
	8, 69, 29, 28, 40, 37, 36, 38, 39, 68, 88, 45, 44, 46, 73, 72, 65, 61, 63, 66, 82, 83,
	84,
}

var idNames = map[ID]string{
	DataLength:              "DATA_LENGTH",
	IcaoRegion:              "ICAO_REGION",
	String:                  "STRING",
	IdentifierIndex:         "LANDING_FACILITY_IDENTIFIER_INDEX",
	LandingFacility:         "LANDING_FACILITY",
	LandingFacilityDetail:   "LANDING_FACILITY_DETAIL",
	CoordinateSystem:        "COORDINATE_SYSTEM",
	RunwayLighting:          "RUNWAY_LIGHTING",
	RunwaySurface:           "RUNWAY_SURFACE",
	GenericAirportString1:   "GENERIC_AIRPORT_STRING_1",
	LHTU:                    "LHTU",
	ApproachType:            "APPROACH_TYPE",
	LandingFacilityType:     "LANDING_FACILITY_TYPE",
	AirspaceAbbreviation1:   "AIRSPACE_ABBREVIATION_1",
	AirspaceAbbreviation2:   "AIRSPACE_ABBREVIATION_2",
	InstrumentApproachType:  "INSTRUMENT_APPROACH_TYPE",
	NESTB:                   "NESTB",
	BriefAirspaceType1:      "BRIEF_AIRSPACE_TYPE_1",
	RNAVType:                "RNAV_TYPE",
	GPSApproachType1:        "GPS_APPROACH_TYPE_1",
	GPSApproachType2:        "GPS_APPROACH_TYPE_2",
	GenericAirportString2:   "GENERIC_AIRPORT_STRING_2",
	ExpandedAirspaceAbbrev1: "EXPANDED_AIRSPACE_ABBREVIATION_1",
	ExpandedAirspaceAbbrev2: "EXPANDED_AIRSPACE_ABBREVIATION_2",
	BriefAirspaceType2:      "BRIEF_AIRSPACE_TYPE_2",
	RunwayNumberSuffixTable: "RUNWAY_NUMBER_SUFFIX",
	AirspaceTable:           "AIRSPACE",
	Metadata:                "METADATA",
	TableOfContents:         "TABLE_OF_CONTENTS",
}

func (id ID) String() string {
	if name, ok := idNames[id]; ok {
		return name
	}

	return fmt.Sprintf("UNPARSED_%d", int(id))
}

// InTOC reports whether id has a table of contents entry.
func (id ID) InTOC() bool {
	return id >= 0 && id <= MaxSectionNumber
}
