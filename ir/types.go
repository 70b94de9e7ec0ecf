// Package ir defines the intermediate representation of a navigation database.
//
// The IR is a plain Go document with JSON tags. It carries every field of the
// container, including the fields whose meaning is unknown, so that a container
// decoded to IR and encoded again is byte-identical to the original. Byte blobs
// are rendered as base64 by encoding/json.
package ir

// NavigationData is the root IR document.
type NavigationData struct {
	// Source identifies the container the document was decoded from. It is empty
	// for documents built from other inputs.
	Source            *Source            `json:"source,omitempty"`
	Metadata          Metadata           `json:"metadata"`
	TableOfContents   TableOfContents    `json:"table_of_contents"`
	DataLength        *DataLength        `json:"data_length,omitempty"`
	IcaoRegions       *IcaoRegions       `json:"icao_regions,omitempty"`
	Strings           []string           `json:"strings,omitempty"`
	CoordinateSystems *CoordinateSystems `json:"coordinate_systems,omitempty"`
	LookupTables      []LookupTable      `json:"lookup_tables,omitempty"`
	LandingFacilities []LandingFacility  `json:"landing_facilities,omitempty"`
	UnparsedSections  []UnparsedSection  `json:"unparsed_sections,omitempty"`
}

// Source fingerprints the decoded container.
type Source struct {
	Size   int64  `json:"size"`
	BLAKE3 string `json:"blake3"`
}

// Date is a calendar date as stored in the metadata block.
type Date struct {
	Year  uint16 `json:"year"`
	Month uint8  `json:"month"`
	Day   uint8  `json:"day"`
}

// Metadata is the fixed 512-byte block at the start of the container.
type Metadata struct {
	// Preamble holds the bytes following the length byte. Nil means the default
	// 128-byte counting preamble.
	Preamble       []byte `json:"preamble"`
	CycleNumber    int16  `json:"cycle_number"`
	EffectiveDate  Date   `json:"effective_date"`
	ExpiresDate    Date   `json:"expires_date"`
	SnapshotDate   Date   `json:"aeronautical_data_snapshot_date"`
	PartNumber     string `json:"part_number"`
	CoverageRegion string `json:"coverage_region"`
	CopyrightLine1 string `json:"copyright_line_1"`
	CopyrightLine2 string `json:"copyright_line_2"`
	Unknown1       uint8  `json:"unknown_1"`
	Unknown2       uint16 `json:"unknown_2"`
	Unknown3       uint8  `json:"unknown_3"`
	Unknown4       uint8  `json:"unknown_4"`
	Unknown5       uint8  `json:"unknown_5"`
}

// TableOfContents carries the directory details that cannot be recomputed from
// the section contents.
type TableOfContents struct {
	// NumSections is the TOC item quantity, which counts the TOC entry itself.
	NumSections int `json:"num_sections"`
	// Overrides are entries whose declared geometry does not describe the
	// section's actual length. Their item length and quantity are written as is.
	Overrides []TableOfContentsEntry `json:"overrides,omitempty"`
	// EmptySectionItemLengths are item lengths declared by absent sections.
	EmptySectionItemLengths []EmptySectionItemLength `json:"empty_section_item_lengths,omitempty"`
	// AbsentSections are section numbers written with a zero file offset.
	AbsentSections []int `json:"absent_sections,omitempty"`
	// SectionOrder is the physical order of the sections in the file.
	SectionOrder []int `json:"section_order,omitempty"`
}

// TableOfContentsEntry is one declared directory entry.
type TableOfContentsEntry struct {
	Section      int `json:"section"`
	ItemLength   int `json:"item_length"`
	ItemQuantity int `json:"item_quantity"`
}

// EmptySectionItemLength is the item length of a section that is not present.
type EmptySectionItemLength struct {
	Section    int `json:"section"`
	ItemLength int `json:"item_length"`
}

// DataLength holds the item sizes other sections consult when decoding.
type DataLength struct {
	ItemLength int      `json:"item_length"`
	Values     []uint64 `json:"values"`
}

// IcaoRegions is the table of ICAO regions.
type IcaoRegions struct {
	ItemLength int          `json:"item_length"`
	Regions    []IcaoRegion `json:"regions"`
}

// IcaoRegion pairs a two-character identifier prefix with a region name.
type IcaoRegion struct {
	IdentifierPrefix string `json:"identifier_prefix"`
	Region           string `json:"region"`
}

// CoordinateSystems is the table of geodetic datums.
type CoordinateSystems struct {
	ItemLength int                `json:"item_length"`
	Systems    []CoordinateSystem `json:"systems"`
}

// CoordinateSystem is a named datum with opaque parameter bytes.
type CoordinateSystem struct {
	Name       string `json:"name"`
	Parameters []byte `json:"parameters"`
}

// LookupTable is a fixed-width string table.
type LookupTable struct {
	Section    int      `json:"section"`
	ItemLength int      `json:"item_length"`
	Entries    []string `json:"entries"`
}

// LandingFacility is an airport, heliport or seaplane base.
type LandingFacility struct {
	Identifier       string     `json:"identifier"`
	IcaoRegion       IcaoRegion `json:"icao_region"`
	Type             string     `json:"type"`
	Name             string     `json:"name"`
	City             string     `json:"city"`
	State            string     `json:"state,omitempty"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	ElevationFeet    int        `json:"elevation_feet"`
	Airspace         string     `json:"airspace,omitempty"`
	AvgasAvailable   bool       `json:"avgas_available"`
	JetFuelAvailable bool       `json:"jet_fuel_available"`
	HasRadar         bool       `json:"has_radar"`
	// Unknown holds the eleven undocumented bit-fields in record order.
	Unknown []uint32               `json:"unknown"`
	Detail  *LandingFacilityDetail `json:"detail,omitempty"`
}

// LandingFacilityDetail holds the variable-length data of a facility.
type LandingFacilityDetail struct {
	Runways                  []Runway                 `json:"runways,omitempty"`
	CommunicationFrequencies []CommunicationFrequency `json:"communication_frequencies,omitempty"`
	UnknownBlocks            []UnknownDetailBlock     `json:"unknown_blocks,omitempty"`
}

// UnknownDetailBlock is a detail block kept as raw bytes.
type UnknownDetailBlock struct {
	Number int    `json:"number"`
	Data   []byte `json:"data"`
}

// Runway is one runway of a facility.
type Runway struct {
	Number     int    `json:"number"`
	Suffix     string `json:"suffix,omitempty"`
	Lighting   string `json:"lighting"`
	Surface    string `json:"surface"`
	LengthFeet int    `json:"length_feet"`
	WidthFeet  int    `json:"width_feet"`
	// Info blocks are nil when absent; an empty non-nil slice is a present,
	// zero-length block.
	Info1 []byte `json:"info_1"`
	Info2 []byte `json:"info_2"`
	Info3 []byte `json:"info_3"`
	// Unknown holds the four undocumented bit-fields in record order.
	Unknown []uint32 `json:"unknown"`
}

// CommunicationFrequency is one radio frequency of a facility.
type CommunicationFrequency struct {
	Type         string  `json:"type"`
	FrequencyKHz int     `json:"frequency_khz"`
	Info1        []byte  `json:"info_1"`
	Info2        []byte  `json:"info_2"`
	Info3        []byte  `json:"info_3"`
	Info4        []byte  `json:"info_4"`
	Narrative    *string `json:"narrative,omitempty"`
	Flag5        bool    `json:"flag_5,omitempty"`
	Flag6        bool    `json:"flag_6,omitempty"`
	Flag7        bool    `json:"flag_7,omitempty"`
	// Unknown holds the eight undocumented bit-fields in record order.
	Unknown []uint32 `json:"unknown"`
}

// UnparsedSection is a section whose layout is not understood.
type UnparsedSection struct {
	Section      int    `json:"section"`
	ItemLength   int    `json:"item_length"`
	ItemQuantity int    `json:"item_quantity"`
	Data         []byte `json:"data"`
}
