// Package openaip builds an IR document from an OpenAIP airports export.
//
// Only the facility name, identifier and position are taken from the export.
// The metadata dates, coverage and ICAO region are fixed to those of the
// Argentina dataset the producer was written for; every other field is left
// empty.
package openaip

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

// Geometry is a GeoJSON point; Coordinates holds longitude then latitude.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Airport is the subset of an OpenAIP airport record the producer reads.
// Unknown properties are ignored.
type Airport struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	ICAOCode string   `json:"icaoCode"`
	Country  string   `json:"country"`
	Geometry Geometry `json:"geometry"`
}

// Identifier returns the ICAO code, or the OpenAIP record id when the airport
// has none.
func (a Airport) Identifier() string {
	if a.ICAOCode != "" {
		return a.ICAOCode
	}

	return a.ID
}

// Region is the single ICAO region of the dataset.
var Region = ir.IcaoRegion{IdentifierPrefix: "SA", Region: "ARGENTINA"}

// Metadata is the fixed metadata block of the dataset.
var Metadata = ir.Metadata{
	EffectiveDate:  ir.Date{Year: 2023, Month: 6, Day: 18},
	ExpiresDate:    ir.Date{Year: 2024, Month: 6, Day: 18},
	SnapshotDate:   ir.Date{Year: 2023, Month: 5, Day: 18},
	CoverageRegion: "ARGENTINA",
}

// ReadAirports parses a JSON array of airports.
func ReadAirports(r io.Reader) ([]Airport, error) {
	var airports []Airport
	if err := json.NewDecoder(r).Decode(&airports); err != nil {
		return nil, fmt.Errorf("%w: openaip airports: %v", errs.ErrInvalidIR, err)
	}

	return airports, nil
}

// ToIR converts airports into a document, one landing facility per airport,
// sorted by identifier.
//
// Parameters:
//   - airports: Records from ReadAirports
//
// Returns:
//   - *ir.NavigationData: The document
//   - error: errs.ErrInvalidIR for an airport without a two-element position
func ToIR(airports []Airport) (*ir.NavigationData, error) {
	doc := &ir.NavigationData{
		Metadata:    Metadata,
		IcaoRegions: &ir.IcaoRegions{Regions: []ir.IcaoRegion{Region}},
	}

	for i, a := range airports {
		if len(a.Geometry.Coordinates) != 2 {
			return nil, fmt.Errorf("%w: airport %d (%s) has %d coordinates",
				errs.ErrInvalidIR, i, a.Identifier(), len(a.Geometry.Coordinates))
		}
		doc.LandingFacilities = append(doc.LandingFacilities, ir.LandingFacility{
			Identifier: strings.ToUpper(a.Identifier()),
			IcaoRegion: Region,
			Name:       a.Name,
			Longitude:  a.Geometry.Coordinates[0],
			Latitude:   a.Geometry.Coordinates[1],
		})
	}
	sort.SliceStable(doc.LandingFacilities, func(i, j int) bool {
		return identifierLess(doc.LandingFacilities[i].Identifier, doc.LandingFacilities[j].Identifier)
	})

	return doc, nil
}

// Parse reads an airports export and converts it in one step.
func Parse(r io.Reader) (*ir.NavigationData, error) {
	airports, err := ReadAirports(r)
	if err != nil {
		return nil, err
	}

	return ToIR(airports)
}

// identifierLess orders identifiers the way the container's six-bit identifier
// alphabet does: space, then letters, then digits.
func identifierLess(a, b string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if ra, rb := identifierRank(a[i]), identifierRank(b[i]); ra != rb {
			return ra < rb
		}
	}

	return len(a) < len(b)
}

func identifierRank(c byte) int {
	switch {
	case c == ' ':
		return 0
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 1
	case c >= '0' && c <= '9':
		return int(c-'0') + 0x20
	}

	return 0x40 + int(c)
}
