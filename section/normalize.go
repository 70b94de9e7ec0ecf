package section

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/navdb/encoding"
	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

// Table text that does not follow the underscore-for-space rule.
const (
	pilotControlledLighting = "PILOT_CONTROLLED_LIGHTING"
	pclText                 = "PCL"
	unknownSurfaceText      = "UNKNOWN SURFACE"
	identifierWidth         = 4
	latitudeBits            = 24
	longitudeBits           = 25
)

var commTypeText = map[string]string{
	pilotControlledLighting:  pclText,
	"FLIGHT_SERVICE_STATION": "FSS",
	"PRE_TAXI":               "PRE-TAXI",
	"AIRLIFT":                "AIRLFT CMD",
}

var commTypeName = func() map[string]string {
	m := make(map[string]string, len(commTypeText))
	for name, text := range commTypeText {
		m[text] = name
	}

	return m
}()

// regionsWithStates name the ICAO regions whose facility locations end with a
// two-letter state code.
var regionsWithStates = []string{"USA", "ALASKA", "HAWAII"}

func toTableText(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func fromTableText(text string) string {
	return strings.ReplaceAll(text, " ", "_")
}

func coordinateToBits(deg float64, width uint) (int32, error) {
	v := math.Round(deg / 180 * coordinateScale)
	limit := float64(int64(1) << (width - 1))
	if math.IsNaN(v) || v < -limit || v >= limit {
		return 0, fmt.Errorf("%w: coordinate %v does not fit in %d bits", errs.ErrOutOfRange, deg, width)
	}

	return int32(v), nil
}

func bitsToCoordinate(v int32) float64 {
	return float64(v) / coordinateScale * 180
}

// identifierPrefix returns the identifier index byte of ident, which is built
// from its first two characters. Facilities are listed in non-decreasing prefix
// order. It reports false when ident cannot be encoded.
func identifierPrefix(ident string) (byte, bool) {
	if len(ident) > identifierWidth {
		return 0, false
	}
	enc, err := encoding.ComplexSixBit.Encode(ident + strings.Repeat(" ", identifierWidth-len(ident)))
	if err != nil {
		return 0, false
	}

	return enc[2], true
}

func (c *Catalog) normalizeFacility(f *ir.LandingFacility, index IndexKey) (facilityRecord, error) {
	rec := facilityRecord{
		elevation: f.ElevationFeet,
		avgas:     f.AvgasAvailable,
		jetFuel:   f.JetFuelAvailable,
		radar:     f.HasRadar,
		detail:    noDetail,
	}

	unknown, err := unknownFields(f.Unknown, facilityUnknownSize)
	if err != nil {
		return rec, err
	}
	copy(rec.unknown[:], unknown)

	if rec.latBits, err = coordinateToBits(f.Latitude, latitudeBits); err != nil {
		return rec, fmt.Errorf("latitude: %w", err)
	}
	if rec.lonBits, err = coordinateToBits(f.Longitude, longitudeBits); err != nil {
		return rec, fmt.Errorf("longitude: %w", err)
	}

	if rec.airspace, err = airspaceTable.Index(f.Airspace); err != nil {
		return rec, err
	}

	if len(f.Identifier) > identifierWidth {
		return rec, fmt.Errorf("%w: identifier %q is longer than %d characters", errs.ErrOutOfRange, f.Identifier, identifierWidth)
	}
	enc, err := encoding.ComplexSixBit.Encode(f.Identifier + strings.Repeat(" ", identifierWidth-len(f.Identifier)))
	if err != nil {
		return rec, fmt.Errorf("identifier: %w", err)
	}
	rec.identifier = [2]byte{enc[0], enc[1]}
	idx, err := c.identifierIndex()
	if err != nil {
		return rec, err
	}
	if err := idx.Insert(enc[2], index); err != nil {
		return rec, fmt.Errorf("identifier %q: %w", f.Identifier, err)
	}

	regions, err := c.icaoRegions()
	if err != nil {
		return rec, err
	}
	if rec.region, err = regions.LookupByRegion(f.IcaoRegion); err != nil {
		return rec, err
	}

	types, err := c.lookupTable(LandingFacilityType)
	if err != nil {
		return rec, err
	}
	rec.facilityType = types.LookupOrInsert(f.Type)

	strs, err := c.strings()
	if err != nil {
		return rec, err
	}
	rec.name = strs.LookupOrInsert(f.Name)
	rec.location = strs.LookupOrInsert(f.City + f.State)

	if f.Detail != nil {
		d, err := c.normalizeDetail(f.Detail)
		if err != nil {
			return rec, err
		}
		details, err := c.details()
		if err != nil {
			return rec, err
		}
		rec.detail = details.insert(d)
	}

	return rec, nil
}

func (c *Catalog) denormalizeFacility(rec *facilityRecord, index IndexKey) (ir.LandingFacility, error) {
	f := ir.LandingFacility{
		Latitude:         bitsToCoordinate(rec.latBits),
		Longitude:        bitsToCoordinate(rec.lonBits),
		ElevationFeet:    rec.elevation,
		AvgasAvailable:   rec.avgas,
		JetFuelAvailable: rec.jetFuel,
		HasRadar:         rec.radar,
		Unknown:          append([]uint32{}, rec.unknown[:]...),
	}

	idx, err := c.identifierIndex()
	if err != nil {
		return f, err
	}
	prefix, err := idx.Prefix(index)
	if err != nil {
		return f, err
	}
	ident, err := encoding.ComplexSixBit.Decode([]byte{rec.identifier[0], rec.identifier[1], prefix})
	if err != nil {
		return f, fmt.Errorf("identifier: %w", err)
	}
	f.Identifier = strings.TrimRight(ident, " ")

	if f.Airspace, err = airspaceTable.Lookup(rec.airspace); err != nil {
		return f, err
	}

	regions, err := c.icaoRegions()
	if err != nil {
		return f, err
	}
	if f.IcaoRegion, err = regions.Lookup(rec.region); err != nil {
		return f, err
	}

	types, err := c.lookupTable(LandingFacilityType)
	if err != nil {
		return f, err
	}
	if f.Type, err = types.Lookup(rec.facilityType); err != nil {
		return f, err
	}

	strs, err := c.strings()
	if err != nil {
		return f, err
	}
	if f.Name, err = strs.Lookup(rec.name); err != nil {
		return f, err
	}
	location, err := strs.Lookup(rec.location)
	if err != nil {
		return f, err
	}
	f.City = location
	for _, r := range regionsWithStates {
		if strings.Contains(f.IcaoRegion.Region, r) && len(location) >= 2 {
			f.City, f.State = location[:len(location)-2], location[len(location)-2:]
			break
		}
	}

	if rec.detail != noDetail {
		details, err := c.details()
		if err != nil {
			return f, err
		}
		d, err := details.lookup(rec.detail)
		if err != nil {
			return f, err
		}
		if f.Detail, err = c.denormalizeDetail(&d); err != nil {
			return f, err
		}
	}

	return f, nil
}

func (c *Catalog) normalizeDetail(d *ir.LandingFacilityDetail) (detailRecord, error) {
	var rec detailRecord

	if len(d.Runways) > 0 {
		lighting, err := c.lookupTable(RunwayLighting)
		if err != nil {
			return rec, err
		}
		surfaces, err := c.lookupTable(RunwaySurface)
		if err != nil {
			return rec, err
		}
		for i := range d.Runways {
			rw := d.Runways[i]
			suffix, err := runwayNumberSuffixTable.Index(rw.Suffix)
			if err != nil {
				return rec, fmt.Errorf("runway %d: %w", i, err)
			}

			lightingText := toTableText(rw.Lighting)
			if rw.Lighting == pilotControlledLighting {
				lightingText = pclText
			}
			surfaceText := toTableText(rw.Surface)
			if rw.Surface == "" {
				surfaceText = unknownSurfaceText
			}

			rw.Suffix, rw.Lighting, rw.Surface = "", "", ""
			rec.runways = append(rec.runways, runwayRecord{
				rw:       rw,
				suffix:   suffix,
				lighting: lighting.LookupOrInsert(lightingText),
				surface:  surfaces.LookupOrInsert(surfaceText),
			})
		}
	}

	if len(d.CommunicationFrequencies) > 0 {
		types, err := c.lookupTable(GenericAirportString1)
		if err != nil {
			return rec, err
		}
		for _, f := range d.CommunicationFrequencies {
			text, ok := commTypeText[f.Type]
			if !ok {
				text = toTableText(f.Type)
			}
			f.Type = ""
			rec.comms = append(rec.comms, commRecord{freq: f, kind: types.LookupOrInsert(text)})
		}
	}

	for _, u := range d.UnknownBlocks {
		rec.unknown = append(rec.unknown, ir.UnknownDetailBlock{Number: u.Number, Data: append([]byte{}, u.Data...)})
	}

	return rec, nil
}

func (c *Catalog) denormalizeDetail(rec *detailRecord) (*ir.LandingFacilityDetail, error) {
	d := &ir.LandingFacilityDetail{}

	if len(rec.runways) > 0 {
		lighting, err := c.lookupTable(RunwayLighting)
		if err != nil {
			return nil, err
		}
		surfaces, err := c.lookupTable(RunwaySurface)
		if err != nil {
			return nil, err
		}
		for i, r := range rec.runways {
			rw := r.rw
			if rw.Suffix, err = runwayNumberSuffixTable.Lookup(r.suffix); err != nil {
				return nil, fmt.Errorf("runway %d: %w", i, err)
			}
			lightingText, err := lighting.Lookup(r.lighting)
			if err != nil {
				return nil, fmt.Errorf("runway %d lighting: %w", i, err)
			}
			rw.Lighting = fromTableText(lightingText)
			if lightingText == pclText {
				rw.Lighting = pilotControlledLighting
			}
			surfaceText, err := surfaces.Lookup(r.surface)
			if err != nil {
				return nil, fmt.Errorf("runway %d surface: %w", i, err)
			}
			rw.Surface = fromTableText(surfaceText)
			if surfaceText == unknownSurfaceText {
				rw.Surface = ""
			}
			d.Runways = append(d.Runways, rw)
		}
	}

	if len(rec.comms) > 0 {
		types, err := c.lookupTable(GenericAirportString1)
		if err != nil {
			return nil, err
		}
		for i, cr := range rec.comms {
			f := cr.freq
			text, err := types.Lookup(cr.kind)
			if err != nil {
				return nil, fmt.Errorf("frequency %d type: %w", i, err)
			}
			name, ok := commTypeName[text]
			if !ok {
				name = fromTableText(text)
			}
			f.Type = name
			d.CommunicationFrequencies = append(d.CommunicationFrequencies, f)
		}
	}

	for _, u := range rec.unknown {
		d.UnknownBlocks = append(d.UnknownBlocks, ir.UnknownDetailBlock{Number: u.Number, Data: append([]byte{}, u.Data...)})
	}

	return d, nil
}
