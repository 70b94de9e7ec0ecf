package export

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/navdb/ir"
)

func sampleDocument() *ir.NavigationData {
	region := ir.IcaoRegion{IdentifierPrefix: "K6", Region: "USA MASSACHUSETTS"}
	narrative := "CTC BOSTON APP"

	return &ir.NavigationData{
		Source:   &ir.Source{Size: 1024, BLAKE3: "abcd"},
		Metadata: ir.Metadata{CycleNumber: 2306, EffectiveDate: ir.Date{Year: 2023, Month: 6, Day: 18}},
		LandingFacilities: []ir.LandingFacility{
			{
				Identifier: "KBOS", IcaoRegion: region, Type: "PUBLIC", Name: "LOGAN INTL", City: "BOSTON", State: "MA",
				Latitude: 42.36, Longitude: -71.01, ElevationFeet: 20, Airspace: "CLASS_B", HasRadar: true,
				Detail: &ir.LandingFacilityDetail{
					Runways: []ir.Runway{
						{Number: 4, Suffix: "RIGHT", Lighting: "PILOT_CONTROLLED_LIGHTING", Surface: "ASPHALT", LengthFeet: 10005, WidthFeet: 150},
						{Number: 22, Suffix: "LEFT", Surface: "CONCRETE", LengthFeet: 7861, WidthFeet: 150},
					},
					CommunicationFrequencies: []ir.CommunicationFrequency{
						{Type: "TOWER", FrequencyKHz: 128800},
						{Type: "APPROACH", FrequencyKHz: 120600, Narrative: &narrative},
					},
				},
			},
			{Identifier: "KBVY", IcaoRegion: region, Type: "PUBLIC", Name: "BEVERLY RGNL", City: "BEVERLY", State: "MA"},
		},
	}
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navdata.db")

	sum, err := WriteSQLite(context.Background(), path, sampleDocument())
	require.NoError(t, err)
	require.Equal(t, Summary{Facilities: 2, Runways: 2, Frequencies: 2}, sum)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var name string
	var length int
	err = db.QueryRow(`SELECT f.name, r.length_feet FROM runways r JOIN facilities f ON f.id = r.facility_id
		WHERE f.identifier = 'KBOS' AND r.suffix = 'RIGHT'`).Scan(&name, &length)
	require.NoError(t, err)
	require.Equal(t, "LOGAN INTL", name)
	require.Equal(t, 10005, length)

	var narrative sql.NullString
	require.NoError(t, db.QueryRow(`SELECT narrative FROM frequencies WHERE type = 'TOWER'`).Scan(&narrative))
	require.False(t, narrative.Valid)

	var effective, source string
	require.NoError(t, db.QueryRow(`SELECT effective_date, source_blake3 FROM metadata`).Scan(&effective, &source))
	require.Equal(t, "2023-06-18", effective)
	require.Equal(t, "abcd", source)

	// a second export replaces the file
	sum, err = WriteSQLite(context.Background(), path, &ir.NavigationData{})
	require.NoError(t, err)
	require.Equal(t, Summary{}, sum)
}

func TestWriteSQLite_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "navdata.db")
	_, err := WriteSQLite(ctx, path, sampleDocument())
	require.Error(t, err)
	require.NoFileExists(t, path)
}
