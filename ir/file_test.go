package ir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/navdb/errs"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *NavigationData {
	narrative := "MON-SUN: 06:00-00:00"

	return &NavigationData{
		Source: &Source{Size: 4096, BLAKE3: "00ff"},
		Metadata: Metadata{
			CycleNumber:    2306,
			EffectiveDate:  Date{Year: 2023, Month: 6, Day: 18},
			PartNumber:     "006-D0170-15",
			CoverageRegion: "ARGENTINA",
		},
		TableOfContents: TableOfContents{
			NumSections:    96,
			AbsentSections: []int{4, 5},
		},
		Strings: []string{"LOGAN CO", "LOGAN FIELD"},
		LandingFacilities: []LandingFacility{{
			Identifier: "SAEZ",
			IcaoRegion: IcaoRegion{IdentifierPrefix: "SA", Region: "ARGENTINA"},
			Type:       "AIRPORT",
			Name:       "EZEIZA",
			Latitude:   -34.8222,
			Longitude:  -58.5358,
			Unknown:    []uint32{0, 0, 0, 0, 0, 0, 0, 0, 0, 0x3ffff, 0},
			Detail: &LandingFacilityDetail{
				Runways: []Runway{{Number: 11, Lighting: "PCL", Surface: "ASPHALT", Info1: []byte{}, Unknown: []uint32{0, 0, 0, 0}}},
				CommunicationFrequencies: []CommunicationFrequency{{
					Type: "TOWER", FrequencyKHz: 118100, Narrative: &narrative, Unknown: make([]uint32, 8),
				}},
			},
		}},
		UnparsedSections: []UnparsedSection{{Section: 4, ItemLength: 1, ItemQuantity: 3, Data: []byte{1, 2, 3}}},
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	doc := sampleDocument()

	data, err := Marshal(doc)
	require.NoError(t, err)
	require.Contains(t, string(data), `"identifier_prefix": "SA"`)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, doc, back)

	rw := back.LandingFacilities[0].Detail.Runways[0]
	require.NotNil(t, rw.Info1, "present empty blob must survive")
	require.Nil(t, rw.Info2)
}

func TestUnmarshal_Invalid(t *testing.T) {
	_, err := Unmarshal([]byte(`{"metadata": 7}`))
	require.ErrorIs(t, err, errs.ErrInvalidIR)
}

func TestWriteReadFile(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDocument()

	for _, name := range []string{"nav.json", "nav.json.zst", "nav.json.s2", "nav.json.lz4", "nav.json.xz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteFile(path, doc))

			back, err := ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, doc, back)
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 5, "no temporary files left behind")
}

func TestReadFile_WrongCompression(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nav.json.zst")
	require.NoError(t, os.WriteFile(path, []byte(`{"strings":[]}`), 0o600))

	_, err := ReadFile(path)
	require.ErrorIs(t, err, errs.ErrInvalidIR)
}
