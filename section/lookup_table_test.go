package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

func TestLookupTable_DecodeTrimsPadding(t *testing.T) {
	data := []byte("ASPH  CONC  TURF  GRAVEL ") // four items of 6 bytes plus a stray byte
	entry := Entry{Section: RunwaySurface, ItemLength: 6, ItemQuantity: 4}

	_, err := decodeLookupTable(nil, entry, data)
	require.ErrorIs(t, err, errs.ErrMalformedContainer)

	s, err := decodeLookupTable(nil, entry, data[:24])
	require.NoError(t, err)
	table := s.(*LookupTableSection)

	got, err := table.Lookup(2)
	require.NoError(t, err)
	require.Equal(t, "TURF", got)
	require.Equal(t, IndexKey(3), table.LookupOrInsert("GRAVEL"))

	_, err = table.Lookup(4)
	require.ErrorIs(t, err, errs.ErrUnresolvedKey)
}

func TestLookupTable_Width(t *testing.T) {
	tests := []struct {
		name       string
		id         ID
		itemLength int
		entries    []string
		want       int
	}{
		{name: "recorded width", id: RunwaySurface, itemLength: 8, entries: []string{"ASPH"}, want: 8},
		{name: "widened for long entry", id: RunwaySurface, itemLength: 4, entries: []string{"GRAVEL"}, want: 6},
		{name: "default width", id: RunwayLighting, entries: []string{"PCL"}, want: 10},
		{name: "longest entry", id: LandingFacilityType, entries: []string{"PUBLIC", "PRIVATE"}, want: 7},
		{name: "empty", id: RunwaySurface, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := lookupTableFromIR(tt.id, &ir.NavigationData{LookupTables: []ir.LookupTable{
				{Section: int(tt.id), ItemLength: tt.itemLength, Entries: tt.entries},
			}})
			require.NoError(t, err)

			out, err := s.Serialize(nil)
			require.NoError(t, err)
			require.Equal(t, tt.want, out.ItemLength)
			require.Equal(t, len(tt.entries), out.ItemQuantity)
			require.Len(t, out.Data, tt.want*len(tt.entries))
		})
	}
}

func TestLookupTable_RoundTrip(t *testing.T) {
	doc := &ir.NavigationData{LookupTables: []ir.LookupTable{
		{Section: int(RunwayLighting), ItemLength: 12, Entries: []string{"", "PCL", "DUSK TO DAWN"}},
	}}
	s, err := lookupTableFromIR(RunwayLighting, doc)
	require.NoError(t, err)
	out, err := s.Serialize(nil)
	require.NoError(t, err)

	back, err := decodeLookupTable(nil, Entry{Section: RunwayLighting, ItemLength: out.ItemLength, ItemQuantity: out.ItemQuantity}, out.Data)
	require.NoError(t, err)

	got := &ir.NavigationData{}
	require.NoError(t, back.MergeToIR(nil, got))
	require.Equal(t, doc.LookupTables, got.LookupTables)
}

func TestFixedTables(t *testing.T) {
	name, err := runwayNumberSuffixTable.Lookup(2)
	require.NoError(t, err)
	require.Equal(t, "LEFT", name)

	name, err = airspaceTable.Lookup(6)
	require.NoError(t, err)
	require.Equal(t, "AIRSPACE_6", name)

	key, err := airspaceTable.Index("AIRSPACE_6")
	require.NoError(t, err)
	require.Equal(t, IndexKey(6), key)

	key, err = runwayNumberSuffixTable.Index("")
	require.NoError(t, err)
	require.Equal(t, IndexKey(0), key)

	_, err = airspaceTable.Lookup(8)
	require.ErrorIs(t, err, errs.ErrUnresolvedKey)
	_, err = airspaceTable.Index("AIRSPACE_2")
	require.ErrorIs(t, err, errs.ErrUnresolvedKey)
	_, err = runwayNumberSuffixTable.Index("MIDDLE")
	require.ErrorIs(t, err, errs.ErrUnresolvedKey)
}
