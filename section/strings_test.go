package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

func TestStringSection_RoundTrip(t *testing.T) {
	texts := []string{"BOSTON LOGAN INTL", "BOSTONMA", "", "AEROPARQUE J. NEWBERY", "BOSTONMA"}
	s, err := stringsFromIR(String, &ir.NavigationData{Strings: texts})
	require.NoError(t, err)
	strs := s.(*StringSection)
	require.Equal(t, IndexKey(1), strs.LookupOrInsert("BOSTONMA"))

	out, err := strs.Serialize(nil)
	require.NoError(t, err)
	require.Equal(t, 1, out.ItemLength)
	require.Equal(t, len(out.Data), out.ItemQuantity)

	back, err := decodeStrings(nil, Entry{Section: String}, out.Data)
	require.NoError(t, err)
	decoded := back.(*StringSection)
	require.Equal(t, len(texts), decoded.Len())

	for i := range texts {
		pos, err := strs.WrittenKey(IndexKey(i))
		require.NoError(t, err)
		key, err := decoded.Resolve(pos)
		require.NoError(t, err)
		require.Equal(t, IndexKey(i), key)

		text, err := decoded.Lookup(key)
		require.NoError(t, err)
		require.Equal(t, texts[i], text)
	}

	doc := &ir.NavigationData{}
	require.NoError(t, decoded.MergeToIR(nil, doc))
	require.Equal(t, texts, doc.Strings)
}

func TestStringSection_Errors(t *testing.T) {
	s := newStringSection(String)
	s.add("A")

	_, err := s.Lookup(1)
	require.ErrorIs(t, err, errs.ErrUnresolvedKey)
	_, err = s.WrittenKey(0)
	require.ErrorIs(t, err, errs.ErrUnresolvedKey)
	_, err = s.Resolve(BitPositionKey{})
	require.ErrorIs(t, err, errs.ErrUnresolvedKey)
}

func TestIdentifierIndex(t *testing.T) {
	s := newIdentifierIndex(IdentifierIndex)
	require.NoError(t, s.Insert(0x2c, 0))
	require.NoError(t, s.Insert(0x2c, 1))
	require.NoError(t, s.Insert(0x30, 2))
	require.NoError(t, s.Insert(0x05, 5))
	require.ErrorIs(t, s.Insert(0x03, 6), errs.ErrOutOfRange)
	require.ErrorIs(t, s.Insert(168, 6), errs.ErrOutOfRange)

	for index, want := range map[IndexKey]byte{0: 0x2c, 1: 0x2c, 2: 0x30, 4: 0x30, 5: 0x05, 9: 0x05} {
		got, err := s.Prefix(index)
		require.NoError(t, err)
		require.Equal(t, want, got, "facility %d", index)
	}

	out, err := s.Serialize(nil)
	require.NoError(t, err)
	require.Len(t, out.Data, identifierIndexItemLength*identifierIndexEntries)
	require.Equal(t, []byte{0xff, 0xff, 0x03}, out.Data[:3])
	require.Equal(t, []byte{0x05, 0x00, 0x00}, out.Data[3:6])

	back, err := decodeIdentifierIndex(nil, Entry{
		Section: IdentifierIndex, ItemLength: out.ItemLength, ItemQuantity: out.ItemQuantity,
	}, out.Data)
	require.NoError(t, err)
	require.Equal(t, s.firstByPrefix, back.(*IdentifierIndexSection).firstByPrefix)

	_, err = decodeIdentifierIndex(nil, Entry{Section: IdentifierIndex, ItemLength: 3, ItemQuantity: 10}, out.Data[:30])
	require.ErrorIs(t, err, errs.ErrMalformedContainer)
}

func TestIdentifierIndex_Uncovered(t *testing.T) {
	s := newIdentifierIndex(IdentifierIndex)
	require.NoError(t, s.Insert(0x10, 3))

	_, err := s.Prefix(2)
	require.ErrorIs(t, err, errs.ErrUnresolvedKey)
}
