package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

// containerWith lays out a zeroed metadata block, the serialized toc and body.
func containerWith(t *testing.T, toc *TableOfContentsSection, body []byte) []byte {
	t.Helper()

	out, err := toc.Serialize(nil)
	require.NoError(t, err)

	file := make([]byte, MetadataSize, MetadataSize+len(out.Data)+len(body))
	file = append(file, out.Data...)

	return append(file, body...)
}

func TestEntry_String(t *testing.T) {
	e := Entry{Section: 2, FileOffset: 0x220, ItemLength: 1, ItemQuantity: 0x10, ActualLength: 0x10}
	require.Equal(t, "section  2 at offset 00000220 000001 * 000010 = 000010", e.String())

	e.ActualLength = 0x12
	require.Equal(t, "section  2 at offset 00000220 000001 * 000010 = 000010 ; actual length 00000012", e.String())
}

func TestTableOfContents_EntryLayout(t *testing.T) {
	toc := newTableOfContents(2)
	toc.Insert(0, 0x0102, 3, 0x210, 0x306)

	out, err := toc.Serialize(nil)
	require.NoError(t, err)
	require.Equal(t, TOCEntrySize, out.ItemLength)
	require.Equal(t, 2, out.ItemQuantity)
	require.Equal(t, []byte{
		0x00, 0x02, 0x00, 0x00, 0x08, 0x02, 0x00, 0x00, // the table itself
		0x10, 0x02, 0x00, 0x01, 0x02, 0x03, 0x00, 0x00, // section 0
	}, out.Data)
}

func TestTableOfContents_RoundTrip(t *testing.T) {
	toc := newTableOfContents(5)
	toc.emptyItemLengths[1] = 12
	base := ByteOffsetKey(TableOfContentsOffset + 5*TOCEntrySize)
	toc.Insert(2, 1, 4, base, 4)
	toc.Insert(0, 2, 3, base+4, 6)

	file := containerWith(t, toc, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	decoded, err := DecodeTableOfContents(file)
	require.NoError(t, err)

	require.Equal(t, 5, decoded.NumSections())
	require.Equal(t, []ID{2, 0}, decoded.Order())
	require.True(t, decoded.IsAbsent(1))
	require.True(t, decoded.IsAbsent(3))
	require.Equal(t, 12, decoded.emptyItemLengths[1])

	e, ok := decoded.Entry(0)
	require.True(t, ok)
	require.Equal(t, base+4, e.FileOffset)
	require.Equal(t, 6, e.ActualLength)

	doc := &ir.NavigationData{}
	require.NoError(t, decoded.MergeToIR(nil, doc))
	require.Equal(t, 5, doc.TableOfContents.NumSections)
	require.Equal(t, []int{1, 3}, doc.TableOfContents.AbsentSections)
	require.Equal(t, []int{2, 0}, doc.TableOfContents.SectionOrder)
	require.Equal(t, []ir.EmptySectionItemLength{{Section: 1, ItemLength: 12}}, doc.TableOfContents.EmptySectionItemLengths)
}

func TestTableOfContents_ActualLengths(t *testing.T) {
	toc := newTableOfContents(4)
	base := ByteOffsetKey(TableOfContentsOffset + 4*TOCEntrySize)
	toc.Insert(0, 1, 2, base, 2)
	toc.Insert(1, 0, 0, base+2, 0)
	toc.Insert(2, 1, 1, base+2, 5)

	file := containerWith(t, toc, []byte{1, 2, 3, 4, 5, 6, 7})
	decoded, err := DecodeTableOfContents(file)
	require.NoError(t, err)

	// the empty section sorts before the one it shares an offset with
	require.Equal(t, []ID{0, 1, 2}, decoded.Order())
	e, _ := decoded.Entry(1)
	require.Equal(t, 0, e.ActualLength)
	e, _ = decoded.Entry(2)
	require.Equal(t, 5, e.ActualLength)
	require.Equal(t, 1, e.DeclaredLength())
}

func TestTableOfContents_InsertKeepsOverride(t *testing.T) {
	toc := newTableOfContents(3)
	toc.setOverride(Entry{Section: 1, ItemLength: 7, ItemQuantity: 9})

	e := toc.Insert(1, 1, 20, 0x300, 20)
	require.Equal(t, 7, e.ItemLength)
	require.Equal(t, 9, e.ItemQuantity)
}

func TestDecodeTableOfContents_Errors(t *testing.T) {
	t.Run("short file", func(t *testing.T) {
		_, err := DecodeTableOfContents(make([]byte, 100))
		require.ErrorIs(t, err, errs.ErrMalformedContainer)
	})

	t.Run("too many entries", func(t *testing.T) {
		toc := newTableOfContents(MaxTOCEntries + 1)
		file := containerWith(t, toc, nil)
		_, err := DecodeTableOfContents(file)
		require.ErrorIs(t, err, errs.ErrMalformedContainer)
	})

	t.Run("present section without codec", func(t *testing.T) {
		toc := newTableOfContents(100)
		toc.Insert(97, 1, 1, ByteOffsetKey(TableOfContentsOffset+100*TOCEntrySize), 1)
		file := containerWith(t, toc, []byte{0x5a})
		_, err := DecodeTableOfContents(file)
		require.ErrorIs(t, err, errs.ErrMalformedContainer)
	})

	t.Run("offset past end", func(t *testing.T) {
		toc := newTableOfContents(2)
		toc.Insert(0, 1, 1, 0x10000, 1)
		file := containerWith(t, toc, nil)
		_, err := DecodeTableOfContents(file)
		require.ErrorIs(t, err, errs.ErrMalformedContainer)
	})
}

func TestTableOfContents_SlotsPastLastSection(t *testing.T) {
	toc := newTableOfContents(100)
	toc.emptyItemLengths[97] = 5
	toc.Insert(0, 1, 2, ByteOffsetKey(TableOfContentsOffset+100*TOCEntrySize), 2)
	file := containerWith(t, toc, []byte{1, 2})

	decoded, err := DecodeTableOfContents(file)
	require.NoError(t, err)
	require.True(t, decoded.IsAbsent(97))
	require.Equal(t, 5, decoded.emptyItemLengths[97])
	require.Contains(t, decoded.String(), "section 97 absent ; item length 0005")

	doc := &ir.NavigationData{}
	require.NoError(t, decoded.MergeToIR(nil, doc))
	require.Contains(t, doc.TableOfContents.AbsentSections, 97)
	require.Contains(t, doc.TableOfContents.EmptySectionItemLengths, ir.EmptySectionItemLength{Section: 97, ItemLength: 5})

	rebuilt, err := tableOfContentsFromIR(doc)
	require.NoError(t, err)
	rebuilt.Insert(0, 1, 2, ByteOffsetKey(TableOfContentsOffset+100*TOCEntrySize), 2)
	require.Equal(t, file, containerWith(t, rebuilt, []byte{1, 2}))
}

func TestTableOfContents_SerializeRange(t *testing.T) {
	toc := newTableOfContents(2)
	toc.Insert(0, 0x10000, 1, 0x210, 1)

	_, err := toc.Serialize(nil)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestTableOfContentsFromIR(t *testing.T) {
	doc := &ir.NavigationData{}
	toc, err := tableOfContentsFromIR(doc)
	require.NoError(t, err)
	require.Equal(t, DefaultTOCEntries, toc.NumSections())
	require.True(t, toc.Writable(MaxSectionNumber))
	require.False(t, toc.Writable(MaxSectionNumber+1))

	doc.TableOfContents.NumSections = MaxTOCEntries + 1
	_, err = tableOfContentsFromIR(doc)
	require.ErrorIs(t, err, errs.ErrInvalidIR)

	doc.TableOfContents = ir.TableOfContents{Overrides: []ir.TableOfContentsEntry{{Section: 200}}}
	_, err = tableOfContentsFromIR(doc)
	require.ErrorIs(t, err, errs.ErrInvalidIR)

	doc.TableOfContents = ir.TableOfContents{NumSections: 10, AbsentSections: []int{9}}
	_, err = tableOfContentsFromIR(doc)
	require.ErrorIs(t, err, errs.ErrInvalidIR)

	doc.TableOfContents = ir.TableOfContents{NumSections: 100, AbsentSections: []int{98}}
	toc, err = tableOfContentsFromIR(doc)
	require.NoError(t, err)
	require.True(t, toc.IsAbsent(98))
}
