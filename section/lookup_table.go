package section

import (
	"fmt"
	"strings"

	"github.com/arloliu/navdb/encoding"
	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

// Default item widths for tables whose width is not derived from their longest entry.
var lookupTableWidths = map[ID]int{
	RunwayLighting:        10,
	GenericAirportString2: 15,
	GPSApproachType1:      15,
	GPSApproachType2:      7,
}

// LookupTableSection is a table of fixed-width, space padded Latin-1 strings.
type LookupTableSection struct {
	base
	itemLength int
	entries    []string
	firstIndex map[string]IndexKey
}

func newLookupTable(id ID, itemLength int) *LookupTableSection {
	return &LookupTableSection{base: base{id: id}, itemLength: itemLength, firstIndex: make(map[string]IndexKey)}
}

func (t *LookupTableSection) add(text string) IndexKey {
	key := IndexKey(len(t.entries))
	t.entries = append(t.entries, text)
	if _, ok := t.firstIndex[text]; !ok {
		t.firstIndex[text] = key
	}

	return key
}

func decodeLookupTable(_ *Catalog, entry Entry, data []byte) (Section, error) {
	n, err := itemCount(entry.Section, entry.ItemLength, len(data))
	if err != nil {
		return nil, err
	}

	t := newLookupTable(entry.Section, entry.ItemLength)
	for i := 0; i < n; i++ {
		item := data[i*entry.ItemLength : (i+1)*entry.ItemLength]
		t.add(strings.TrimRight(encoding.DecodeLatin1(item), " "))
	}

	return t, nil
}

func lookupTableFromIR(id ID, doc *ir.NavigationData) (Section, error) {
	t := newLookupTable(id, 0)
	for _, lt := range doc.LookupTables {
		if ID(lt.Section) != id {
			continue
		}
		if lt.ItemLength < 0 {
			return nil, fmt.Errorf("%w: %s item length %d", errs.ErrInvalidIR, id, lt.ItemLength)
		}
		t.itemLength = lt.ItemLength
		for _, e := range lt.Entries {
			t.add(e)
		}

		break
	}

	return t, nil
}

// Lookup returns the entry at key.
func (t *LookupTableSection) Lookup(key IndexKey) (string, error) {
	if int(key) < 0 || int(key) >= len(t.entries) {
		return "", fmt.Errorf("%w: %s of %d entries in %s", errs.ErrUnresolvedKey, key, len(t.entries), t.id)
	}

	return t.entries[key], nil
}

// LookupOrInsert returns the index of the first entry equal to text, appending
// text when there is none.
func (t *LookupTableSection) LookupOrInsert(text string) IndexKey {
	if i, ok := t.firstIndex[text]; ok {
		return i
	}

	return t.add(text)
}

// width is the recorded item length, widened when an entry no longer fits.
func (t *LookupTableSection) width() int {
	w := t.itemLength
	if w == 0 && len(t.entries) > 0 {
		w = lookupTableWidths[t.id]
	}
	for _, e := range t.entries {
		w = max(w, encoding.Latin1Len(e))
	}

	return w
}

func (t *LookupTableSection) MergeToIR(_ *Catalog, doc *ir.NavigationData) error {
	doc.LookupTables = append(doc.LookupTables, ir.LookupTable{
		Section:    int(t.id),
		ItemLength: t.itemLength,
		Entries:    append([]string{}, t.entries...),
	})

	return nil
}

func (t *LookupTableSection) Serialize(*Catalog) (Output, error) {
	width := t.width()
	out := make([]byte, 0, width*len(t.entries))
	for i, e := range t.entries {
		b, err := encoding.EncodeLatin1Fixed(e, width)
		if err != nil {
			return Output{}, fmt.Errorf("%s entry %d: %w", t.id, i, err)
		}
		out = append(out, b...)
	}

	return Output{Data: out, ItemLength: width, ItemQuantity: len(t.entries)}, nil
}

func (t *LookupTableSection) String() string {
	var sb strings.Builder
	for i, e := range t.entries {
		fmt.Fprintf(&sb, "%3d: %s\n", i, e)
	}

	return strings.TrimRight(sb.String(), "\n")
}
