package section

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arloliu/navdb/endian"
	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

// Field limits of a TOC entry.
const (
	maxEntryOffset       = 0xffffff
	maxEntryItemLength   = 0xffff
	maxEntryItemQuantity = 0xffffff
)

// Entry is one table of contents entry.
type Entry struct {
	Section      ID
	FileOffset   ByteOffsetKey
	ItemLength   int
	ItemQuantity int
	// ActualLength is the distance to the next section, or to the end of the
	// file for the last one. It is only known for entries read from a container.
	ActualLength int
}

// DeclaredLength returns ItemLength * ItemQuantity.
func (e Entry) DeclaredLength() int {
	return e.ItemLength * e.ItemQuantity
}

func (e Entry) String() string {
	s := fmt.Sprintf("section %2d at offset %08x %06x * %06x = %06x",
		int(e.Section), int(e.FileOffset), e.ItemLength, e.ItemQuantity, e.DeclaredLength())
	if e.ActualLength != e.DeclaredLength() {
		s += fmt.Sprintf(" ; actual length %08x", e.ActualLength)
	}

	return s
}

// TableOfContentsSection is the section directory at TableOfContentsOffset.
//
// When read from a container it holds the declared entries. When built from
// the IR it starts empty, and the catalog inserts an entry for every section
// it writes.
type TableOfContentsSection struct {
	base
	numSections int
	entries     map[ID]Entry
	// overrides are canonical: Insert writes their geometry instead of the
	// geometry of the serialized section.
	overrides        map[ID]Entry
	emptyItemLengths map[ID]int
	absent           map[ID]bool
	order            []ID
}

func newTableOfContents(numSections int) *TableOfContentsSection {
	return &TableOfContentsSection{
		base:             base{id: TableOfContents},
		numSections:      numSections,
		entries:          make(map[ID]Entry),
		overrides:        make(map[ID]Entry),
		emptyItemLengths: make(map[ID]int),
		absent:           make(map[ID]bool),
	}
}

// readEntry reads two little-endian words: the file offset in the low 24 bits
// of the first with the high item length byte above it, then the low item
// length byte followed by the 24-bit item quantity.
func readEntry(r *endian.Reader) (Entry, error) {
	w0, err := r.Uint32()
	if err != nil {
		return Entry{}, err
	}
	w1, err := r.Uint32()
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		FileOffset:   ByteOffsetKey(w0 & 0xffffff),
		ItemLength:   int(w0>>24<<8 | w1&0xff),
		ItemQuantity: int(w1 >> 8),
	}, nil
}

// DecodeTableOfContents parses the directory of a whole container and computes
// the actual length of every present section.
//
// Parameters:
//   - file: The complete container
//
// Returns:
//   - *TableOfContentsSection: The directory, with entries keyed by section number
//   - error: errs.ErrMalformedContainer for a directory that does not describe
//     the file
func DecodeTableOfContents(file []byte) (*TableOfContentsSection, error) {
	if len(file) < TableOfContentsOffset+TOCEntrySize {
		return nil, fmt.Errorf("%w: %d bytes is too short for a table of contents", errs.ErrMalformedContainer, len(file))
	}

	r := endian.NewReader(file)
	_ = r.Skip(TableOfContentsOffset)
	self, err := readEntry(r)
	if err != nil {
		return nil, err
	}
	if self.FileOffset != TableOfContentsOffset || self.ItemLength != TOCEntrySize {
		return nil, fmt.Errorf("%w: table of contents entry %s", errs.ErrMalformedContainer, self)
	}
	if self.ItemQuantity < 1 || self.ItemQuantity > MaxTOCEntries {
		return nil, fmt.Errorf("%w: %d table of contents entries, at most %d allowed",
			errs.ErrMalformedContainer, self.ItemQuantity, MaxTOCEntries)
	}

	toc := newTableOfContents(self.ItemQuantity)
	present := make([]Entry, 0, self.ItemQuantity)
	for i := 0; i < self.ItemQuantity-1; i++ {
		e, err := readEntry(r)
		if err != nil {
			return nil, fmt.Errorf("%w: table of contents entry %d: %v", errs.ErrMalformedContainer, i, err)
		}
		e.Section = ID(i)
		if e.FileOffset == 0 {
			toc.absent[e.Section] = true
			if e.ItemLength != 0 {
				toc.emptyItemLengths[e.Section] = e.ItemLength
			}
			if e.ItemQuantity != 0 {
				return nil, fmt.Errorf("%w: absent section %d declares %d items",
					errs.ErrMalformedContainer, i, e.ItemQuantity)
			}

			continue
		}
		if e.Section > MaxSectionNumber {
			return nil, fmt.Errorf("%w: %s has no codec", errs.ErrMalformedContainer, e)
		}
		if int(e.FileOffset) > len(file) {
			return nil, fmt.Errorf("%w: %s starts past the end of the file", errs.ErrMalformedContainer, e)
		}
		present = append(present, e)
	}

	sort.SliceStable(present, func(i, j int) bool {
		a, b := present[i], present[j]
		if a.FileOffset != b.FileOffset {
			return a.FileOffset < b.FileOffset
		}
		if (a.DeclaredLength() == 0) != (b.DeclaredLength() == 0) {
			return a.DeclaredLength() == 0
		}

		return a.Section < b.Section
	})

	for i := range present {
		end := len(file)
		if i+1 < len(present) {
			end = int(present[i+1].FileOffset)
		}
		present[i].ActualLength = end - int(present[i].FileOffset)
		toc.entries[present[i].Section] = present[i]
		toc.order = append(toc.order, present[i].Section)
	}

	return toc, nil
}

func tableOfContentsFromIR(doc *ir.NavigationData) (*TableOfContentsSection, error) {
	t := doc.TableOfContents
	n := t.NumSections
	if n == 0 {
		n = DefaultTOCEntries
	}
	if n < 1 || n > MaxTOCEntries {
		return nil, fmt.Errorf("%w: %d table of contents entries, at most %d allowed", errs.ErrInvalidIR, n, MaxTOCEntries)
	}

	toc := newTableOfContents(n)
	for _, o := range t.Overrides {
		id := ID(o.Section)
		if !id.InTOC() {
			return nil, fmt.Errorf("%w: override for section %d", errs.ErrInvalidIR, o.Section)
		}
		toc.overrides[id] = Entry{Section: id, ItemLength: o.ItemLength, ItemQuantity: o.ItemQuantity}
	}
	for _, e := range t.EmptySectionItemLengths {
		if e.Section < 0 || e.Section > n-2 {
			return nil, fmt.Errorf("%w: empty item length for section %d", errs.ErrInvalidIR, e.Section)
		}
		toc.emptyItemLengths[ID(e.Section)] = e.ItemLength
	}
	for _, s := range t.AbsentSections {
		if s < 0 || s > n-2 {
			return nil, fmt.Errorf("%w: absent section %d has no directory slot", errs.ErrInvalidIR, s)
		}
		toc.absent[ID(s)] = true
	}
	for _, s := range t.SectionOrder {
		toc.order = append(toc.order, ID(s))
	}

	return toc, nil
}

// NumSections returns the TOC item quantity.
func (t *TableOfContentsSection) NumSections() int {
	return t.numSections
}

// Entry returns the entry of a present section.
func (t *TableOfContentsSection) Entry(id ID) (Entry, bool) {
	e, ok := t.entries[id]
	return e, ok
}

// Entries returns the present entries in file order.
func (t *TableOfContentsSection) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, id := range t.order {
		if e, ok := t.entries[id]; ok {
			out = append(out, e)
		}
	}

	return out
}

// Order returns the physical section order.
func (t *TableOfContentsSection) Order() []ID {
	return append([]ID(nil), t.order...)
}

// IsAbsent reports whether id is recorded as absent.
func (t *TableOfContentsSection) IsAbsent(id ID) bool {
	return t.absent[id]
}

// Writable reports whether the directory has an entry slot for id.
func (t *TableOfContentsSection) Writable(id ID) bool {
	return id.InTOC() && int(id) <= t.numSections-2
}

// setOverride records that the declared geometry of e must be kept verbatim.
func (t *TableOfContentsSection) setOverride(e Entry) {
	t.overrides[e.Section] = Entry{Section: e.Section, ItemLength: e.ItemLength, ItemQuantity: e.ItemQuantity}
}

// resetEntries drops the present entries before a new layout is inserted.
func (t *TableOfContentsSection) resetEntries() {
	t.entries = make(map[ID]Entry)
	t.order = nil
}

// Insert records a section of length bytes written at offset. A recorded
// override supplies the declared geometry in place of the section's own.
func (t *TableOfContentsSection) Insert(id ID, itemLength, itemQuantity int, offset ByteOffsetKey, length int) Entry {
	if o, ok := t.overrides[id]; ok {
		itemLength, itemQuantity = o.ItemLength, o.ItemQuantity
	}
	e := Entry{Section: id, FileOffset: offset, ItemLength: itemLength, ItemQuantity: itemQuantity, ActualLength: length}
	if _, ok := t.entries[id]; !ok {
		t.order = append(t.order, id)
	}
	t.entries[id] = e

	return e
}

func (t *TableOfContentsSection) MergeToIR(_ *Catalog, doc *ir.NavigationData) error {
	out := ir.TableOfContents{NumSections: t.numSections}

	for id := ID(0); int(id) <= t.numSections-2; id++ {
		if o, ok := t.overrides[id]; ok {
			out.Overrides = append(out.Overrides, ir.TableOfContentsEntry{
				Section: int(id), ItemLength: o.ItemLength, ItemQuantity: o.ItemQuantity,
			})
		}
		if l, ok := t.emptyItemLengths[id]; ok {
			out.EmptySectionItemLengths = append(out.EmptySectionItemLengths, ir.EmptySectionItemLength{
				Section: int(id), ItemLength: l,
			})
		}
		if t.absent[id] {
			out.AbsentSections = append(out.AbsentSections, int(id))
		}
	}
	for _, id := range t.order {
		out.SectionOrder = append(out.SectionOrder, int(id))
	}
	doc.TableOfContents = out

	return nil
}

// Serialize writes the directory for the entries inserted so far. Slots without
// an entry are written with a zero offset and their preserved item length.
func (t *TableOfContentsSection) Serialize(*Catalog) (Output, error) {
	w := endian.NewWriter(t.numSections * TOCEntrySize)
	defer w.Release()

	put := func(e Entry) error {
		if e.FileOffset > maxEntryOffset || e.ItemLength > maxEntryItemLength || e.ItemQuantity > maxEntryItemQuantity ||
			e.FileOffset < 0 || e.ItemLength < 0 || e.ItemQuantity < 0 {
			return fmt.Errorf("%w: table of contents %s", errs.ErrOutOfRange, e)
		}
		off, l, q := uint32(e.FileOffset), uint32(e.ItemLength), uint32(e.ItemQuantity) //nolint:gosec
		w.PutUint32(off | (l>>8)<<24)
		w.PutUint32(l&0xff | q<<8)

		return nil
	}

	if err := put(Entry{Section: TableOfContents, FileOffset: TableOfContentsOffset, ItemLength: TOCEntrySize, ItemQuantity: t.numSections}); err != nil {
		return Output{}, err
	}
	for i := 0; i < t.numSections-1; i++ {
		id := ID(i)
		e, ok := t.entries[id]
		if !ok {
			e = Entry{Section: id, ItemLength: t.emptyItemLengths[id]}
		}
		if err := put(e); err != nil {
			return Output{}, err
		}
	}

	return Output{Data: w.Bytes(), ItemLength: TOCEntrySize, ItemQuantity: t.numSections}, nil
}

func (t *TableOfContentsSection) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "table of contents: %d entries\n", t.numSections)
	for _, e := range t.Entries() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	for id := ID(0); int(id) <= t.numSections-2; id++ {
		if !t.absent[id] {
			continue
		}
		fmt.Fprintf(&sb, "section %2d absent", int(id))
		if l, ok := t.emptyItemLengths[id]; ok {
			fmt.Fprintf(&sb, " ; item length %04x", l)
		}
		sb.WriteByte('\n')
	}

	return strings.TrimRight(sb.String(), "\n")
}
