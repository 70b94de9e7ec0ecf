package section

import (
	"encoding/hex"
	"fmt"

	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

// UnparsedSection keeps a section whose layout is unknown as raw bytes together
// with its declared geometry.
type UnparsedSection struct {
	base
	itemLength   int
	itemQuantity int
	data         []byte
}

func decodeUnparsed(_ *Catalog, entry Entry, data []byte) (Section, error) {
	return &UnparsedSection{
		base:         base{id: entry.Section},
		itemLength:   entry.ItemLength,
		itemQuantity: entry.ItemQuantity,
		data:         append([]byte{}, data...),
	}, nil
}

func unparsedFromIR(id ID, doc *ir.NavigationData) (Section, error) {
	s := &UnparsedSection{base: base{id: id}}
	for _, u := range doc.UnparsedSections {
		if ID(u.Section) != id {
			continue
		}
		if u.ItemLength < 0 || u.ItemQuantity < 0 {
			return nil, fmt.Errorf("%w: %s geometry %d * %d", errs.ErrInvalidIR, id, u.ItemLength, u.ItemQuantity)
		}
		s.itemLength, s.itemQuantity = u.ItemLength, u.ItemQuantity
		s.data = append(s.data, u.Data...)

		break
	}

	return s, nil
}

// Data returns the raw section bytes.
func (s *UnparsedSection) Data() []byte {
	return s.data
}

func (s *UnparsedSection) MergeToIR(_ *Catalog, doc *ir.NavigationData) error {
	doc.UnparsedSections = append(doc.UnparsedSections, ir.UnparsedSection{
		Section:      int(s.id),
		ItemLength:   s.itemLength,
		ItemQuantity: s.itemQuantity,
		Data:         append([]byte{}, s.data...),
	})

	return nil
}

func (s *UnparsedSection) Serialize(*Catalog) (Output, error) {
	return Output{Data: append([]byte{}, s.data...), ItemLength: s.itemLength, ItemQuantity: s.itemQuantity}, nil
}

const unparsedDumpLimit = 256

func (s *UnparsedSection) String() string {
	out := fmt.Sprintf("%d bytes, %d * %d\n", len(s.data), s.itemLength, s.itemQuantity)
	if len(s.data) > unparsedDumpLimit {
		return out + hex.Dump(s.data[:unparsedDumpLimit]) + "..."
	}

	return out + hex.Dump(s.data)
}
