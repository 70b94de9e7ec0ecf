package section

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arloliu/navdb/endian"
	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

// The identifier index maps the third encoded identifier byte of a facility to
// the index of the first facility carrying it. Facilities are sorted by
// identifier, so a facility's byte is the one whose first index is the greatest
// not exceeding its own.
const (
	identifierIndexItemLength = 3
	identifierIndexEntries    = 164
	identifierIndexFirstByte  = 4
	identifierIndexAbsent     = 0x3ffff
)

type prefixStart struct {
	prefix byte
	first  IndexKey
}

// IdentifierIndexSection is the facility identifier prefix index.
type IdentifierIndexSection struct {
	base
	firstByPrefix map[byte]IndexKey
	// starts is sorted by first index; rebuilt lazily after inserts.
	starts []prefixStart
	dirty  bool
}

func newIdentifierIndex(id ID) *IdentifierIndexSection {
	return &IdentifierIndexSection{base: base{id: id}, firstByPrefix: make(map[byte]IndexKey)}
}

func decodeIdentifierIndex(_ *Catalog, entry Entry, data []byte) (Section, error) {
	if entry.ItemLength != identifierIndexItemLength || entry.ItemQuantity != identifierIndexEntries ||
		len(data) != identifierIndexItemLength*identifierIndexEntries {
		return nil, fmt.Errorf("%w: identifier index must be %d entries of %d bytes, got %s",
			errs.ErrMalformedContainer, identifierIndexEntries, identifierIndexItemLength, entry)
	}

	s := newIdentifierIndex(entry.Section)
	r := endian.NewReader(data)
	for i := 0; i < identifierIndexEntries; i++ {
		v, err := r.Uint24()
		if err != nil {
			return nil, err
		}
		if v != identifierIndexAbsent {
			s.firstByPrefix[byte(i+identifierIndexFirstByte)] = IndexKey(v)
		}
	}
	s.dirty = true

	return s, nil
}

func identifierIndexFromIR(id ID, _ *ir.NavigationData) (Section, error) {
	return newIdentifierIndex(id), nil
}

// Insert records that the facility at index carries prefix. Only the first
// index seen for a prefix is kept.
func (s *IdentifierIndexSection) Insert(prefix byte, index IndexKey) error {
	if int(prefix) < identifierIndexFirstByte || int(prefix) >= identifierIndexFirstByte+identifierIndexEntries {
		return fmt.Errorf("%w: identifier byte 0x%02x has no index entry", errs.ErrOutOfRange, prefix)
	}
	if _, ok := s.firstByPrefix[prefix]; !ok {
		s.firstByPrefix[prefix] = index
		s.dirty = true
	}

	return nil
}

// Prefix returns the identifier byte of the facility at index.
func (s *IdentifierIndexSection) Prefix(index IndexKey) (byte, error) {
	if s.dirty {
		s.starts = s.starts[:0]
		for p, first := range s.firstByPrefix {
			s.starts = append(s.starts, prefixStart{prefix: p, first: first})
		}
		sort.Slice(s.starts, func(i, j int) bool {
			if s.starts[i].first != s.starts[j].first {
				return s.starts[i].first < s.starts[j].first
			}
			return s.starts[i].prefix < s.starts[j].prefix
		})
		s.dirty = false
	}

	i := sort.Search(len(s.starts), func(i int) bool { return s.starts[i].first > index })
	if i == 0 {
		return 0, fmt.Errorf("%w: no identifier prefix covers facility %s", errs.ErrUnresolvedKey, index)
	}

	return s.starts[i-1].prefix, nil
}

func (s *IdentifierIndexSection) Serialize(*Catalog) (Output, error) {
	w := endian.NewWriter(identifierIndexItemLength * identifierIndexEntries)
	defer w.Release()

	for i := 0; i < identifierIndexEntries; i++ {
		v := uint32(identifierIndexAbsent)
		if first, ok := s.firstByPrefix[byte(i+identifierIndexFirstByte)]; ok {
			if first < 0 || first >= identifierIndexAbsent {
				return Output{}, fmt.Errorf("%w: facility index %d", errs.ErrOutOfRange, first)
			}
			v = uint32(first) //nolint:gosec
		}
		w.PutUint24(v)
	}

	return Output{Data: w.Bytes(), ItemLength: identifierIndexItemLength, ItemQuantity: identifierIndexEntries}, nil
}

func (s *IdentifierIndexSection) String() string {
	var sb strings.Builder
	for i := 0; i < identifierIndexEntries; i++ {
		p := byte(i + identifierIndexFirstByte)
		if first, ok := s.firstByPrefix[p]; ok {
			fmt.Fprintf(&sb, "%02x: %d\n", p, first)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
