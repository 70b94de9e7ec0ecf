package section

import (
	"fmt"
	"strings"

	"github.com/arloliu/navdb/encoding"
	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

// StringSection is the heap of prefix-coded strings that facility names and
// locations point into.
//
// Strings keep their file order. Keys read from a container resolve through
// readKeys; after Serialize every string has a written key.
type StringSection struct {
	base
	strings     []string
	readKeys    map[BitPositionKey]IndexKey
	firstIndex  map[string]IndexKey
	writtenKeys []BitPositionKey
}

func newStringSection(id ID) *StringSection {
	return &StringSection{
		base:       base{id: id},
		readKeys:   make(map[BitPositionKey]IndexKey),
		firstIndex: make(map[string]IndexKey),
	}
}

func (s *StringSection) add(text string) IndexKey {
	key := IndexKey(len(s.strings))
	s.strings = append(s.strings, text)
	if _, ok := s.firstIndex[text]; !ok {
		s.firstIndex[text] = key
	}

	return key
}

func decodeStrings(_ *Catalog, entry Entry, data []byte) (Section, error) {
	s := newStringSection(entry.Section)
	dec := encoding.NewPrefixTextDecoder(encoding.NewBitReader(data))
	for dec.HasRemaining() {
		pos := dec.Position()
		text, err := dec.Decode()
		if err != nil {
			return nil, fmt.Errorf("string at %s: %w", pos, err)
		}
		s.readKeys[pos] = s.add(text)
	}

	return s, nil
}

func stringsFromIR(id ID, doc *ir.NavigationData) (Section, error) {
	s := newStringSection(id)
	for _, text := range doc.Strings {
		s.add(text)
	}

	return s, nil
}

// Len returns the number of strings.
func (s *StringSection) Len() int {
	return len(s.strings)
}

// Resolve maps a key read from the container to the string's index.
func (s *StringSection) Resolve(key BitPositionKey) (IndexKey, error) {
	i, ok := s.readKeys[key]
	if !ok {
		return 0, fmt.Errorf("%w: no string starts at %s", errs.ErrUnresolvedKey, key)
	}

	return i, nil
}

// Lookup returns the string at key.
func (s *StringSection) Lookup(key IndexKey) (string, error) {
	if int(key) < 0 || int(key) >= len(s.strings) {
		return "", fmt.Errorf("%w: string %s of %d", errs.ErrUnresolvedKey, key, len(s.strings))
	}

	return s.strings[key], nil
}

// LookupOrInsert returns the index of the first copy of text, appending it when
// it is not present.
func (s *StringSection) LookupOrInsert(text string) IndexKey {
	if i, ok := s.firstIndex[text]; ok {
		return i
	}

	return s.add(text)
}

// WrittenKey returns where the string at key was placed by the last Serialize.
func (s *StringSection) WrittenKey(key IndexKey) (BitPositionKey, error) {
	if int(key) < 0 || int(key) >= len(s.writtenKeys) {
		return BitPositionKey{}, fmt.Errorf("%w: string %s has not been written", errs.ErrUnresolvedKey, key)
	}

	return s.writtenKeys[key], nil
}

func (s *StringSection) MergeToIR(_ *Catalog, doc *ir.NavigationData) error {
	doc.Strings = append([]string{}, s.strings...)
	return nil
}

func (s *StringSection) Serialize(*Catalog) (Output, error) {
	w := encoding.NewBitWriter(len(s.strings) * 8)
	defer w.Release()

	enc := encoding.NewPrefixTextEncoder(w)
	s.writtenKeys = make([]BitPositionKey, 0, len(s.strings))
	for i, text := range s.strings {
		s.writtenKeys = append(s.writtenKeys, enc.Position())
		if err := enc.EncodeExtended(text); err != nil {
			return Output{}, fmt.Errorf("string %d: %w", i, err)
		}
	}
	data := w.Bytes()

	return Output{Data: data, ItemLength: 1, ItemQuantity: len(data)}, nil
}

func (s *StringSection) String() string {
	var sb strings.Builder
	for i, text := range s.strings {
		fmt.Fprintf(&sb, "%5d: %s\n", i, text)
	}

	return strings.TrimRight(sb.String(), "\n")
}
