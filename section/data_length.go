package section

import (
	"fmt"
	"strings"

	"github.com/arloliu/navdb/endian"
	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

// Data length entries consulted by the detail codec.
const (
	dataLengthRunwayInfo2 = 3
	dataLengthCommInfo1   = 9
	dataLengthCommInfo2   = 10
	dataLengthCommInfo4   = 11
)

const maxDataLengthItemLength = 8

// DataLengthSection lists item sizes other sections depend on.
type DataLengthSection struct {
	base
	itemLength int
	values     []uint64
}

// itemCount returns the number of itemLength-sized items in actual bytes.
func itemCount(id ID, itemLength, actual int) (int, error) {
	if itemLength == 0 {
		if actual != 0 {
			return 0, fmt.Errorf("%w: %d bytes of zero-length items", errs.ErrTrailingData, actual)
		}

		return 0, nil
	}
	if actual%itemLength != 0 {
		return 0, fmt.Errorf("%w: %s holds %d bytes, not a multiple of item length %d",
			errs.ErrMalformedContainer, id, actual, itemLength)
	}

	return actual / itemLength, nil
}

func decodeDataLength(_ *Catalog, entry Entry, data []byte) (Section, error) {
	if entry.ItemLength > maxDataLengthItemLength {
		return nil, fmt.Errorf("%w: data length item length %d", errs.ErrMalformedContainer, entry.ItemLength)
	}
	n, err := itemCount(entry.Section, entry.ItemLength, len(data))
	if err != nil {
		return nil, err
	}

	s := &DataLengthSection{base: base{id: DataLength}, itemLength: entry.ItemLength, values: make([]uint64, 0, n)}
	r := endian.NewReader(data)
	for i := 0; i < n; i++ {
		v, err := r.UintN(entry.ItemLength)
		if err != nil {
			return nil, err
		}
		s.values = append(s.values, v)
	}

	return s, nil
}

func dataLengthFromIR(id ID, doc *ir.NavigationData) (Section, error) {
	s := &DataLengthSection{base: base{id: id}}
	if doc.DataLength != nil {
		s.itemLength = doc.DataLength.ItemLength
		s.values = append(s.values, doc.DataLength.Values...)
	}
	if s.itemLength < 0 || s.itemLength > maxDataLengthItemLength {
		return nil, fmt.Errorf("%w: data length item length %d", errs.ErrInvalidIR, s.itemLength)
	}

	return s, nil
}

// Value returns entry i as a byte count.
func (s *DataLengthSection) Value(i int) (int, error) {
	if i < 0 || i >= len(s.values) {
		return 0, fmt.Errorf("%w: data length %d of %d", errs.ErrUnresolvedKey, i, len(s.values))
	}

	return int(s.values[i]), nil //nolint:gosec
}

func (s *DataLengthSection) MergeToIR(_ *Catalog, doc *ir.NavigationData) error {
	doc.DataLength = &ir.DataLength{ItemLength: s.itemLength, Values: append([]uint64{}, s.values...)}
	return nil
}

func (s *DataLengthSection) Serialize(*Catalog) (Output, error) {
	w := endian.NewWriter(s.itemLength * len(s.values))
	defer w.Release()

	for i, v := range s.values {
		if err := w.PutUintN(s.itemLength, v); err != nil {
			return Output{}, fmt.Errorf("data length %d: %w", i, err)
		}
	}

	return Output{Data: w.Bytes(), ItemLength: s.itemLength, ItemQuantity: len(s.values)}, nil
}

func (s *DataLengthSection) String() string {
	var sb strings.Builder
	sb.WriteString("00: ")
	for i, v := range s.values {
		fmt.Fprintf(&sb, "%02d ", v)
		if (i+1)%10 == 0 && i+1 < len(s.values) {
			fmt.Fprintf(&sb, "\n%02d: ", i+1)
		}
	}

	return strings.TrimRight(sb.String(), " ")
}
