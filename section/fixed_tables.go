package section

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/navdb/errs"
)

// fixedTable is a string table compiled into the codec. Indices past the known
// names are rendered as prefix + "_" + index so that they survive a round trip.
type fixedTable struct {
	id     ID
	names  []string
	prefix string
	// size is the number of indices the record field can hold.
	size int
}

var (
	airspaceTable = &fixedTable{
		id:     AirspaceTable,
		names:  []string{"", "CLASS_B", "CLASS_C", "TRSA"},
		prefix: "AIRSPACE",
		size:   8,
	}
	runwayNumberSuffixTable = &fixedTable{
		id:     RunwayNumberSuffixTable,
		names:  []string{"", "CENTER", "LEFT", "RIGHT", "TRUE"},
		prefix: "SUFFIX",
		size:   8,
	}
)

func (t *fixedTable) Lookup(key IndexKey) (string, error) {
	i := int(key)
	switch {
	case i >= 0 && i < len(t.names):
		return t.names[i], nil
	case i >= 0 && i < t.size:
		return t.prefix + "_" + strconv.Itoa(i), nil
	default:
		return "", fmt.Errorf("%w: %s in %s table", errs.ErrUnresolvedKey, key, t.id)
	}
}

func (t *fixedTable) Index(name string) (IndexKey, error) {
	for i, n := range t.names {
		if n == name {
			return IndexKey(i), nil
		}
	}
	if rest, ok := strings.CutPrefix(name, t.prefix+"_"); ok {
		if i, err := strconv.Atoi(rest); err == nil && i >= len(t.names) && i < t.size {
			return IndexKey(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q is not in the %s table", errs.ErrUnresolvedKey, name, t.id)
}
