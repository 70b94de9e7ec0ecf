package encoding

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"

	"github.com/arloliu/navdb/errs"
)

// DecodeLatin1 converts ISO 8859-1 bytes to a string.
func DecodeLatin1(data []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// every byte is a valid ISO 8859-1 character
		return string(data)
	}

	return string(out)
}

// EncodeLatin1 converts text to ISO 8859-1 bytes.
//
// Returns errs.ErrUnencodableCharacter when text contains a rune outside Latin-1.
func EncodeLatin1(text string) ([]byte, error) {
	out, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not latin-1: %v", errs.ErrUnencodableCharacter, text, err)
	}

	return out, nil
}

// EncodeLatin1Fixed encodes text into exactly width bytes, padded with spaces.
func EncodeLatin1Fixed(text string, width int) ([]byte, error) {
	out, err := EncodeLatin1(text)
	if err != nil {
		return nil, err
	}
	if len(out) > width {
		return nil, fmt.Errorf("%w: %q needs %d bytes, field holds %d", errs.ErrOutOfRange, text, len(out), width)
	}

	padded := make([]byte, width)
	copy(padded, out)
	for i := len(out); i < width; i++ {
		padded[i] = ' '
	}

	return padded, nil
}

// Latin1Len returns the encoded length of text, which is its rune count.
func Latin1Len(text string) int {
	return len([]rune(text))
}
