package encoding

import (
	"testing"

	"github.com/arloliu/navdb/errs"
	"github.com/stretchr/testify/require"
)

var loganHeap = []byte{
	0xca, 0x0b, 0xa0, 0x91, 0xb2, 0x94, 0x17, 0x41, 0x23,
	0xe2, 0x73, 0x85, 0xca, 0x0b, 0xa0, 0x91, 0x74, 0x9c,
}

func TestPrefixTextDecoder_DecodeAt(t *testing.T) {
	d := NewPrefixTextDecoder(NewBitReader(loganHeap))

	s, err := d.DecodeAt(BitPosition{Byte: 0, Bit: 6})
	require.NoError(t, err)
	require.Equal(t, "LOGAN CO", s)
	require.Equal(t, BitPosition{Byte: 5, Bit: 5}, d.Position())

	s, err = d.DecodeAt(BitPosition{Byte: 5, Bit: 5})
	require.NoError(t, err)
	require.Equal(t, "LOGAN FIELD", s)
}

func TestPrefixTextDecoder_ExtendedAlphabet(t *testing.T) {
	data := []byte{
		0x01, 0x55, 0x4f, 0x8c, 0xa8, 0x9f, 0xb8, 0xfa, 0x7d, 0x9f,
		0xbf, 0x4f, 0xa7, 0xe3, 0xe9, 0xf4, 0xfe, 0xfd, 0x3e, 0x92,
	}
	d := NewPrefixTextDecoder(NewBitReader(data))

	s, err := d.DecodeAt(BitPosition{Byte: 0, Bit: 7})
	require.NoError(t, err)
	require.Equal(t, "MON-SUN: 06:00-00:00", s)
	require.False(t, d.HasRemaining())
}

func TestPrefixTextDecoder_Sequential(t *testing.T) {
	data := []byte{0x89, 0x7d, 0xaf, 0xf7, 0xf8, 0xfa, 0xfd, 0x3e, 0x9f, 0x41, 0x7d, 0xaf, 0xf7, 0xf8}
	d := NewPrefixTextDecoder(NewBitReader(data))

	s, err := d.Decode()
	require.NoError(t, err)
	require.Equal(t, " ", s)
	require.Equal(t, BitPosition{Byte: 1, Bit: 1}, d.Position())

	s, err = d.Decode()
	require.NoError(t, err)
	require.Equal(t, "(D)-3002", s)
}

func TestPrefixTextDecoder_Errors(t *testing.T) {
	t.Run("illegal code", func(t *testing.T) {
		// 0001 is neither A nor a 4-bit code, and 1111111111 exceeds the 9-bit table
		d := NewPrefixTextDecoder(NewBitReader([]byte{0xff, 0xff}))
		_, err := d.Decode()
		require.ErrorIs(t, err, errs.ErrIllegalEncoding)
	})

	t.Run("missing terminator", func(t *testing.T) {
		// "AAA" then the input ends
		d := NewPrefixTextDecoder(NewBitReader([]byte{0x00}))
		_, err := d.Decode()
		require.ErrorIs(t, err, errs.ErrOutOfRange)
	})
}

func TestPrefixTextDecoder_HasRemaining(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		skip int
		want bool
	}{
		{"full bytes left", []byte{0x00, 0x00}, 0, true},
		{"three bits left", []byte{0x00}, 5, false},
		{"zero padding", []byte{0x00}, 2, false},
		{"non-zero tail", []byte{0x01}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewBitReader(tt.data)
			if tt.skip > 0 {
				_, err := r.ReadBits(tt.skip)
				require.NoError(t, err)
			}
			d := NewPrefixTextDecoder(r)
			require.Equal(t, tt.want, d.HasRemaining())
			require.Equal(t, len(tt.data)*8-tt.skip, r.RemainingBits(), "checking for more text must not move the cursor")
		})
	}
}

func TestPrefixTextEncoder(t *testing.T) {
	w := NewBitWriter(0)
	defer w.Release()
	w.WriteBits(6, 0)

	e := NewPrefixTextEncoder(w)
	require.NoError(t, e.Encode("LOGAN CO"))
	require.Equal(t, []byte{0x02, 0x0b, 0xa0, 0x91, 0xb2, 0x90}, w.Bytes())
	require.Equal(t, BitPosition{Byte: 5, Bit: 5}, e.Position())

	require.NoError(t, e.Encode("LOGAN FIELD"))
	require.Equal(t, []byte{0x02, 0x0b, 0xa0, 0x91, 0xb2, 0x94, 0x17, 0x41, 0x23, 0xe2, 0x73, 0x85, 0xc8}, w.Bytes())
}

func TestPrefixTextEncoder_Alphabets(t *testing.T) {
	w := NewBitWriter(0)
	defer w.Release()
	e := NewPrefixTextEncoder(w)

	require.ErrorIs(t, e.Encode("MON: 0600"), errs.ErrUnencodableCharacter)
	require.ErrorIs(t, e.Encode("lower"), errs.ErrUnencodableCharacter)
	require.ErrorIs(t, e.EncodeExtended("A\x00B"), errs.ErrUnencodableCharacter)
	require.Equal(t, BitPosition{}, w.Position(), "rejected strings must not write")

	require.NoError(t, e.EncodeExtended("MON-SUN: 06:00-00:00"))
	require.NoError(t, e.Encode(""))

	d := NewPrefixTextDecoder(NewBitReader(w.Bytes()))
	s, err := d.Decode()
	require.NoError(t, err)
	require.Equal(t, "MON-SUN: 06:00-00:00", s)
	s, err = d.Decode()
	require.NoError(t, err)
	require.Empty(t, s)
}

func TestPrefixText_RoundTripAllCharacters(t *testing.T) {
	text := "AENORILSTUMCDHBGKPYVWFJZXQ1204367985 -/,.&()+;':"

	w := NewBitWriter(0)
	defer w.Release()
	require.NoError(t, NewPrefixTextEncoder(w).EncodeExtended(text))

	s, err := NewPrefixTextDecoder(NewBitReader(w.Bytes())).Decode()
	require.NoError(t, err)
	require.Equal(t, text, s)
}
