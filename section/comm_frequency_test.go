package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/navdb/encoding"
	"github.com/arloliu/navdb/errs"
)

func TestFrequencyCodec(t *testing.T) {
	tests := []struct {
		code uint32
		khz  int
	}{
		{code: 0, khz: 108000},
		{code: 1000, khz: 118000},
		{code: 1002, khz: 118025},
		{code: 1402, khz: 122025},
		{code: 2160, khz: 129600},
	}

	for _, tt := range tests {
		require.Equal(t, tt.khz, decodeFrequency(tt.code), "code %d", tt.code)

		code, err := encodeFrequency(tt.khz)
		require.NoError(t, err)
		require.Equal(t, tt.code, code, "%d kHz", tt.khz)
	}

	for _, khz := range []int{118001, 107995, 0, 150000} {
		_, err := encodeFrequency(khz)
		require.ErrorIs(t, err, errs.ErrOutOfRange, "%d kHz", khz)
	}
}

func TestEncodeNarrative(t *testing.T) {
	b, err := encodeNarrative("CTC APP")
	require.NoError(t, err)
	require.Zero(t, b[0]&0xfe, "the first seven bits are zero")

	text, err := encoding.NewPrefixTextDecoder(encoding.NewBitReader(b)).
		DecodeAt(encoding.BitPosition{Bit: narrativeLeadingBits})
	require.NoError(t, err)
	require.Equal(t, "CTC APP", text)

	_, err = encodeNarrative("ctc")
	require.ErrorIs(t, err, errs.ErrUnencodableCharacter)
}

func TestFieldPacker(t *testing.T) {
	var p fieldPacker
	p.put("a", 3, 2, 30)
	p.putInt("b", 0x1f, 5, 0)
	p.putBool(true, 8)
	require.NoError(t, p.err)
	require.Equal(t, uint32(0xc000011f), p.word)
	require.Equal(t, uint32(3), field(p.word, 2, 30))
	require.True(t, flag(p.word, 8))

	p.put("c", 4, 2, 10)
	require.ErrorIs(t, p.err, errs.ErrOutOfRange)

	p = fieldPacker{}
	p.putInt("d", -1, 4, 0)
	require.ErrorIs(t, p.err, errs.ErrOutOfRange)

	u, err := unknownFields([]uint32{1}, 3)
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 0, 0}, u)
	_, err = unknownFields(make([]uint32, 4), 3)
	require.ErrorIs(t, err, errs.ErrInvalidIR)
}
