package section

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForeignKeys_String(t *testing.T) {
	require.Equal(t, "index 7", IndexKey(7).String())
	require.Equal(t, "offset 0x00000220", ByteOffsetKey(0x220).String())
	require.Equal(t, "section offset 0x1c", SectionOffsetKey(0x1c).String())
	require.Equal(t, "facility offset 0x00000220", fmt.Sprintf("facility %s", ByteOffsetKey(0x220)))
}

func TestByteOffsetKey_Advance(t *testing.T) {
	k := ByteOffsetKey(TableOfContentsOffset)
	require.Equal(t, ByteOffsetKey(0x208), k.Advance(TOCEntrySize))
	require.Equal(t, k, k.Advance(0))
	require.Equal(t, ByteOffsetKey(TableOfContentsOffset), k, "Advance must not modify the receiver")
}
