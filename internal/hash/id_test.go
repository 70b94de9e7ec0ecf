package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSection(t *testing.T) {
	require.Equal(t, uint64(0xef46db3751d8e999), Section(nil))
	require.Equal(t, Section([]byte{1, 2, 3}), Section([]byte{1, 2, 3}))
	require.NotEqual(t, Section([]byte{1, 2, 3}), Section([]byte{3, 2, 1}))
}

func TestSource(t *testing.T) {
	require.Equal(t, "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", Source(nil))
	require.Len(t, Source([]byte("navdb")), 64)
	require.NotEqual(t, Source([]byte("a")), Source([]byte("b")))
}
