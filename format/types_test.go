package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressionFromPath(t *testing.T) {
	tests := []struct {
		path string
		want CompressionType
	}{
		{"navdata.json", CompressionNone},
		{"navdata.json.zst", CompressionZstd},
		{"NAVDATA.JSON.XZ", CompressionXZ},
		{"/tmp/x.json.s2", CompressionS2},
		{"x.lz4", CompressionLZ4},
		{"x.zstd", CompressionNone},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, CompressionFromPath(tt.path))
		})
	}
}

func TestCompressionType_String(t *testing.T) {
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "XZ", CompressionXZ.String())
	require.Equal(t, "Unknown", CompressionType(0).String())
	require.Equal(t, ".lz4", CompressionLZ4.Extension())
	require.Empty(t, CompressionNone.Extension())
}
