package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrailingDataIsMalformedContainer(t *testing.T) {
	require.ErrorIs(t, ErrTrailingData, ErrMalformedContainer)
	require.NotErrorIs(t, ErrMalformedContainer, ErrTrailingData)
}

func TestWrapSection(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		require.NoError(t, WrapSection(6, "decode", nil))
	})

	t.Run("adds context and unwraps", func(t *testing.T) {
		err := WrapSection(6, "decode", fmt.Errorf("record 3: %w", ErrOutOfRange))
		require.ErrorIs(t, err, ErrOutOfRange)
		require.Equal(t, "section 6: decode: record 3: out of range", err.Error())

		var se *SectionError
		require.True(t, errors.As(err, &se))
		require.Equal(t, 6, se.Section)
		require.Equal(t, "decode", se.Op)
	})

	t.Run("keeps innermost section", func(t *testing.T) {
		inner := WrapSection(9, "serialize", ErrUnresolvedKey)
		outer := WrapSection(6, "serialize", fmt.Errorf("detail: %w", inner))

		var se *SectionError
		require.True(t, errors.As(outer, &se))
		require.Equal(t, 9, se.Section)
	})
}
