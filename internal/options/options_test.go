package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type codecConfig struct {
	order   []int
	verbose bool
}

func withOrder(order ...int) Option[*codecConfig] {
	return New(func(c *codecConfig) error {
		if len(order) == 0 {
			return errors.New("empty order")
		}
		c.order = order

		return nil
	})
}

func withVerbose() Option[*codecConfig] {
	return NoError(func(c *codecConfig) { c.verbose = true })
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &codecConfig{}
		require.NoError(t, Apply(cfg, withOrder(1, 2), withVerbose(), withOrder(3)))
		require.Equal(t, []int{3}, cfg.order)
		require.True(t, cfg.verbose)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &codecConfig{}
		err := Apply(cfg, withOrder(), withVerbose())
		require.EqualError(t, err, "empty order")
		require.False(t, cfg.verbose)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &codecConfig{}
		require.NoError(t, Apply(cfg, nil, withVerbose()))
		require.True(t, cfg.verbose)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &codecConfig{}
		require.NoError(t, Apply(cfg))
		require.Nil(t, cfg.order)
	})
}
