package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsets(t *testing.T) {
	assert.True(t, Offsets{}.IsZero())
	assert.False(t, Offsets{0, 0, 1}.IsZero())
	assert.Equal(t, Offsets{1, -1, 3}, Offsets{1, 0, 2}.Add(Offsets{0, -1, 1}))

	tests := []struct {
		o    Offsets
		want string
	}{
		{Offsets{}, "[i,j,k]"},
		{Offsets{1, 0, -2}, "[i+1,j,k-2]"},
		{Offsets{-3, 4, 0}, "[i-3,j+4,k]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.o.String())
	}
}

func TestDeferredOffsetResolve(t *testing.T) {
	t.Run("no_substitution", func(t *testing.T) {
		d := NewDeferredOffset(Offsets{2, 0, -1})
		assert.True(t, d.IsResolvable())

		got, err := d.Resolve(nil)
		require.NoError(t, err)
		assert.Equal(t, StaticOffset{Offsets: Offsets{2, 0, -1}}, got)
	})

	t.Run("bound_dimension_receives_contribution", func(t *testing.T) {
		d := NewDeferredOffset(Offsets{1, 0, 0})
		d.ArgumentMap[1] = 0
		d.ArgumentOffset[1] = 1
		assert.False(t, d.IsResolvable())

		// Parameter 0 was instantiated as i+2; the j slot's substitution
		// therefore lands on i with offset 2+1.
		got, err := d.Resolve([]ArgumentBinding{{Dimension: 0, Offset: 2}})
		require.NoError(t, err)
		assert.Equal(t, Offsets{4, 0, 0}, got.Offsets)
	})

	t.Run("negated", func(t *testing.T) {
		d := NewDeferredOffset(Offsets{1, 0, 0})
		d.ArgumentMap[1] = 0
		d.ArgumentOffset[1] = 1
		d.NegateOffset = true

		got, err := d.Resolve([]ArgumentBinding{{Dimension: 0, Offset: 2}})
		require.NoError(t, err)
		assert.Equal(t, Offsets{-2, 0, 0}, got.Offsets)
	})

	t.Run("two_parameters", func(t *testing.T) {
		d := NewDeferredOffset(Offsets{})
		d.ArgumentMap[0] = 1
		d.ArgumentMap[2] = 0

		got, err := d.Resolve([]ArgumentBinding{
			{Dimension: 2, Offset: -1},
			{Dimension: 1, Offset: 3},
		})
		require.NoError(t, err)
		assert.Equal(t, Offsets{0, 3, -1}, got.Offsets)
	})

	t.Run("argument_index_out_of_range", func(t *testing.T) {
		d := NewDeferredOffset(Offsets{})
		d.ArgumentMap[0] = 2

		_, err := d.Resolve([]ArgumentBinding{{Dimension: 0}})
		assert.ErrorContains(t, err, "out of range")
	})

	t.Run("binding_dimension_out_of_range", func(t *testing.T) {
		d := NewDeferredOffset(Offsets{})
		d.ArgumentMap[0] = 0

		_, err := d.Resolve([]ArgumentBinding{{Dimension: 5}})
		assert.ErrorContains(t, err, "dimension")
	})
}

func TestOffsetSpecString(t *testing.T) {
	assert.Equal(t, "[i+1,j,k]", StaticOffset{Offsets: Offsets{1, 0, 0}}.String())

	d := NewDeferredOffset(Offsets{1, 0, 0})
	d.ArgumentMap[1] = 0
	d.ArgumentOffset[1] = 1
	assert.Equal(t, "[i+1,j,k]{j<-arg0+1}", d.String())

	d.NegateOffset = true
	assert.Equal(t, "[i+1,j,k]{j<-arg0+1}(negated)", d.String())
}
