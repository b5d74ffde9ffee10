package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalValueUnsetVersusZero(t *testing.T) {
	unset := NewGlobalValue(KindInteger)
	assert.False(t, unset.IsSet())

	zero, err := unset.WithValue(IntValue(0))
	require.NoError(t, err)
	assert.True(t, zero.IsSet())

	// Declared-but-unset and explicitly-zero are distinct states.
	assert.NotEqual(t, unset, zero)
	assert.Equal(t, "int <unset>", unset.String())
	assert.Equal(t, "int = 0", zero.String())
}

func TestGlobalValueKindMismatch(t *testing.T) {
	g := NewGlobalValue(KindBoolean)

	_, err := g.WithValue(FloatValue(1.5))
	assert.ErrorContains(t, err, "kind mismatch")

	_, err = g.WithValue(nil)
	assert.Error(t, err)

	set, err := g.WithValue(BoolValue(true))
	require.NoError(t, err)
	assert.Equal(t, "bool = true", set.String())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{BoolValue(false), "false"},
		{IntValue(-42), "-42"},
		{FloatValue(0.5), "0.5"},
		{FloatValue(1e21), "1e+21"},
		{nil, "<unset>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.v))
	}
}

func TestValueKinds(t *testing.T) {
	assert.Equal(t, KindBoolean, BoolValue(true).Kind())
	assert.Equal(t, KindInteger, IntValue(7).Kind())
	assert.Equal(t, KindFloat, FloatValue(2.5).Kind())
	assert.Equal(t, "invalid(0)", KindInvalid.String())
}
