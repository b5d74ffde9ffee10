package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUnit(t *testing.T) {
	path := writeUnitFile(t)

	unit, raw, err := LoadUnit(path)
	require.NoError(t, err)
	require.NotNil(t, unit)
	assert.Equal(t, "double_smooth", unit.Meta.UnitName)

	// The raw bytes are exactly the file content.
	want, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, raw)
}

func TestLoadUnitNotFound(t *testing.T) {
	_, _, err := LoadUnit("/nonexistent/unit.sbir")
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
	assert.Contains(t, loadErr.Error(), "E002: ")
}

func TestLoadUnitMalformed(t *testing.T) {
	path := writeGarbageFile(t)

	_, _, err := LoadUnit(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeMalformed, loadErr.Code)
	assert.Contains(t, loadErr.Message, "decoding")
}
