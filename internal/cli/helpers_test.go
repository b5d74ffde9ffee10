package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seistools/stratum/bir"
	"github.com/seistools/stratum/iir"
	"github.com/seistools/stratum/internal/irtest"
)

// writeUnitFile encodes the canonical fixture unit into a temp file and
// returns its path.
func writeUnitFile(t *testing.T) string {
	t.Helper()
	return writeEncodedUnit(t, irtest.Instantiation(t))
}

// writeEncodedUnit encodes a unit into a temp file and returns its path.
func writeEncodedUnit(t *testing.T, unit *iir.StencilInstantiation) string {
	t.Helper()

	data, err := bir.Encode(unit)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "unit.sbir")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// writeGarbageFile writes bytes that fail structural decode.
func writeGarbageFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "garbage.sbir")
	require.NoError(t, os.WriteFile(path, []byte("not an encoded unit"), 0o644))
	return path
}
