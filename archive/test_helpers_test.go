package archive

import (
	"path/filepath"
	"testing"

	"github.com/seistools/stratum/ast"
	"github.com/seistools/stratum/bir"
	"github.com/seistools/stratum/iir"
)

// createTestArchive opens a fresh archive under a temporary directory.
func createTestArchive(t *testing.T) *Archive {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

// encodeTestUnit returns the encoded bytes of a minimal named unit.
// Encoding is deterministic, so equal inputs yield equal bytes.
func encodeTestUnit(t *testing.T, unitName string) []byte {
	t.Helper()
	return encodeTestUnitRev(t, unitName, 0)
}

// encodeTestUnitRev varies the unit content with rev so the same unit
// name can be archived under distinct digests.
func encodeTestUnitRev(t *testing.T, unitName string, rev int) []byte {
	t.Helper()

	inst := iir.NewStencilInstantiation(unitName, unitName+".st", ast.Locate(1, 1))
	gv, err := ast.NewGlobalValue(ast.KindInteger).WithValue(ast.IntValue(rev))
	if err != nil {
		t.Fatalf("WithValue() failed: %v", err)
	}
	if _, err := inst.Meta.AddGlobalVariable("rev", gv); err != nil {
		t.Fatalf("AddGlobalVariable() failed: %v", err)
	}

	data, err := bir.Encode(inst)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	return data
}
