package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seistools/stratum/ast"
	"github.com/seistools/stratum/bir"
	"github.com/seistools/stratum/internal/irtest"
)

// runArchive executes one archive subcommand against the given database
// and returns the command error plus captured stdout.
func runArchive(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewArchiveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs(append(args, "--db", dbPath))
	err := cmd.Execute()
	return buf.String(), err
}

func TestArchivePutAndGet(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "units.db")
	unitPath := writeUnitFile(t)

	output, err := runArchive(t, dbPath, "put", unitPath)
	require.NoError(t, err)
	assert.Contains(t, output, "double_smooth")

	fields := strings.Fields(output)
	require.NotEmpty(t, fields)
	digest := fields[0]
	assert.Len(t, digest, 64)

	restored := filepath.Join(t.TempDir(), "restored.sbir")
	output, err = runArchive(t, dbPath, "get", digest, "-o", restored)
	require.NoError(t, err)
	assert.Contains(t, output, digest)

	want, err := os.ReadFile(unitPath)
	require.NoError(t, err)
	got, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(want, got), "restored bytes differ from the archived input")
}

func TestArchivePutIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "units.db")
	unitPath := writeUnitFile(t)

	first, err := runArchive(t, dbPath, "put", unitPath)
	require.NoError(t, err)
	second, err := runArchive(t, dbPath, "put", unitPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	output, err := runArchive(t, dbPath, "ls")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Len(t, lines, 1)
}

func TestArchiveGetLatestByUnit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "units.db")

	older := writeUnitFile(t)
	_, err := runArchive(t, dbPath, "put", older)
	require.NoError(t, err)

	// Same unit name, different content: the second revision sets eps.
	unit := irtest.Instantiation(t)
	gv, err := unit.Meta.Globals["eps"].WithValue(ast.FloatValue(0.5))
	require.NoError(t, err)
	unit.Meta.Globals["eps"] = gv
	newer := writeEncodedUnit(t, unit)
	_, err = runArchive(t, dbPath, "put", newer)
	require.NoError(t, err)

	restored := filepath.Join(t.TempDir(), "latest.sbir")
	_, err = runArchive(t, dbPath, "get", "--unit", "double_smooth", "-o", restored)
	require.NoError(t, err)

	data, err := os.ReadFile(restored)
	require.NoError(t, err)
	decoded, err := bir.Decode(data)
	require.NoError(t, err)
	require.True(t, decoded.Meta.Globals["eps"].IsSet())
	assert.Equal(t, ast.FloatValue(0.5), decoded.Meta.Globals["eps"].Value)
}

func TestArchiveGetSelectorValidation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "units.db")
	unitPath := writeUnitFile(t)

	output, err := runArchive(t, dbPath, "put", unitPath)
	require.NoError(t, err)
	digest := strings.Fields(output)[0]

	// Both selectors.
	output, err = runArchive(t, dbPath, "get", digest, "--unit", "double_smooth")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "provide exactly one")

	// Neither selector.
	output, err = runArchive(t, dbPath, "get")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "provide exactly one")
}

func TestArchiveGetMissingDigest(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "units.db")

	output, err := runArchive(t, dbPath, "get", strings.Repeat("0", 64))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "Error [E006]")
}

func TestArchivePutGarbage(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "units.db")
	path := writeGarbageFile(t)

	output, err := runArchive(t, dbPath, "put", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "Error [E003]")
}

func TestArchiveLsEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "units.db")

	output, err := runArchive(t, dbPath, "ls")
	require.NoError(t, err)
	assert.Contains(t, output, "archive is empty")
}

func TestArchiveLsJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "units.db")
	unitPath := writeUnitFile(t)

	_, err := runArchive(t, dbPath, "put", unitPath)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewArchiveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"ls", "--db", dbPath})

	err = cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)

	rows, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
	row, ok := rows[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "double_smooth", row["unit_name"])
	assert.EqualValues(t, bir.WireVersion, row["wire_version"])
	assert.NotEmpty(t, row["digest"])
	assert.NotEmpty(t, row["id"])
	assert.NotEmpty(t, row["created_at"])
}
