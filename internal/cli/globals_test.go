package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seistools/stratum/ast"
	"github.com/seistools/stratum/bir"
	"github.com/seistools/stratum/internal/irtest"
)

// writeOverrides writes YAML override content to a temp file.
func writeOverrides(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGlobalsOverrideFloat(t *testing.T) {
	path := writeUnitFile(t)
	setFile := writeOverrides(t, "eps: 0.25\n")
	outFile := filepath.Join(t.TempDir(), "patched.sbir")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewGlobalsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--set-file", setFile, "--output", outFile})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "set 1 global(s)")

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	unit, err := bir.Decode(data)
	require.NoError(t, err)

	gv := unit.Meta.Globals["eps"]
	require.True(t, gv.IsSet())
	assert.Equal(t, ast.FloatValue(0.25), gv.Value)

	// dt keeps its explicit zero.
	dt := unit.Meta.Globals["dt"]
	require.True(t, dt.IsSet())
	assert.Equal(t, ast.FloatValue(0), dt.Value)

	// The input file stays untouched when --output is given.
	original, err := os.ReadFile(path)
	require.NoError(t, err)
	origUnit, err := bir.Decode(original)
	require.NoError(t, err)
	assert.False(t, origUnit.Meta.Globals["eps"].IsSet())
}

func TestGlobalsRewriteInPlace(t *testing.T) {
	path := writeUnitFile(t)
	setFile := writeOverrides(t, "eps: 2.5\n")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewGlobalsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--set-file", setFile})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	unit, err := bir.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, ast.FloatValue(2.5), unit.Meta.Globals["eps"].Value)
}

func TestGlobalsMultipleOverridesJSON(t *testing.T) {
	path := writeUnitFile(t)
	setFile := writeOverrides(t, "eps: 0.25\ndt: 1.5\n")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewGlobalsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--set-file", setFile})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"eps", "dt"}, data["updated"])
	assert.Equal(t, path, data["output"])
}

func TestGlobalsNormalizesNames(t *testing.T) {
	unit := irtest.Instantiation(t)
	_, err := unit.Meta.AddGlobalVariable("café", ast.NewGlobalValue(ast.KindInteger))
	require.NoError(t, err)
	path := writeEncodedUnit(t, unit)

	// The override key uses the decomposed form: 'e' plus combining acute.
	setFile := writeOverrides(t, "café: 7\n")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewGlobalsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--set-file", setFile})

	err = cmd.Execute()
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	patched, err := bir.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, ast.IntValue(7), patched.Meta.Globals["café"].Value)
}

func TestGlobalsRejectedOverrides(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"unknown_global", "missing: 1.0\n", "unknown global"},
		{"int_for_float", "eps: 4\n", "kind mismatch"},
		{"bool_for_float", "eps: true\n", "kind mismatch"},
		{"string_scalar", "eps: fast\n", "unsupported YAML tag"},
		{"sequence_value", "eps: [1.0, 2.0]\n", "must be a scalar"},
		{"top_level_sequence", "- eps\n", "must be a mapping"},
		{"empty_file", "", "is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeUnitFile(t)
			setFile := writeOverrides(t, tt.content)

			buf := &bytes.Buffer{}
			rootOpts := &RootOptions{Format: "text"}
			cmd := NewGlobalsCommand(rootOpts)
			cmd.SetOut(buf)
			cmd.SetArgs([]string{path, "--set-file", setFile})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, buf.String(), "Error [E005]")
			assert.Contains(t, buf.String(), tt.wantMsg)

			// A rejected run never rewrites the input.
			data, readErr := os.ReadFile(path)
			require.NoError(t, readErr)
			unit, decodeErr := bir.Decode(data)
			require.NoError(t, decodeErr)
			assert.False(t, unit.Meta.Globals["eps"].IsSet())
		})
	}
}

func TestGlobalsVerboseOutput(t *testing.T) {
	path := writeUnitFile(t)
	setFile := writeOverrides(t, "eps: 0.25\n")

	stdoutBuf := &bytes.Buffer{}
	stderrBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Verbose: true}
	cmd := NewGlobalsCommand(rootOpts)
	cmd.SetOut(stdoutBuf)
	cmd.SetErr(stderrBuf) // Verbose output goes to stderr
	cmd.SetArgs([]string{path, "--set-file", setFile})

	err := cmd.Execute()
	require.NoError(t, err)

	verboseOutput := stderrBuf.String()
	assert.Contains(t, verboseOutput, "parsed 1 override(s)")
	assert.Contains(t, verboseOutput, "set eps = float = 0.25")
}
