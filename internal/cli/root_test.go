package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "stratum", cmd.Use)
	assert.Contains(t, cmd.Long, "stencil instantiation")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"dump", "validate", "globals", "archive"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestArchiveSubcommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	subcommands := []string{"put", "get", "ls"}

	for _, cmdName := range subcommands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{"archive", cmdName})
			require.NoError(t, err, "Subcommand archive %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestGlobalsCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	globalsCmd, _, err := cmd.Find([]string{"globals"})
	require.NoError(t, err)

	setFileFlag := globalsCmd.Flags().Lookup("set-file")
	require.NotNil(t, setFileFlag)
	// --set-file is required, so default is empty
	assert.Equal(t, "", setFileFlag.DefValue)

	outputFlag := globalsCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
}

func TestArchiveCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	archiveCmd, _, err := cmd.Find([]string{"archive"})
	require.NoError(t, err)

	dbFlag := archiveCmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	// --db is required, so default is empty
	assert.Equal(t, "", dbFlag.DefValue)

	getCmd, _, err := cmd.Find([]string{"archive", "get"})
	require.NoError(t, err)

	unitFlag := getCmd.Flags().Lookup("unit")
	require.NotNil(t, unitFlag)

	outputFlag := getCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	path := writeUnitFile(t)

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "validate", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
