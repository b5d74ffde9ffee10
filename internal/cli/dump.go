package cli

import (
	"github.com/spf13/cobra"

	"github.com/seistools/stratum/iir"
)

// DumpSummary is the JSON payload for dump --format json.
type DumpSummary struct {
	UnitName       string `json:"unit_name"`
	FileName       string `json:"file_name,omitempty"`
	Stencils       int    `json:"stencils"`
	MultiStages    int    `json:"multi_stages"`
	Stages         int    `json:"stages"`
	DoMethods      int    `json:"do_methods"`
	DescStatements int    `json:"desc_statements"`
	NamedAccesses  int    `json:"named_accesses"`
	Literals       int    `json:"literals"`
	Globals        int    `json:"globals"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <unit-file>",
		Short: "Render an encoded unit as text",
		Long: `Decode an encoded stencil instantiation and render it as a
deterministic text dump. With --format json, emit a structural summary
instead of the full rendering.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runDump(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	unit, data, err := LoadUnit(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("decoded %s (%d bytes)", path, len(data))

	if formatter.Format == "json" {
		return formatter.Success(summarize(unit))
	}

	if err := unit.Dump(formatter.Writer); err != nil {
		return WrapExitError(ExitCommandError, "rendering dump", err)
	}
	return nil
}

// summarize counts the structural features of a unit for the JSON view.
func summarize(unit *iir.StencilInstantiation) DumpSummary {
	var s DumpSummary

	if unit.Meta != nil {
		s.UnitName = unit.Meta.UnitName
		s.FileName = unit.Meta.FileName
		s.DescStatements = len(unit.Meta.DescStatements)
		s.NamedAccesses = len(unit.Meta.AccessIDToName)
		s.Literals = len(unit.Meta.LiteralIDToName)
		s.Globals = len(unit.Meta.Globals)
	}

	if unit.IR != nil {
		for _, st := range unit.IR.Stencils {
			s.Stencils++
			for _, ms := range st.MultiStages {
				s.MultiStages++
				for _, stage := range ms.Stages {
					s.Stages++
					s.DoMethods += len(stage.DoMethods)
				}
			}
		}
	}

	return s
}
